package tesseract

type Option func(*Client)

// WithLanguage sets the languages used when a request carries no hint.
func WithLanguage(language ...string) Option {
	return func(c *Client) {
		c.languages = language
	}
}

// WithVariable passes a tesseract variable such as "user_defined_dpi".
func WithVariable(key, value string) Option {
	return func(c *Client) {
		if c.variables == nil {
			c.variables = map[string]string{}
		}

		c.variables[key] = value
	}
}
