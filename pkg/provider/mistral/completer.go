package mistral

import (
	"github.com/scansoal/scansoal/pkg/provider/openai"
)

// Completer talks to the OpenAI compatible chat API of Mistral.
type Completer = openai.Completer

func NewCompleter(model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		url: DefaultURL,
	}

	for _, option := range options {
		option(cfg)
	}

	return openai.NewCompleter(cfg.url, model, cfg.options...)
}
