package mistral

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`

	IncludeImageBase64 bool `json:"include_image_base64"`
}

type ocrDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

type ocrResponse struct {
	Model string    `json:"model"`
	Pages []ocrPage `json:"pages"`

	Usage *ocrUsage `json:"usage_info"`
}

type ocrPage struct {
	Index      int            `json:"index"`
	Dimensions *ocrDimensions `json:"dimensions"`

	Markdown string `json:"markdown"`
}

type ocrDimensions struct {
	DPI int `json:"dpi"`

	Width  int `json:"width"`
	Height int `json:"height"`
}

type ocrUsage struct {
	PagesProcessed int `json:"pages_processed"`
	DocSizeBytes   int `json:"doc_size_bytes"`
}
