package mistral

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/scansoal/scansoal/pkg/extractor"
)

var _ extractor.Provider = (*Client)(nil)

// markdown image references the OCR service emits for figures
var imageRefRegex = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)

// Client recognizes exam photos with the Mistral OCR API.
type Client struct {
	client *http.Client

	url   string
	token string

	model string
}

func New(options ...Option) (*Client, error) {
	c := &Client{
		client: http.DefaultClient,

		url: "https://api.mistral.ai/v1/",

		model: "mistral-ocr-latest",
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

// Extract sends the image inline as a data URL. The service detects the
// language itself and options are ignored.
func (c *Client) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	if !extractor.IsImage(file) {
		return nil, extractor.ErrUnsupported
	}

	request := ocrRequest{
		Model: c.model,

		Document: ocrDocument{
			Type:     "image_url",
			ImageURL: dataURL(file),
		},
	}

	data, err := json.Marshal(request)

	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.url, "/")+"/ocr", bytes.NewReader(data))

	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var response ocrResponse

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	if response.Usage != nil {
		slog.DebugContext(ctx, "mistral ocr usage", "file", file.Name, "pages", response.Usage.PagesProcessed, "bytes", response.Usage.DocSizeBytes)
	}

	return convertResult(&response), nil
}

func dataURL(file extractor.File) string {
	contentType := file.ContentType

	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(file.Name)))
	}

	if contentType == "" {
		contentType = http.DetectContentType(file.Content)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(file.Content)
}

func convertResult(response *ocrResponse) *extractor.Document {
	result := &extractor.Document{
		Pages: make([]extractor.Page, 0, len(response.Pages)),
	}

	var texts []string

	for _, p := range response.Pages {
		text := strings.TrimSpace(imageRefRegex.ReplaceAllString(p.Markdown, ""))

		page := extractor.Page{
			Page: p.Index + 1,
			Text: text,
		}

		if p.Dimensions != nil {
			page.Width = float64(p.Dimensions.Width)
			page.Height = float64(p.Dimensions.Height)
		}

		if text != "" {
			texts = append(texts, text)
		}

		result.Pages = append(result.Pages, page)
	}

	result.Text = strings.Join(texts, "\n\n")

	return result
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(data))

	if message == "" {
		return errors.New("mistral: " + http.StatusText(resp.StatusCode))
	}

	return fmt.Errorf("mistral: %s: %s", http.StatusText(resp.StatusCode), message)
}
