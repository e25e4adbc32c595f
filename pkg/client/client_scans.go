package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	api "github.com/scansoal/scansoal/server/api"
)

type Scan = api.Scan

type File struct {
	Name string

	Content     []byte
	ContentType string
}

type UploadOptions struct {
	PGCount    *int
	EssayCount *int
}

type Download struct {
	Name        string
	ContentType string

	Content []byte
}

// Error is returned for every non successful response.
type Error struct {
	StatusCode int

	Type    string
	Message string

	Retryable bool
}

func (e *Error) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Type, e.Message)
}

type ScanService struct {
	Options []RequestOption
}

func NewScanService(opts ...RequestOption) ScanService {
	return ScanService{
		Options: opts,
	}
}

func (r *ScanService) Upload(ctx context.Context, files []File, options *UploadOptions, opts ...RequestOption) (*Scan, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	if options == nil {
		options = new(UploadOptions)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": "images", "filename": f.Name}))

		if f.ContentType != "" {
			h.Set("Content-Type", f.ContentType)
		}

		part, err := w.CreatePart(h)

		if err != nil {
			return nil, err
		}

		if _, err := part.Write(f.Content); err != nil {
			return nil, err
		}
	}

	if options.PGCount != nil {
		w.WriteField("pgCount", strconv.Itoa(*options.PGCount))
	}

	if options.EssayCount != nil {
		w.WriteField("essayCount", strconv.Itoa(*options.EssayCount))
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var result Scan

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ScanService) Download(ctx context.Context, id string, opts ...RequestOption) (*Download, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/download/"+id, nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	result := &Download{
		ContentType: resp.Header.Get("Content-Type"),
		Content:     data,
	}

	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		result.Name = params["filename"]
	}

	return result, nil
}

func readError(resp *http.Response) error {
	result := &Error{
		StatusCode: resp.StatusCode,
	}

	var body api.ErrorResponse

	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		result.Type = body.Error.Type
		result.Message = body.Error.Message
		result.Retryable = body.Error.Retryable
	}

	return result
}
