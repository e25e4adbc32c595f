package extractor

import (
	"context"
	"errors"
	"path"
	"slices"
	"strings"

	"github.com/scansoal/scansoal/pkg/provider"
)

type Provider interface {
	Extract(ctx context.Context, file File, options *ExtractOptions) (*Document, error)
}

var (
	ErrUnsupported = errors.New("unsupported type")
)

type File = provider.File

type ExtractOptions struct {
	// Language is a tesseract style hint, e.g. "ind+eng".
	Language string
}

type Document struct {
	Text string

	Pages []Page
}

type Page struct {
	Page int
	Text string

	Width  float64
	Height float64
}

// Languages splits a "ind+eng" style hint into its parts.
func (o *ExtractOptions) Languages() []string {
	if o == nil || o.Language == "" {
		return nil
	}

	var result []string

	for _, l := range strings.Split(o.Language, "+") {
		if l = strings.TrimSpace(l); l != "" {
			result = append(result, l)
		}
	}

	return result
}

var ImageExtensions = []string{
	".png",
	".jpg",
	".jpeg",
	".webp",
	".gif",
	".bmp",
	".tif",
	".tiff",
}

var ImageMimeTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"image/gif",
	"image/bmp",
	"image/tiff",
}

func IsImage(file File) bool {
	if file.ContentType != "" {
		if slices.Contains(ImageMimeTypes, file.ContentType) {
			return true
		}
	}

	if file.Name != "" {
		ext := strings.ToLower(path.Ext(file.Name))

		if slices.Contains(ImageExtensions, ext) {
			return true
		}
	}

	return false
}
