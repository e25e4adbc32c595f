//go:build tesseract

package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scansoal/scansoal/pkg/extractor"
)

func TestExtractBlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))

	for i := range img.Pix {
		img.Pix[i] = color.White.Y
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	c, err := New(WithLanguage("eng"))
	require.NoError(t, err)

	result, err := c.Extract(context.Background(), extractor.File{
		Name:        "blank.png",
		ContentType: "image/png",
		Content:     buf.Bytes(),
	}, &extractor.ExtractOptions{Language: "eng"})

	require.NoError(t, err)
	require.Empty(t, result.Text)
}

func TestExtractUnsupported(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	_, err = c.Extract(context.Background(), extractor.File{Name: "exam.pdf", ContentType: "application/pdf"}, nil)
	require.ErrorIs(t, err, extractor.ErrUnsupported)
}
