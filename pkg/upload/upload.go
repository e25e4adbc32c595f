package upload

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

var (
	// ErrInvalid is wrapped by every error caused by the client's input.
	ErrInvalid = errors.New("invalid upload")

	ErrNoImages         = fmt.Errorf("%w: no images", ErrInvalid)
	ErrTooManyImages    = fmt.Errorf("%w: too many images", ErrInvalid)
	ErrTooLarge         = fmt.Errorf("%w: image too large", ErrInvalid)
	ErrUnsupportedImage = fmt.Errorf("%w: unsupported image type", ErrInvalid)
	ErrInvalidCount     = fmt.Errorf("%w: invalid count", ErrInvalid)
)

// Image is one uploaded file spooled to disk.
type Image struct {
	Name        string
	Path        string
	ContentType string
	Size        int64

	once sync.Once
	err  error
}

func (i *Image) Read() ([]byte, error) {
	return os.ReadFile(i.Path)
}

// Release removes the spooled file. It is safe to call more than once.
func (i *Image) Release() error {
	i.once.Do(func() {
		if err := os.Remove(i.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			i.err = err
		}
	})

	return i.err
}

// Batch is the input of a single request.
type Batch struct {
	Images []*Image

	PGCount    *int
	EssayCount *int
}

// HasCounts reports whether either section count was supplied.
func (b *Batch) HasCounts() bool {
	return b.PGCount != nil || b.EssayCount != nil
}

func (b *Batch) Release() error {
	var errs []error

	for _, i := range b.Images {
		errs = append(errs, i.Release())
	}

	return errors.Join(errs...)
}
