package upload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scansoal/scansoal/pkg/extractor"
)

const (
	DefaultMaxImages    = 5
	DefaultMaxImageSize = 10 << 20

	FieldImages     = "images"
	FieldPGCount    = "pgCount"
	FieldEssayCount = "essayCount"
)

var extRegex = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// content types http.DetectContentType cannot recognize
var unsniffed = []string{
	"image/tiff",
}

// Spool writes uploaded images into a directory under collision free names.
type Spool struct {
	dir string

	maxImages    int
	maxImageSize int64

	contentTypes []string
}

type Option func(*Spool)

func WithMaxImages(n int) Option {
	return func(s *Spool) {
		s.maxImages = n
	}
}

func WithMaxImageSize(n int64) Option {
	return func(s *Spool) {
		s.maxImageSize = n
	}
}

// WithContentTypes restricts the accepted image types. TIFF is only accepted
// by its declared type since it cannot be sniffed.
func WithContentTypes(types ...string) Option {
	return func(s *Spool) {
		s.contentTypes = types
	}
}

func NewSpool(dir string, options ...Option) (*Spool, error) {
	s := &Spool{
		dir: dir,

		maxImages:    DefaultMaxImages,
		maxImageSize: DefaultMaxImageSize,

		contentTypes: extractor.ImageMimeTypes,
	}

	for _, option := range options {
		option(s)
	}

	if s.dir == "" {
		s.dir = filepath.Join(os.TempDir(), "scansoal")
	}

	if s.maxImages <= 0 {
		s.maxImages = DefaultMaxImages
	}

	if s.maxImageSize <= 0 {
		s.maxImageSize = DefaultMaxImageSize
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}

	return s, nil
}

// ReadMultipart spools every part of the "images" field and parses the
// optional section counts. On error nothing is left on disk.
func (s *Spool) ReadMultipart(r *multipart.Reader) (*Batch, error) {
	batch := &Batch{}

	if err := s.readParts(r, batch); err != nil {
		batch.Release()
		return nil, err
	}

	if len(batch.Images) == 0 {
		return nil, ErrNoImages
	}

	return batch, nil
}

func (s *Spool) readParts(r *multipart.Reader, batch *Batch) error {
	for {
		part, err := r.NextPart()

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}

		switch part.FormName() {
		case FieldImages:
			if part.FileName() == "" {
				part.Close()
				return fmt.Errorf("%w: %q must be a file", ErrInvalid, FieldImages)
			}

			if len(batch.Images) >= s.maxImages {
				part.Close()
				return fmt.Errorf("%w: at most %d", ErrTooManyImages, s.maxImages)
			}

			image, err := s.Save(part.FileName(), part.Header.Get("Content-Type"), part)
			part.Close()

			if err != nil {
				return err
			}

			batch.Images = append(batch.Images, image)

		case FieldPGCount:
			batch.PGCount, err = readCount(part)
			part.Close()

			if err != nil {
				return fmt.Errorf("%s: %w", FieldPGCount, err)
			}

		case FieldEssayCount:
			batch.EssayCount, err = readCount(part)
			part.Close()

			if err != nil {
				return fmt.Errorf("%s: %w", FieldEssayCount, err)
			}

		default:
			io.Copy(io.Discard, part)
			part.Close()
		}
	}
}

// Save writes r into a new spool file. Content beyond the size limit or a
// body that is not a supported image is rejected.
func (s *Spool) Save(name, contentType string, r io.Reader) (*Image, error) {
	br := bufio.NewReaderSize(r, 512)
	head, _ := br.Peek(512)

	contentType, err := s.resolveContentType(contentType, head)

	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, s.tempName(name, contentType))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)

	if err != nil {
		return nil, err
	}

	n, err := io.Copy(f, io.LimitReader(br, s.maxImageSize+1))

	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err == nil && n > s.maxImageSize {
		err = fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, name, s.maxImageSize)
	}

	if err == nil && n == 0 {
		err = fmt.Errorf("%w: %s is empty", ErrInvalid, name)
	}

	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return &Image{
		Name:        filepath.Base(name),
		Path:        path,
		ContentType: contentType,
		Size:        n,
	}, nil
}

func (s *Spool) resolveContentType(declared string, head []byte) (string, error) {
	if len(head) > 0 {
		sniffed := http.DetectContentType(head)

		if slices.Contains(s.contentTypes, sniffed) {
			return sniffed, nil
		}
	}

	if mediatype, _, err := mime.ParseMediaType(declared); err == nil {
		if slices.Contains(s.contentTypes, mediatype) && slices.Contains(unsniffed, mediatype) {
			return mediatype, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, declared)
}

func (s *Spool) tempName(name, contentType string) string {
	ext := strings.ToLower(filepath.Ext(name))

	if !extRegex.MatchString(ext) {
		ext = ""

		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
}

func readCount(r io.Reader) (*int, error) {
	data, err := io.ReadAll(io.LimitReader(r, 32))

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCount, err)
	}

	value := strings.TrimSpace(string(data))

	if value == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(value)

	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCount, value)
	}

	return &n, nil
}
