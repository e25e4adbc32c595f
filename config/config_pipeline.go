package config

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/scansoal/scansoal/pkg/document"
	"github.com/scansoal/scansoal/pkg/extractor"
	"github.com/scansoal/scansoal/pkg/ocr"
	"github.com/scansoal/scansoal/pkg/scan"
	"github.com/scansoal/scansoal/pkg/structure"
	"github.com/scansoal/scansoal/pkg/upload"
)

type PipelineConfig struct {
	Language string

	UploadDir    string
	MaxImages    int
	MaxImageSize int64

	// ContentTypes restricts accepted uploads, empty accepts every image type.
	ContentTypes []string

	OCRConcurrency int
	OCRTimeout     time.Duration

	CompletionTimeout time.Duration

	Temperature     float32
	MaxTokens       int
	MaxPromptTokens int

	Format string
	Title  string
}

func DefaultPipeline() PipelineConfig {
	return PipelineConfig{
		Language: ocr.DefaultLanguage,

		UploadDir:    "uploads",
		MaxImages:    upload.DefaultMaxImages,
		MaxImageSize: upload.DefaultMaxImageSize,

		OCRConcurrency: 1,
		OCRTimeout:     2 * time.Minute,

		CompletionTimeout: 2 * time.Minute,

		Temperature:     structure.DefaultTemperature,
		MaxPromptTokens: structure.DefaultMaxPromptTokens,

		Format: "docx",
		Title:  document.DefaultTitle,
	}
}

// MaxBodySize bounds a whole upload request.
func (p PipelineConfig) MaxBodySize() int64 {
	return int64(p.MaxImages)*p.MaxImageSize + 1<<20
}

type pipelineConfig struct {
	Language string `yaml:"language"`

	UploadDir    string `yaml:"upload_dir"`
	MaxImages    int    `yaml:"max_images"`
	MaxImageSize int64  `yaml:"max_image_size"`

	ContentTypes []string `yaml:"content_types"`

	OCRConcurrency int           `yaml:"ocr_concurrency"`
	OCRTimeout     time.Duration `yaml:"ocr_timeout"`

	CompletionTimeout time.Duration `yaml:"completion_timeout"`

	Temperature     *float32 `yaml:"temperature"`
	MaxTokens       int      `yaml:"max_tokens"`
	MaxPromptTokens int      `yaml:"max_prompt_tokens"`

	Format string `yaml:"format"`
	Title  string `yaml:"title"`
}

func (cfg *Config) registerPipeline(f *configFile) error {
	if f.Pipeline == nil {
		return nil
	}

	c := f.Pipeline
	p := &cfg.Pipeline

	if c.Language != "" {
		p.Language = c.Language
	}

	if c.UploadDir != "" {
		p.UploadDir = c.UploadDir
	}

	if c.MaxImages < 0 || c.MaxImageSize < 0 {
		return errors.New("pipeline limits must not be negative")
	}

	if c.MaxImages > 0 {
		p.MaxImages = c.MaxImages
	}

	if c.MaxImageSize > 0 {
		p.MaxImageSize = c.MaxImageSize
	}

	for _, t := range c.ContentTypes {
		t = strings.ToLower(strings.TrimSpace(t))

		if !slices.Contains(extractor.ImageMimeTypes, t) {
			return errors.New("unsupported content type: " + t)
		}

		p.ContentTypes = append(p.ContentTypes, t)
	}

	if c.OCRConcurrency > 0 {
		p.OCRConcurrency = c.OCRConcurrency
	}

	if c.OCRTimeout > 0 {
		p.OCRTimeout = c.OCRTimeout
	}

	if c.CompletionTimeout > 0 {
		p.CompletionTimeout = c.CompletionTimeout
	}

	if c.Temperature != nil {
		p.Temperature = *c.Temperature
	}

	if c.MaxTokens > 0 {
		p.MaxTokens = c.MaxTokens
	}

	if c.MaxPromptTokens > 0 {
		p.MaxPromptTokens = c.MaxPromptTokens
	}

	if c.Format != "" {
		format := strings.ToLower(c.Format)

		if _, err := cfg.Renderer(format); err != nil {
			return errors.New("invalid output format: " + c.Format)
		}

		p.Format = format
	}

	if c.Title != "" {
		p.Title = c.Title
	}

	return nil
}

// Spool creates the upload spool for the pipeline limits.
func (cfg *Config) Spool() (*upload.Spool, error) {
	options := []upload.Option{
		upload.WithMaxImages(cfg.Pipeline.MaxImages),
		upload.WithMaxImageSize(cfg.Pipeline.MaxImageSize),
	}

	if len(cfg.Pipeline.ContentTypes) > 0 {
		options = append(options, upload.WithContentTypes(cfg.Pipeline.ContentTypes...))
	}

	return upload.NewSpool(cfg.Pipeline.UploadDir, options...)
}

// Scanner wires the default extractor, completer, renderer and store into a
// pipeline.
func (cfg *Config) Scanner() (*scan.Pipeline, error) {
	e, err := cfg.Extractor("")

	if err != nil {
		return nil, err
	}

	c, err := cfg.Completer("")

	if err != nil {
		return nil, err
	}

	r, err := cfg.Renderer(cfg.Pipeline.Format)

	if err != nil {
		return nil, err
	}

	s, err := cfg.Store()

	if err != nil {
		return nil, err
	}

	p := cfg.Pipeline

	aggregator := ocr.New(e,
		ocr.WithLanguage(p.Language),
		ocr.WithConcurrency(p.OCRConcurrency),
		ocr.WithTimeout(p.OCRTimeout),
	)

	options := []structure.RequestOption{
		structure.WithTemperature(p.Temperature),
		structure.WithMaxPromptTokens(p.MaxPromptTokens),
	}

	if p.MaxTokens > 0 {
		options = append(options, structure.WithMaxTokens(p.MaxTokens))
	}

	return scan.New(aggregator, c, r, s,
		scan.WithTitle(p.Title),
		scan.WithTTL(cfg.TTL()),
		scan.WithCompletionTimeout(p.CompletionTimeout),
		scan.WithRequestOptions(options...),
	), nil
}
