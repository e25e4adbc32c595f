package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scansoal/scansoal/pkg/store"
)

var _ store.Provider = (*Store)(nil)

var idRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Store keeps each object as <id>.bin with its metadata in <id>.json.
type Store struct {
	dir string

	now func() time.Time
}

type metadata struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(dir string, options ...Option) (*Store, error) {
	s := &Store{
		dir: dir,

		now: time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) Put(ctx context.Context, object *store.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !idRegex.MatchString(object.ID) {
		return fmt.Errorf("invalid object id %q", object.ID)
	}

	meta, _ := json.Marshal(metadata{
		Name:        object.Name,
		ContentType: object.ContentType,

		CreatedAt: object.CreatedAt,
		ExpiresAt: object.ExpiresAt,
	})

	// content first, the metadata file makes the object visible
	if err := s.writeFile(s.contentPath(object.ID), object.Content); err != nil {
		return err
	}

	if err := s.writeFile(s.metadataPath(object.ID), meta); err != nil {
		os.Remove(s.contentPath(object.ID))
		return err
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*store.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !idRegex.MatchString(id) {
		return nil, store.ErrNotFound
	}

	data, err := os.ReadFile(s.metadataPath(id))

	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, store.ErrNotFound
		}

		return nil, err
	}

	var meta metadata

	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	object := &store.Object{
		ID: id,

		Name:        meta.Name,
		ContentType: meta.ContentType,

		CreatedAt: meta.CreatedAt,
		ExpiresAt: meta.ExpiresAt,
	}

	if object.Expired(s.now()) {
		return nil, store.ErrNotFound
	}

	content, err := os.ReadFile(s.contentPath(id))

	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, store.ErrNotFound
		}

		return nil, err
	}

	object.Content = content

	return object, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if !idRegex.MatchString(id) {
		return nil
	}

	var errs []error

	for _, path := range []string{s.metadataPath(id), s.contentPath(id)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Cleanup removes expired objects and orphaned temporary files.
func (s *Store) Cleanup(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)

	if err != nil {
		return 0, err
	}

	now := s.now()

	var n int

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		name := e.Name()

		if strings.HasPrefix(name, ".tmp-") {
			if info, err := e.Info(); err == nil && now.Sub(info.ModTime()) > time.Hour {
				os.Remove(filepath.Join(s.dir, name))
			}

			continue
		}

		id, ok := strings.CutSuffix(name, ".json")

		if !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))

		if err != nil {
			continue
		}

		var meta metadata

		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		object := store.Object{ExpiresAt: meta.ExpiresAt}

		if !object.Expired(now) {
			continue
		}

		if err := s.Delete(ctx, id); err == nil {
			n++
		}
	}

	return n, nil
}

func (s *Store) contentPath(id string) string {
	return filepath.Join(s.dir, id+".bin")
}

func (s *Store) metadataPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// writeFile writes through a temporary file and renames it into place.
func (s *Store) writeFile(path string, data []byte) error {
	tmp := filepath.Join(s.dir, ".tmp-"+uuid.NewString())

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	return nil
}
