package memory

import (
	"context"
	"sync"
	"time"

	"github.com/scansoal/scansoal/pkg/store"
)

var _ store.Provider = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	objects map[string]*store.Object

	now func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(options ...Option) *Store {
	s := &Store{
		objects: map[string]*store.Object{},

		now: time.Now,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *Store) Put(ctx context.Context, object *store.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clone := *object
	clone.Content = append([]byte(nil), object.Content...)

	s.mu.Lock()
	s.objects[object.ID] = &clone
	s.mu.Unlock()

	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*store.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	object, ok := s.objects[id]
	s.mu.RUnlock()

	if !ok || object.Expired(s.now()) {
		return nil, store.ErrNotFound
	}

	clone := *object
	clone.Content = append([]byte(nil), object.Content...)

	return &clone, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.objects, id)
	s.mu.Unlock()

	return nil
}

// Cleanup removes expired objects and returns how many were removed.
func (s *Store) Cleanup(ctx context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int

	for id, object := range s.objects {
		if object.Expired(now) {
			delete(s.objects, id)
			n++
		}
	}

	return n, nil
}
