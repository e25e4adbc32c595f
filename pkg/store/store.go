package store

import (
	"context"
	"errors"
	"time"
)

const DefaultTTL = time.Hour

var ErrNotFound = errors.New("object not found")

type Provider interface {
	Put(ctx context.Context, object *Object) error
	Get(ctx context.Context, id string) (*Object, error)
	Delete(ctx context.Context, id string) error
}

type Object struct {
	ID string

	Name        string
	ContentType string

	Content []byte

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the object is past its expiry at t. A zero expiry
// never expires.
func (o *Object) Expired(t time.Time) bool {
	return !o.ExpiresAt.IsZero() && !t.Before(o.ExpiresAt)
}

// TTL returns the remaining lifetime at t, zero for objects without expiry.
func (o *Object) TTL(t time.Time) time.Duration {
	if o.ExpiresAt.IsZero() {
		return 0
	}

	return o.ExpiresAt.Sub(t)
}
