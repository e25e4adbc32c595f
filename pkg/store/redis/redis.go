package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scansoal/scansoal/pkg/store"
)

var _ store.Provider = (*Store)(nil)

// Store keeps each object in a hash that redis expires on its own.
type Store struct {
	client *redis.Client
	prefix string
}

type Option func(*Store)

func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

func New(client *redis.Client, options ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "scansoal:document:",
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// NewFromURL connects using a redis:// URL.
func NewFromURL(url string, options ...Option) (*Store, error) {
	opt, err := redis.ParseURL(url)

	if err != nil {
		return nil, err
	}

	return New(redis.NewClient(opt), options...), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Put(ctx context.Context, object *store.Object) error {
	key := s.key(object.ID)

	pipe := s.client.TxPipeline()

	pipe.Del(ctx, key)

	pipe.HSet(ctx, key,
		"name", object.Name,
		"contentType", object.ContentType,
		"content", object.Content,
		"createdAt", object.CreatedAt.UTC().Format(time.RFC3339Nano),
	)

	if !object.ExpiresAt.IsZero() {
		pipe.HSet(ctx, key, "expiresAt", object.ExpiresAt.UTC().Format(time.RFC3339Nano))
		pipe.ExpireAt(ctx, key, object.ExpiresAt)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (*store.Object, error) {
	values, err := s.client.HGetAll(ctx, s.key(id)).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}

		return nil, err
	}

	content, ok := values["content"]

	if !ok {
		return nil, store.ErrNotFound
	}

	object := &store.Object{
		ID: id,

		Name:        values["name"],
		ContentType: values["contentType"],

		Content: []byte(content),
	}

	object.CreatedAt, _ = time.Parse(time.RFC3339Nano, values["createdAt"])

	if v := values["expiresAt"]; v != "" {
		object.ExpiresAt, _ = time.Parse(time.RFC3339Nano, v)
	}

	if object.Expired(time.Now()) {
		return nil, store.ErrNotFound
	}

	return object, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *Store) key(id string) string {
	return s.prefix + id
}
