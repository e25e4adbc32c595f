// Package storetest checks the behavior every store.Provider shares.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/scansoal/scansoal/pkg/store"
)

func newObject(content string, ttl time.Duration) *store.Object {
	now := time.Now().UTC().Truncate(time.Millisecond)

	return &store.Object{
		ID: uuid.NewString(),

		Name:        "soal-jawaban.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",

		Content: []byte(content),

		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func Run(t *testing.T, s store.Provider) {
	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		object := newObject("document", time.Hour)

		require.NoError(t, s.Put(ctx, object))

		result, err := s.Get(ctx, object.ID)
		require.NoError(t, err)

		require.Equal(t, object.ID, result.ID)
		require.Equal(t, object.Name, result.Name)
		require.Equal(t, object.ContentType, result.ContentType)
		require.Equal(t, object.Content, result.Content)
		require.True(t, object.CreatedAt.Equal(result.CreatedAt))
		require.True(t, object.ExpiresAt.Equal(result.ExpiresAt))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.Get(ctx, uuid.NewString())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		object := newObject("document", -time.Second)

		require.NoError(t, s.Put(ctx, object))

		_, err := s.Get(ctx, object.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		object := newObject("document", time.Hour)

		require.NoError(t, s.Put(ctx, object))
		require.NoError(t, s.Delete(ctx, object.ID))
		require.NoError(t, s.Delete(ctx, object.ID))

		_, err := s.Get(ctx, object.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("keyed", func(t *testing.T) {
		var wg sync.WaitGroup

		objects := make([]*store.Object, 16)

		for i := range objects {
			objects[i] = newObject(fmt.Sprintf("document %d", i), time.Hour)
		}

		errs := make([]error, len(objects))

		for i, object := range objects {
			wg.Go(func() {
				errs[i] = s.Put(ctx, object)
			})
		}

		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}

		for _, object := range objects {
			result, err := s.Get(ctx, object.ID)
			require.NoError(t, err)
			require.Equal(t, object.Content, result.Content)
		}
	})
}
