package trackedset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offramp/pkg/domain"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Load on absent file returns empty set", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "tracked.txt"))
		set, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("Save then Load round trips in order", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "tracked.txt"))
		set := NewSet("jsmith@corp.example", "mjones@corp.example")

		require.NoError(t, store.Save(ctx, set))
		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.PrincipalName{"jsmith@corp.example", "mjones@corp.example"}, got.Names())
	})

	t.Run("blank lines ignored on read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracked.txt")
		require.NoError(t, os.WriteFile(path, []byte("jsmith@corp.example\n\n  \nmjones@corp.example\n"), 0o644))

		got, err := NewFileStore(path).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Len())
	})

	t.Run("Save creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state", "deep", "tracked.txt")
		store := NewFileStore(path)
		require.NoError(t, store.Save(ctx, NewSet("a@x")))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, got.Contains("a@x"))
	})

	t.Run("Save replaces prior contents", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "tracked.txt"))
		require.NoError(t, store.Save(ctx, NewSet("a@x", "b@x")))
		require.NoError(t, store.Save(ctx, NewSet("b@x")))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.PrincipalName{"b@x"}, got.Names())
	})
}
