package kvstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	apperrors "github.com/jrsteele09/go-spa-session/internal/errors"
	"github.com/jrsteele09/go-spa-session/kvstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// repoFactories builds one of each backend so every behaviour is checked
// against all of them.
func repoFactories(t *testing.T) map[string]func(t *testing.T) kvstore.Batch {
	t.Helper()
	return map[string]func(t *testing.T) kvstore.Batch{
		"memory": func(t *testing.T) kvstore.Batch {
			return kvstore.NewInMemoryRepo()
		},
		"redis": func(t *testing.T) kvstore.Batch {
			mini := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mini.Addr()})
			repo := kvstore.NewRedisRepoFromClient(rdb, "test:")
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
		"sqlite": func(t *testing.T) kvstore.Batch {
			repo, err := kvstore.OpenSQLiteRepo(filepath.Join(t.TempDir(), "kv.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	}
}

func TestRepo_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	for name, newRepo := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)

			_, ok, err := repo.Get(ctx, "missing")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, repo.Set(ctx, "a", "1"))
			require.NoError(t, repo.Set(ctx, "a", "2"))

			v, ok, err := repo.Get(ctx, "a")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "2", v)

			require.NoError(t, repo.Remove(ctx, "a"))
			require.NoError(t, repo.Remove(ctx, "a"), "removing a missing key is a no-op")

			_, ok, err = repo.Get(ctx, "a")
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestRepo_Batch(t *testing.T) {
	ctx := context.Background()
	for name, newRepo := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)

			require.NoError(t, repo.SetAll(ctx, map[string]string{"x": "1", "y": "2", "z": ""}))
			for k, want := range map[string]string{"x": "1", "y": "2", "z": ""} {
				v, ok, err := repo.Get(ctx, k)
				require.NoError(t, err)
				require.True(t, ok, k)
				require.Equal(t, want, v)
			}

			require.NoError(t, repo.RemoveAll(ctx, "x", "y", "never-set"))
			_, ok, err := repo.Get(ctx, "x")
			require.NoError(t, err)
			require.False(t, ok)

			v, ok, err := repo.Get(ctx, "z")
			require.NoError(t, err)
			require.True(t, ok)
			require.Empty(t, v)
		})
	}
}

func TestRepo_EmptyKey(t *testing.T) {
	ctx := context.Background()
	for name, newRepo := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			require.ErrorIs(t, repo.Set(ctx, "", "v"), apperrors.ErrEmptyKey)
			require.ErrorIs(t, repo.SetAll(ctx, map[string]string{"": "v"}), apperrors.ErrEmptyKey)
			_, _, err := repo.Get(ctx, "")
			require.ErrorIs(t, err, apperrors.ErrEmptyKey)
		})
	}
}

func TestRedisRepo_KeyPrefix(t *testing.T) {
	mini := miniredis.RunT(t)
	repo := kvstore.NewRedisRepoFromClient(redis.NewClient(&redis.Options{Addr: mini.Addr()}), "app:")
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.Set(context.Background(), "access_token", "abc"))
	v, err := mini.Get("app:access_token")
	require.NoError(t, err)
	require.Equal(t, "abc", v)
}

func TestSQLiteRepo_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	repo, err := kvstore.OpenSQLiteRepo(path)
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, "expires_at", "1700000000000"))
	require.NoError(t, repo.Close())

	repo, err = kvstore.OpenSQLiteRepo(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	v, ok, err := repo.Get(ctx, "expires_at")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1700000000000", v)
}

func TestOpenSQLiteRepo_RequiresPath(t *testing.T) {
	_, err := kvstore.OpenSQLiteRepo("  ")
	require.Error(t, err)
}
