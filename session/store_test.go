package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrsteele09/go-spa-session/kvstore"
	"github.com/jrsteele09/go-spa-session/session"
	"github.com/stretchr/testify/require"
)

// plainRepo hides the Batch methods of the wrapped repo.
type plainRepo struct {
	kvstore.Repo
}

var errWriteFailed = errors.New("write failed")

// failingRepo is a plain repo whose writes to the chosen keys fail.
type failingRepo struct {
	*kvstore.InMemoryRepo
	failSet    map[string]bool
	failRemove map[string]bool
}

func newFailingRepo() *failingRepo {
	return &failingRepo{
		InMemoryRepo: kvstore.NewInMemoryRepo(),
		failSet:      map[string]bool{},
		failRemove:   map[string]bool{},
	}
}

func (r *failingRepo) Set(ctx context.Context, key, value string) error {
	if r.failSet[key] {
		return errWriteFailed
	}
	return r.InMemoryRepo.Set(ctx, key, value)
}

func (r *failingRepo) Remove(ctx context.Context, key string) error {
	if r.failRemove[key] {
		return errWriteFailed
	}
	return r.InMemoryRepo.Remove(ctx, key)
}

// asRepo exposes only the Repo methods, so the store takes its plain path.
func (r *failingRepo) asRepo() kvstore.Repo {
	return plainRepo{r}
}

func testRecord() session.Record {
	return session.Record{
		AccessToken:   "at-1",
		IDToken:       "it-1",
		ExpiresAt:     time.UnixMilli(1_700_000_000_123),
		GrantedScopes: []string{"openid", "profile"},
	}
}

func TestStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	repos := map[string]func() (kvstore.Repo, *kvstore.InMemoryRepo){
		"batch": func() (kvstore.Repo, *kvstore.InMemoryRepo) {
			r := kvstore.NewInMemoryRepo()
			return r, r
		},
		"plain": func() (kvstore.Repo, *kvstore.InMemoryRepo) {
			r := kvstore.NewInMemoryRepo()
			return plainRepo{r}, r
		},
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			repo, backing := newRepo()
			store := session.NewStore(repo)

			_, err := store.Get(ctx)
			require.ErrorIs(t, err, session.ErrNoSession)

			require.NoError(t, store.Set(ctx, testRecord()))
			require.Equal(t, 4, backing.Len())

			got, err := store.Get(ctx)
			require.NoError(t, err)
			require.Equal(t, "at-1", got.AccessToken)
			require.Equal(t, "it-1", got.IDToken)
			require.Equal(t, int64(1_700_000_000_123), got.ExpiresAt.UnixMilli())
			require.Equal(t, []string{"openid", "profile"}, got.GrantedScopes)

			require.NoError(t, store.Clear(ctx))
			require.NoError(t, store.Clear(ctx))
			require.Equal(t, 0, backing.Len())

			_, err = store.Get(ctx)
			require.ErrorIs(t, err, session.ErrNoSession)
		})
	}
}

func TestStore_Encoding(t *testing.T) {
	ctx := context.Background()
	repo := kvstore.NewInMemoryRepo()
	store := session.NewStore(repo)

	record := testRecord()
	record.GrantedScopes = nil
	require.NoError(t, store.Set(ctx, record))

	v, ok, err := repo.Get(ctx, session.KeyExpiresAt)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1700000000123", v)

	v, _, err = repo.Get(ctx, session.KeyScopes)
	require.NoError(t, err)
	require.Equal(t, "[]", v)

	require.NoError(t, repo.Set(ctx, session.KeyScopes, `["read:messages","scope with space"]`))
	scopes, ok, err := store.GrantedScopes(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"read:messages", "scope with space"}, scopes)
}

func TestStore_PartialRecordIsNotASession(t *testing.T) {
	ctx := context.Background()
	repo := kvstore.NewInMemoryRepo()
	store := session.NewStore(repo)

	require.NoError(t, repo.Set(ctx, session.KeyAccessToken, "at"))
	require.NoError(t, repo.Set(ctx, session.KeyExpiresAt, "1700000000000"))

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, session.ErrNoSession)
}

func TestStore_UnparsableExpiry(t *testing.T) {
	ctx := context.Background()
	repo := kvstore.NewInMemoryRepo()
	store := session.NewStore(repo)

	require.NoError(t, repo.Set(ctx, session.KeyExpiresAt, "{}"))
	_, ok, err := store.ExpiresAt(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_CorruptScopes(t *testing.T) {
	ctx := context.Background()
	repo := kvstore.NewInMemoryRepo()
	store := session.NewStore(repo)

	_, ok, err := store.GrantedScopes(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, testRecord()))
	require.NoError(t, repo.Set(ctx, session.KeyScopes, "openid profile"))
	_, _, err = store.GrantedScopes(ctx)
	require.Error(t, err)
}

func TestStore_FieldReadsRequireCompleteRecord(t *testing.T) {
	ctx := context.Background()
	repo := kvstore.NewInMemoryRepo()
	store := session.NewStore(repo)

	require.NoError(t, repo.Set(ctx, session.KeyAccessToken, "at"))
	require.NoError(t, repo.Set(ctx, session.KeyScopes, `["admin"]`))

	_, ok, err := store.GrantedScopes(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.AccessToken(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_FailedPlainWrite(t *testing.T) {
	ctx := context.Background()

	for _, key := range []string{session.KeyAccessToken, session.KeyIDToken, session.KeyScopes, session.KeyExpiresAt} {
		t.Run("overwrite failing on "+key, func(t *testing.T) {
			repo := newFailingRepo()
			store := session.NewStore(repo.asRepo())
			require.NoError(t, store.Set(ctx, testRecord()))

			next := session.Record{
				AccessToken:   "at-2",
				IDToken:       "it-2",
				ExpiresAt:     time.UnixMilli(1_800_000_000_000),
				GrantedScopes: []string{"admin"},
			}
			repo.failSet[key] = true
			require.ErrorIs(t, store.Set(ctx, next), errWriteFailed)

			got, err := store.Get(ctx)
			if err == nil {
				require.Equal(t, testRecord().AccessToken, got.AccessToken, "a visible record must be the prior one")
				require.Equal(t, testRecord().IDToken, got.IDToken)
				require.Equal(t, testRecord().GrantedScopes, got.GrantedScopes)
			} else {
				require.ErrorIs(t, err, session.ErrNoSession)
			}

			scopes, ok, err := store.GrantedScopes(ctx)
			require.NoError(t, err)
			if ok {
				require.NotContains(t, scopes, "admin")
			}
		})
	}

	t.Run("stale expiry cannot be removed", func(t *testing.T) {
		repo := newFailingRepo()
		store := session.NewStore(repo.asRepo())
		require.NoError(t, store.Set(ctx, testRecord()))

		repo.failRemove[session.KeyExpiresAt] = true
		next := testRecord()
		next.AccessToken = "at-2"
		require.ErrorIs(t, store.Set(ctx, next), errWriteFailed)

		got, err := store.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, testRecord(), *got, "prior record untouched")
	})
}

func TestStore_FailedPlainClear(t *testing.T) {
	ctx := context.Background()
	repo := newFailingRepo()
	store := session.NewStore(repo.asRepo())
	require.NoError(t, store.Set(ctx, testRecord()))

	repo.failRemove[session.KeyScopes] = true
	require.ErrorIs(t, store.Clear(ctx), errWriteFailed)

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, session.ErrNoSession)
	_, ok, err := store.GrantedScopes(ctx)
	require.NoError(t, err)
	require.False(t, ok, "leftover scopes without an expiry are not a session")
}
