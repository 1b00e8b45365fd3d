package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jrsteele09/go-spa-session/kvstore"
)

// Storage keys of the four session fields.
const (
	KeyAccessToken = "access_token"
	KeyIDToken     = "id_token"
	KeyExpiresAt   = "expires_at"
	KeyScopes      = "scopes"
)

// Store persists a session Record in a key-value repo. Expiry is stored as
// epoch milliseconds text and scopes as a JSON array.
//
// Repos implementing kvstore.Batch get all four fields written and removed in
// one operation. For plain repos expires_at is removed before anything else is
// touched and written last, and every read requires all four keys, so a write
// that fails midway leaves no session rather than a mixed one.
type Store struct {
	mu   sync.Mutex
	repo kvstore.Repo
}

func NewStore(repo kvstore.Repo) *Store {
	return &Store{repo: repo}
}

func (s *Store) Set(ctx context.Context, r Record) error {
	scopes := r.GrantedScopes
	if scopes == nil {
		scopes = []string{}
	}
	encodedScopes, err := json.Marshal(scopes)
	if err != nil {
		return fmt.Errorf("[session Store.Set] encode scopes: %w", err)
	}
	expiresAt := strconv.FormatInt(r.ExpiresAt.UnixMilli(), 10)

	s.mu.Lock()
	defer s.mu.Unlock()

	if batch, ok := s.repo.(kvstore.Batch); ok {
		err := batch.SetAll(ctx, map[string]string{
			KeyAccessToken: r.AccessToken,
			KeyIDToken:     r.IDToken,
			KeyScopes:      string(encodedScopes),
			KeyExpiresAt:   expiresAt,
		})
		if err != nil {
			return fmt.Errorf("[session Store.Set] %w", err)
		}
		return nil
	}

	// expires_at marks the record complete: drop it first, write it last.
	if err := s.repo.Remove(ctx, KeyExpiresAt); err != nil {
		return fmt.Errorf("[session Store.Set] %s: %w", KeyExpiresAt, err)
	}
	for _, kv := range [][2]string{
		{KeyAccessToken, r.AccessToken},
		{KeyIDToken, r.IDToken},
		{KeyScopes, string(encodedScopes)},
		{KeyExpiresAt, expiresAt},
	} {
		if err := s.repo.Set(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("[session Store.Set] %s: %w", kv[0], err)
		}
	}
	return nil
}

// Clear removes all session fields. Missing fields are not an error.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := []string{KeyExpiresAt, KeyAccessToken, KeyIDToken, KeyScopes}
	if batch, ok := s.repo.(kvstore.Batch); ok {
		if err := batch.RemoveAll(ctx, keys...); err != nil {
			return fmt.Errorf("[session Store.Clear] %w", err)
		}
		return nil
	}

	var errs []error
	for _, k := range keys {
		if err := s.repo.Remove(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("[session Store.Clear] %w", err)
	}
	return nil
}

// Get returns the stored record, or ErrNoSession when there is no complete one.
func (s *Store) Get(ctx context.Context) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx)
}

// ExpiresAt returns the stored expiry. A missing or unparsable value reports false.
func (s *Store) ExpiresAt(ctx context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt(ctx)
}

// GrantedScopes returns the scopes of the stored record, false when there is
// no complete record.
func (s *Store) GrantedScopes(ctx context.Context) ([]string, bool, error) {
	record, err := s.Get(ctx)
	if errors.Is(err, ErrNoSession) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record.GrantedScopes, true, nil
}

// AccessToken returns the access token of the stored record, false when
// there is no complete record.
func (s *Store) AccessToken(ctx context.Context) (string, bool, error) {
	record, err := s.Get(ctx)
	if errors.Is(err, ErrNoSession) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return record.AccessToken, record.AccessToken != "", nil
}

func (s *Store) get(ctx context.Context) (*Record, error) {
	expiresAt, ok, err := s.expiresAt(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}
	scopes, ok, err := s.grantedScopes(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}

	record := &Record{ExpiresAt: expiresAt, GrantedScopes: scopes}
	for key, dst := range map[string]*string{KeyAccessToken: &record.AccessToken, KeyIDToken: &record.IDToken} {
		v, ok, err := s.repo.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("[session Store.Get] %s: %w", key, err)
		}
		if !ok {
			return nil, ErrNoSession
		}
		*dst = v
	}
	return record, nil
}

func (s *Store) expiresAt(ctx context.Context) (time.Time, bool, error) {
	v, ok, err := s.repo.Get(ctx, KeyExpiresAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("[session Store] %s: %w", KeyExpiresAt, err)
	}
	if !ok {
		return time.Time{}, false, nil
	}
	millis, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(millis), true, nil
}

func (s *Store) grantedScopes(ctx context.Context) ([]string, bool, error) {
	v, ok, err := s.repo.Get(ctx, KeyScopes)
	if err != nil {
		return nil, false, fmt.Errorf("[session Store] %s: %w", KeyScopes, err)
	}
	if !ok {
		return nil, false, nil
	}
	var scopes []string
	if err := json.Unmarshal([]byte(v), &scopes); err != nil {
		return nil, false, fmt.Errorf("[session Store] decode %s: %w", KeyScopes, err)
	}
	if scopes == nil {
		scopes = []string{}
	}
	return scopes, true, nil
}
