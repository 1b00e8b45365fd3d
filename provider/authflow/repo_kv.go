package authflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/jrsteele09/go-spa-session/internal/errors"
	"github.com/jrsteele09/go-spa-session/kvstore"
)

const keyPrefix = "auth_flow:"

var _ Repo = (*KVRepo)(nil)

// KVRepo stores auth flow states as JSON in a key-value repo, so a flow can
// be started and completed by different processes sharing the same store.
type KVRepo struct {
	kv kvstore.Repo
}

func NewKVRepo(kv kvstore.Repo) *KVRepo {
	return &KVRepo{kv: kv}
}

func (r *KVRepo) Upsert(state string, authState *State) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if authState == nil {
		return errors.New("authState cannot be nil")
	}
	b, err := json.Marshal(authState)
	if err != nil {
		return fmt.Errorf("[authflow KVRepo.Upsert] %w", err)
	}
	return apperrors.Wrapf(r.kv.Set(context.Background(), keyPrefix+state, string(b)), "[authflow KVRepo.Upsert] %s", state)
}

func (r *KVRepo) Get(state string) (*State, error) {
	if state == "" {
		return nil, apperrors.ErrStateNotFound
	}
	v, ok, err := r.kv.Get(context.Background(), keyPrefix+state)
	if err != nil {
		return nil, fmt.Errorf("[authflow KVRepo.Get] %w", err)
	}
	if !ok {
		return nil, apperrors.ErrStateNotFound
	}
	var authState State
	if err := json.Unmarshal([]byte(v), &authState); err != nil {
		return nil, fmt.Errorf("[authflow KVRepo.Get] %w", err)
	}
	return &authState, nil
}

func (r *KVRepo) Delete(state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	return apperrors.Wrapf(r.kv.Remove(context.Background(), keyPrefix+state), "[authflow KVRepo.Delete] %s", state)
}
