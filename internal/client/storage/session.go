package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/rosterctl/internal/client/models"
)

// SessionRepository keeps the operator session as one JSON entry
// {user, token, isAuthenticated} under a fixed namespace.
type SessionRepository struct {
	kv        KV
	namespace string
}

func NewSessionRepository(kv KV, namespace string) *SessionRepository {
	return &SessionRepository{kv: kv, namespace: namespace}
}

// Load returns the stored session. ok is false when nothing was stored yet.
func (r *SessionRepository) Load(ctx context.Context) (s models.Session, ok bool, err error) {
	raw, err := r.kv.Get(ctx, r.namespace)
	if err != nil {
		return models.Session{}, false, err
	}
	if raw == nil {
		return models.Session{}, false, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.Session{}, false, fmt.Errorf("corrupt %s entry: %w", r.namespace, err)
	}
	return s, true, nil
}

// Save overwrites the stored session, including with the empty session.
func (r *SessionRepository) Save(ctx context.Context, s models.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, r.namespace, raw)
}
