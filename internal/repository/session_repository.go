package repository

import (
	"context"

	"github.com/iliyamo/doctor-booking/internal/kvstore"
	"github.com/iliyamo/doctor-booking/internal/model"
)

// SessionRepo persists the single active session under KeySession.
type SessionRepo struct{ kv kvstore.Store }

func NewSessionRepo(kv kvstore.Store) *SessionRepo { return &SessionRepo{kv: kv} }

// Load returns the stored session, or nil when nobody is signed in.
func (r *SessionRepo) Load(ctx context.Context) (*model.Session, error) {
	var s model.Session
	ok, err := loadJSON(ctx, r.kv, KeySession, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

// Save writes s as the active session.
func (r *SessionRepo) Save(ctx context.Context, s model.Session) error {
	return saveJSON(ctx, r.kv, KeySession, s)
}

// Clear removes the active session.
func (r *SessionRepo) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, KeySession)
}
