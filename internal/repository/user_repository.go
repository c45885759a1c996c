package repository

import (
	"context"

	"github.com/iliyamo/doctor-booking/internal/kvstore"
	"github.com/iliyamo/doctor-booking/internal/model"
)

// UserRepo is the credential ledger: the full list of registered accounts,
// secrets included, stored under KeyUsers.
type UserRepo struct{ kv kvstore.Store }

func NewUserRepo(kv kvstore.Store) *UserRepo { return &UserRepo{kv: kv} }

// List returns every credential in registration order. An absent key is an
// empty ledger.
func (r *UserRepo) List(ctx context.Context) ([]model.Credential, error) {
	var out []model.Credential
	if _, err := loadJSON(ctx, r.kv, KeyUsers, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces the whole ledger.
func (r *UserRepo) Save(ctx context.Context, creds []model.Credential) error {
	if creds == nil {
		creds = []model.Credential{}
	}
	return saveJSON(ctx, r.kv, KeyUsers, creds)
}
