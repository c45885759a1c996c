package repository

import (
	"context"

	"github.com/iliyamo/doctor-booking/internal/kvstore"
)

// LaunchRepo tracks the first-launch sentinel stored under KeyLaunched.
type LaunchRepo struct{ kv kvstore.Store }

func NewLaunchRepo(kv kvstore.Store) *LaunchRepo { return &LaunchRepo{kv: kv} }

// MarkLaunched sets the sentinel and reports whether this was the first
// launch.
func (r *LaunchRepo) MarkLaunched(ctx context.Context) (bool, error) {
	_, ok, err := r.kv.Get(ctx, KeyLaunched)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	if err := r.kv.Set(ctx, KeyLaunched, "true"); err != nil {
		return false, err
	}
	return true, nil
}
