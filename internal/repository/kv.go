package repository

import (
	"context"
	"encoding/json"

	"github.com/iliyamo/doctor-booking/internal/kvstore"
)

// Store keys. They match the layout the mobile client used so existing data
// stays readable.
const (
	KeySession      = "userData"
	KeyUsers        = "users"
	KeyAppointments = "appointments"
	KeyDoctors      = "doctorsData"
	KeyLaunched     = "hasLaunched"
)

// loadJSON decodes the document under key into dst. It reports false when
// the key is absent or empty. A value that does not decode is a store
// failure, not an empty collection.
func loadJSON(ctx context.Context, kv kvstore.Store, key string, dst any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, &kvstore.StoreError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

// saveJSON encodes v and writes it under key in one Set.
func saveJSON(ctx context.Context, kv kvstore.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return &kvstore.StoreError{Op: "encode", Key: key, Err: err}
	}
	return kv.Set(ctx, key, string(b))
}
