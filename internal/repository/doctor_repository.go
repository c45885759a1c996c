package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/doctor-booking/internal/kvstore"
	"github.com/iliyamo/doctor-booking/internal/model"
)

//go:embed data/doctors.json
var defaultCatalog []byte

// DefaultCatalog parses the catalog shipped with the binary.
func DefaultCatalog() ([]model.Doctor, error) {
	var out []model.Doctor
	if err := json.Unmarshal(defaultCatalog, &out); err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	return out, nil
}

// DoctorRepo holds the immutable static catalog and persists the
// availability overlay under KeyDoctors. The overlay is a snapshot of the
// full doctor list; only its slot availability is ever read back.
type DoctorRepo struct {
	kv     kvstore.Store
	static []model.Doctor
}

// NewDoctorRepo keeps a private copy of static.
func NewDoctorRepo(kv kvstore.Store, static []model.Doctor) *DoctorRepo {
	cp := make([]model.Doctor, len(static))
	for i, d := range static {
		cp[i] = d.Clone()
	}
	return &DoctorRepo{kv: kv, static: cp}
}

// Static returns a fresh copy of the static catalog in catalog order.
func (r *DoctorRepo) Static() []model.Doctor {
	out := make([]model.Doctor, len(r.static))
	for i, d := range r.static {
		out[i] = d.Clone()
	}
	return out
}

// Overlay returns the persisted availability snapshot, or nil when no
// booking has been made yet.
func (r *DoctorRepo) Overlay(ctx context.Context) ([]model.Doctor, error) {
	var out []model.Doctor
	if _, err := loadJSON(ctx, r.kv, KeyDoctors, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveOverlay replaces the availability snapshot in one write.
func (r *DoctorRepo) SaveOverlay(ctx context.Context, doctors []model.Doctor) error {
	return saveJSON(ctx, r.kv, KeyDoctors, doctors)
}
