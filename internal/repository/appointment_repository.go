package repository

import (
	"context"

	"github.com/iliyamo/doctor-booking/internal/kvstore"
	"github.com/iliyamo/doctor-booking/internal/model"
)

// AppointmentRepo is the appointment ledger stored under KeyAppointments.
// Records are appended or updated in place, never removed.
type AppointmentRepo struct{ kv kvstore.Store }

func NewAppointmentRepo(kv kvstore.Store) *AppointmentRepo { return &AppointmentRepo{kv: kv} }

// List returns the whole ledger in insertion order.
func (r *AppointmentRepo) List(ctx context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	if _, err := loadJSON(ctx, r.kv, KeyAppointments, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces the whole ledger in one write.
func (r *AppointmentRepo) Save(ctx context.Context, list []model.Appointment) error {
	if list == nil {
		list = []model.Appointment{}
	}
	return saveJSON(ctx, r.kv, KeyAppointments, list)
}
