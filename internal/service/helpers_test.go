package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/doctor-booking/internal/kvstore"
	"github.com/iliyamo/doctor-booking/internal/model"
	"github.com/iliyamo/doctor-booking/internal/repository"
)

var errBoom = errors.New("disk full")

// faultyStore wraps a Memory store and lets a test fail individual
// operations by key.
type faultyStore struct {
	*kvstore.Memory
	getFn    func(key string) error
	setFn    func(key string) error
	deleteFn func(key string) error
}

func newFaultyStore() *faultyStore { return &faultyStore{Memory: kvstore.NewMemory()} }

func (f *faultyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getFn != nil {
		if err := f.getFn(key); err != nil {
			return "", false, kvstore.Wrap("get", key, err)
		}
	}
	return f.Memory.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key, value string) error {
	if f.setFn != nil {
		if err := f.setFn(key); err != nil {
			return kvstore.Wrap("set", key, err)
		}
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *faultyStore) Delete(ctx context.Context, key string) error {
	if f.deleteFn != nil {
		if err := f.deleteFn(key); err != nil {
			return kvstore.Wrap("delete", key, err)
		}
	}
	return f.Memory.Delete(ctx, key)
}

func failOn(key string) func(string) error {
	return func(k string) error {
		if k == key {
			return errBoom
		}
		return nil
	}
}

// stepClock returns a clock that starts at start and advances by step on
// every call.
func stepClock(start time.Time, step time.Duration) Clock {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := t
		t = t.Add(step)
		return now
	}
}

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

var epoch = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func testCatalog() []model.Doctor {
	return []model.Doctor{
		{
			ID: "d1", Name: "Dr. Nimal Perera", Specialization: "Cardiologist", Fee: 3500, Rating: 4.5,
			Slots: map[string]model.Slot{
				"10:00 AM": {Capacity: 3, Available: 1},
				"2:00 PM":  {Capacity: 2, Available: 2},
			},
		},
		{
			ID: "d2", Name: "Dr. Shanika Fernando", Specialization: "Dermatologist", Fee: 2800, Rating: 4.9,
			Slots: map[string]model.Slot{
				"10:00 AM": {Capacity: 4, Available: 4},
			},
		},
		{
			ID: "d3", Name: "Dr. Dilani Wickramasinghe", Specialization: "General Physician", Fee: 0, Rating: 4.5,
			Slots: map[string]model.Slot{
				"9:30 AM": {Capacity: 6, Available: 6},
				"3:00 PM": {Capacity: 1, Available: 0},
			},
		},
		{
			ID: "d4", Name: "Dr. Tharushi Gunawardena", Specialization: "Cardiologist", Fee: 3200, Rating: 4.7,
			Slots: map[string]model.Slot{
				"11:00 AM": {Capacity: 2, Available: 2},
			},
		},
	}
}

type fixture struct {
	kv       *faultyStore
	auth     *AuthService
	catalog  *CatalogService
	bookings *BookingService
	invoices *InvoiceService
}

func newFixture() *fixture {
	kv := newFaultyStore()
	doctors := repository.NewDoctorRepo(kv, testCatalog())
	appts := repository.NewAppointmentRepo(kv)

	auth := NewAuthService(repository.NewSessionRepo(kv), repository.NewUserRepo(kv))
	auth.Now = stepClock(epoch, time.Second)
	auth.HashCost = 4

	bookings := NewBookingService(doctors, appts)
	bookings.Now = stepClock(epoch, time.Minute)

	return &fixture{
		kv:       kv,
		auth:     auth,
		catalog:  NewCatalogService(doctors),
		bookings: bookings,
		invoices: NewInvoiceService(appts),
	}
}

func patientA() model.Patient {
	return model.Patient{Name: "A", Age: "30", Contact: "555"}
}
