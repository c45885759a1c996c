package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/doctor-booking/internal/model"
	"github.com/iliyamo/doctor-booking/internal/utils"
)

// DefaultFee is charged when the catalog lists a doctor without a fee.
const DefaultFee = 2500

// Filters accepted by ListBookings. Cancelled bookings are only reachable
// through FilterAll.
const (
	FilterAll       = "all"
	FilterUpcoming  = "upcoming"
	FilterCompleted = "completed"
)

// AppointmentLedger persists the full appointment ledger.
type AppointmentLedger interface {
	List(ctx context.Context) ([]model.Appointment, error)
	Save(ctx context.Context, list []model.Appointment) error
}

// BookingRequest is what a caller supplies to reserve a slot. Date is an
// optional YYYY-MM-DD.
type BookingRequest struct {
	DoctorID string
	Slot     string
	Date     string
	Patient  model.Patient
}

// BookingService is the Booking Engine. It is the only writer of the
// appointment ledger and the availability overlay. Operations are
// serialized so a read-modify-write of one key never interleaves with
// another.
type BookingService struct {
	doctors      DoctorStore
	appointments AppointmentLedger
	Now          Clock

	mu sync.Mutex
}

func NewBookingService(doctors DoctorStore, appointments AppointmentLedger) *BookingService {
	return &BookingService{doctors: doctors, appointments: appointments, Now: systemClock}
}

// CreateBooking reserves one place in req.Slot and appends an upcoming
// appointment to the ledger. The ledger is written before the overlay; a
// failure of the second write leaves the booking recorded without its
// decrement and is returned as is.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overlay, err := s.doctors.Overlay(ctx)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("load availability: %w", err)
	}
	catalog := mergeCatalog(s.doctors.Static(), overlay)
	idx := -1
	for i, d := range catalog {
		if d.ID == req.DoctorID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Appointment{}, fmt.Errorf("doctor %s: %w", req.DoctorID, ErrNotFound)
	}
	doctor := catalog[idx]

	patient, err := validatePatient(req.Patient)
	if err != nil {
		return model.Appointment{}, err
	}
	date := strings.TrimSpace(req.Date)
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return model.Appointment{}, invalid("date", "must be YYYY-MM-DD")
		}
	}
	slot, ok := doctor.Slots[req.Slot]
	if !ok {
		return model.Appointment{}, invalid("slot", fmt.Sprintf("doctor %s has no slot %q", doctor.ID, req.Slot))
	}
	if slot.Available <= 0 {
		return model.Appointment{}, ErrSlotUnavailable
	}

	ledger, err := s.appointments.List(ctx)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("load appointments: %w", err)
	}

	now := s.now()
	ms := nextMillis(now.UnixMilli(), func(ms int64) bool {
		id, bn := utils.TimestampID("appt", ms), utils.BookingNumber(ms)
		for _, a := range ledger {
			if a.ID == id || a.BookingNumber == bn {
				return true
			}
		}
		return false
	})
	fee := doctor.Fee
	if fee == 0 {
		fee = DefaultFee
	}
	appt := model.Appointment{
		ID:             utils.TimestampID("appt", ms),
		BookingNumber:  utils.BookingNumber(ms),
		DoctorID:       doctor.ID,
		DoctorName:     doctor.Name,
		Specialization: doctor.Specialization,
		Slot:           req.Slot,
		Date:           date,
		Patient:        patient,
		Fee:            fee,
		Status:         model.StatusUpcoming,
		CreatedAt:      now,
	}
	if err := s.appointments.Save(ctx, append(ledger, appt)); err != nil {
		return model.Appointment{}, fmt.Errorf("save appointments: %w", err)
	}

	slot.Available--
	catalog[idx].Slots[req.Slot] = slot
	if err := s.doctors.SaveOverlay(ctx, catalog); err != nil {
		return model.Appointment{}, fmt.Errorf("save availability: %w", err)
	}
	return appt, nil
}

// CancelBooking moves an upcoming appointment to cancelled. Slot
// availability is not restored.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.appointments.List(ctx)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("load appointments: %w", err)
	}
	for i := range ledger {
		if ledger[i].ID != id {
			continue
		}
		if ledger[i].Status.Terminal() {
			return model.Appointment{}, fmt.Errorf("appointment %s is %s: %w", id, ledger[i].Status, ErrInvalidState)
		}
		ledger[i].Status = model.StatusCancelled
		if err := s.appointments.Save(ctx, ledger); err != nil {
			return model.Appointment{}, fmt.Errorf("save appointments: %w", err)
		}
		return ledger[i], nil
	}
	return model.Appointment{}, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
}

// ListBookings returns the ledger filtered by status, newest first. An
// empty filter means FilterAll.
func (s *BookingService) ListBookings(ctx context.Context, filter string) ([]model.Appointment, error) {
	var keep func(model.Appointment) bool
	switch filter {
	case "", FilterAll:
		keep = func(model.Appointment) bool { return true }
	case FilterUpcoming:
		keep = func(a model.Appointment) bool { return a.Status == model.StatusUpcoming }
	case FilterCompleted:
		keep = func(a model.Appointment) bool { return a.Status == model.StatusCompleted }
	default:
		return nil, invalid("status", fmt.Sprintf("unknown filter %q", filter))
	}

	ledger, err := s.appointments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	out := make([]model.Appointment, 0, len(ledger))
	for _, a := range ledger {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Get returns one appointment by id.
func (s *BookingService) Get(ctx context.Context, id string) (model.Appointment, error) {
	return findAppointment(ctx, s.appointments, id)
}

func findAppointment(ctx context.Context, ledger AppointmentLedger, id string) (model.Appointment, error) {
	list, err := ledger.List(ctx)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("load appointments: %w", err)
	}
	for _, a := range list {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Appointment{}, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
}

func (s *BookingService) now() time.Time {
	if s.Now == nil {
		return systemClock()
	}
	return s.Now().UTC()
}

// validatePatient trims the patient fields and checks them in form order.
func validatePatient(p model.Patient) (model.Patient, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Age = strings.TrimSpace(p.Age)
	p.Contact = strings.TrimSpace(p.Contact)
	if p.Name == "" {
		return p, invalid("patient.name", "required")
	}
	age, err := strconv.Atoi(p.Age)
	if err != nil {
		return p, invalid("patient.age", "must be a whole number")
	}
	if age <= 0 || age > 120 {
		return p, invalid("patient.age", "must be between 1 and 120")
	}
	if p.Contact == "" {
		return p, invalid("patient.contact", "required")
	}
	return p, nil
}
