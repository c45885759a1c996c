package service

import (
	"context"

	"github.com/iliyamo/doctor-booking/internal/model"
)

// InvoiceService resolves a booking to the record an invoice is rendered
// from. It holds no state of its own.
type InvoiceService struct {
	appointments AppointmentLedger
}

func NewInvoiceService(appointments AppointmentLedger) *InvoiceService {
	return &InvoiceService{appointments: appointments}
}

// GetInvoiceData returns the appointment with the given id or ErrNotFound.
func (s *InvoiceService) GetInvoiceData(ctx context.Context, id string) (model.Appointment, error) {
	return findAppointment(ctx, s.appointments, id)
}
