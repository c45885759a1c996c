// Package queue defines the booking event payloads exchanged over RabbitMQ
// and the consumer that turns them into an audit log.
package queue

import (
	"time"

	"github.com/iliyamo/doctor-booking/internal/model"
)

// QueueName is the durable queue booking events are published to.
const QueueName = "booking.events"

// Event types.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after an appointment is created or cancelled.
// It carries enough of the appointment for a consumer to log it without
// reading the store.
type BookingEvent struct {
	Type           string  `json:"type"`
	AppointmentID  string  `json:"appointment_id"`
	BookingNumber  string  `json:"booking_number"`
	UserID         string  `json:"user_id,omitempty"`
	DoctorID       string  `json:"doctor_id"`
	DoctorName     string  `json:"doctor_name"`
	Specialization string  `json:"specialization"`
	Slot           string  `json:"slot"`
	Date           string  `json:"date,omitempty"`
	PatientName    string  `json:"patient_name"`
	Fee            float64 `json:"fee"`
	Status         string  `json:"status"`
	OccurredAt     string  `json:"occurred_at"`
}

// NewBookingEvent builds an event of the given type for a.
func NewBookingEvent(eventType, userID string, a model.Appointment, at time.Time) BookingEvent {
	return BookingEvent{
		Type:           eventType,
		AppointmentID:  a.ID,
		BookingNumber:  a.BookingNumber,
		UserID:         userID,
		DoctorID:       a.DoctorID,
		DoctorName:     a.DoctorName,
		Specialization: a.Specialization,
		Slot:           a.Slot,
		Date:           a.Date,
		PatientName:    a.Patient.Name,
		Fee:            a.Fee,
		Status:         string(a.Status),
		OccurredAt:     at.UTC().Format(time.RFC3339),
	}
}
