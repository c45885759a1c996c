package model

import "time"

// Status is the lifecycle state of an Appointment.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s != StatusUpcoming
}

// Patient holds the details entered at booking time. Age is kept as the
// caller typed it once it has been validated.
type Patient struct {
	Name    string `json:"name"`
	Age     string `json:"age"`
	Contact string `json:"contact"`
}

// Appointment is one entry of the appointment ledger. Doctor name,
// specialization and fee are copied from the catalog at booking time and
// never re-read. Only Status changes after creation.
type Appointment struct {
	ID             string    `json:"id"`
	BookingNumber  string    `json:"bookingNumber"`
	DoctorID       string    `json:"doctorId"`
	DoctorName     string    `json:"doctorName"`
	Specialization string    `json:"specialization"`
	Slot           string    `json:"slot"`
	Date           string    `json:"date,omitempty"`
	Patient        Patient   `json:"patient"`
	Fee            float64   `json:"fee"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}
