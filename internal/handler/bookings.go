package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iliyamo/doctor-booking/internal/middleware"
	"github.com/iliyamo/doctor-booking/internal/model"
	q "github.com/iliyamo/doctor-booking/internal/queue"
	"github.com/iliyamo/doctor-booking/internal/service"
)

// Currency is the code shown on invoices.
const Currency = "LKR"

// BookingHandler serves the booking and invoice endpoints for the signed-in
// patient. After a booking is created or cancelled an event is published;
// a publish failure is logged and never changes the response.
type BookingHandler struct {
	Bookings *service.BookingService
	Invoices *service.InvoiceService
	Events   service.EventPublisher
}

func NewBookingHandler(bookings *service.BookingService, invoices *service.InvoiceService, events service.EventPublisher) *BookingHandler {
	if events == nil {
		events = service.NopPublisher{}
	}
	return &BookingHandler{Bookings: bookings, Invoices: invoices, Events: events}
}

type createBookingReq struct {
	DoctorID string        `json:"doctorId"`
	Slot     string        `json:"slot"`
	Date     string        `json:"date"`
	Patient  model.Patient `json:"patient"`
}

// Create handles POST /v1/bookings and returns the new appointment with 201.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.DoctorID == "" || req.Slot == "" {
		return badRequest(c, "doctorId/slot required")
	}
	appt, err := h.Bookings.CreateBooking(c.Request().Context(), service.BookingRequest{
		DoctorID: req.DoctorID,
		Slot:     req.Slot,
		Date:     req.Date,
		Patient:  req.Patient,
	})
	if err != nil {
		return writeError(c, err)
	}
	h.publish(c, q.EventBookingCreated, appt)
	return c.JSON(http.StatusCreated, appt)
}

// List handles GET /v1/bookings?status=all|upcoming|completed.
func (h *BookingHandler) List(c echo.Context) error {
	list, err := h.Bookings.ListBookings(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	appt, err := h.Bookings.CancelBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	h.publish(c, q.EventBookingCancelled, appt)
	return c.JSON(http.StatusOK, appt)
}

type invoiceView struct {
	Appointment  model.Appointment `json:"appointment"`
	Currency     string            `json:"currency"`
	FeeFormatted string            `json:"feeFormatted"`
	IssuedAt     time.Time         `json:"issuedAt"`
}

// Invoice handles GET /v1/bookings/:id/invoice.
func (h *BookingHandler) Invoice(c echo.Context) error {
	appt, err := h.Invoices.GetInvoiceData(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, invoiceView{
		Appointment:  appt,
		Currency:     Currency,
		FeeFormatted: FormatFee(appt.Fee),
		IssuedAt:     time.Now().UTC(),
	})
}

// FormatFee renders an amount the way invoices show it, e.g. "LKR 2,500.00".
func FormatFee(amount float64) string {
	return message.NewPrinter(language.English).Sprintf("%s %.2f", Currency, amount)
}

func (h *BookingHandler) publish(c echo.Context, eventType string, appt model.Appointment) {
	var userID string
	if u, ok := middleware.CurrentUser(c); ok {
		userID = u.ID
	}
	ev := q.NewBookingEvent(eventType, userID, appt, time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.Events.Publish(ctx, ev); err != nil {
		log.Printf("handler: publish %s for %s failed: %v", eventType, appt.ID, err)
	}
}
