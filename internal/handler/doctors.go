package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/doctor-booking/internal/model"
	"github.com/iliyamo/doctor-booking/internal/service"
)

// DoctorHandler serves the public catalog endpoints.
type DoctorHandler struct {
	Catalog *service.CatalogService
}

func NewDoctorHandler(catalog *service.CatalogService) *DoctorHandler {
	return &DoctorHandler{Catalog: catalog}
}

type doctorView struct {
	model.Doctor
	AvailableSlots int      `json:"availableSlots"`
	SlotOrder      []string `json:"slotOrder"`
}

func viewDoctor(d model.Doctor) doctorView {
	return doctorView{Doctor: d, AvailableSlots: d.AvailableSlots(), SlotOrder: d.SlotLabels()}
}

// List handles GET /v1/doctors?q=&specialization=&sort=rating|fee.
func (h *DoctorHandler) List(c echo.Context) error {
	list, err := h.Catalog.Search(c.Request().Context(), c.QueryParam("q"), c.QueryParam("specialization"), c.QueryParam("sort"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]doctorView, len(list))
	for i, d := range list {
		out[i] = viewDoctor(d)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Specializations handles GET /v1/doctors/specializations.
func (h *DoctorHandler) Specializations(c echo.Context) error {
	list, err := h.Catalog.Specializations(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// Get handles GET /v1/doctors/:id.
func (h *DoctorHandler) Get(c echo.Context) error {
	d, err := h.Catalog.Find(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, viewDoctor(d))
}
