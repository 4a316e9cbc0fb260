package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huellitas/vetrecords/internal/core/domain"
	"github.com/huellitas/vetrecords/internal/core/ports"
)

// AppointmentHandler handles booked appointments.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// List handles GET /v1/appointments.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Appointment
// @Failure      403  {object}  errorResponse
// @Router       /v1/appointments [get]
func (h *AppointmentHandler) List(c echo.Context, _ domain.SessionIdentity) error {
	appointments, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appointments)
}

// Get handles GET /v1/appointments/:id.
//
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  domain.Appointment
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context, _ domain.SessionIdentity) error {
	a, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Create handles POST /v1/appointments.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      appointmentRequest  true  "Appointment"
// @Success      201   {object}  domain.Appointment
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/appointments [post]
func (h *AppointmentHandler) Create(c echo.Context, _ domain.SessionIdentity) error {
	var req appointmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.service.Create(c.Request().Context(), req.appointment(""))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// Update handles PUT /v1/appointments/:id.
//
// @Summary      Reschedule an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Appointment id"
// @Param        body  body      appointmentRequest  true  "Appointment"
// @Success      200   {object}  domain.Appointment
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context, _ domain.SessionIdentity) error {
	var req appointmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.service.Update(c.Request().Context(), req.appointment(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /v1/appointments/:id.
//
// @Summary      Cancel an appointment
// @Tags         appointments
// @Security     BearerAuth
// @Param        id   path  string  true  "Appointment id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context, _ domain.SessionIdentity) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
