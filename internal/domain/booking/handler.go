package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.Book, auth.RequireRole(auth.RolePatient))
	api.GET("/appointments", h.List, auth.RequireRole(auth.RolePatient, auth.RoleDoctor))
	api.DELETE("/appointments/:id", h.Cancel, auth.RequireRole(auth.RolePatient))
}

func (h *Handler) Book(c echo.Context) error {
	identity, _ := auth.IdentityFromContext(c.Request().Context())

	var in BookingInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	appointmentID, err := h.svc.Book(c.Request().Context(), identity, in)
	switch {
	case err == nil:
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidSlot), errors.Is(err, ErrSlotUnavailable):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return internalError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":        "Appointment booked successfully",
		"appointment_id": appointmentID,
	})
}

func (h *Handler) List(c echo.Context) error {
	identity, _ := auth.IdentityFromContext(c.Request().Context())

	items, err := h.svc.List(c.Request().Context(), identity, c.QueryParam("status"))
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return internalError(err)
	}

	if items == nil {
		items = []*AppointmentDetail{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointments": items})
}

func (h *Handler) Cancel(c echo.Context) error {
	identity, _ := auth.IdentityFromContext(c.Request().Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	err = h.svc.Cancel(c.Request().Context(), identity, id)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return internalError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment cancelled"})
}

func internalError(err error) error {
	he := echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	he.Internal = err
	return he
}
