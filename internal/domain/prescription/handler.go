package prescription

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
	api.POST("/prescriptions", h.Issue, auth.RequireRole(auth.RoleDoctor))
	api.GET("/prescriptions", h.List, auth.RequireRole(auth.RolePatient, auth.RoleDoctor))
	api.GET("/prescriptions/:id", h.Get, auth.RequireRole(auth.RolePatient, auth.RoleDoctor))
}

func (h *Handler) Issue(c echo.Context) error {
	identity, _ := auth.IdentityFromContext(c.Request().Context())

	var in IssueInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	prescriptionID, err := h.svc.Issue(c.Request().Context(), identity, in)
	switch {
	case err == nil:
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidAppointment), errors.Is(err, ErrDuplicate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return internalError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":         "Prescription uploaded successfully",
		"prescription_id": prescriptionID,
	})
}

func (h *Handler) Get(c echo.Context) error {
	identity, _ := auth.IdentityFromContext(c.Request().Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}

	view, err := h.svc.Get(c.Request().Context(), identity, id)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	default:
		return internalError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"prescription": view})
}

func (h *Handler) List(c echo.Context) error {
	identity, _ := auth.IdentityFromContext(c.Request().Context())

	items, err := h.svc.List(c.Request().Context(), identity)
	if err != nil {
		return internalError(err)
	}
	if items == nil {
		items = []*Summary{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"prescriptions": items})
}

func internalError(err error) error {
	he := echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	he.Internal = err
	return he
}
