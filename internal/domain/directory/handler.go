package directory

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Doctor discovery is public: patients browse before they log in.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/doctors", h.Search)
	api.GET("/doctors/:id", h.Details)
	api.GET("/doctors/:id/timeslots", h.Timeslots)
}

func (h *Handler) Search(c echo.Context) error {
	f := SearchFilter{
		Specialization: c.QueryParam("specialization"),
		Department:     c.QueryParam("department"),
		Name:           c.QueryParam("name"),
	}

	doctors, err := h.svc.Search(c.Request().Context(), f, pagination.FromContext(c))
	if err != nil {
		return internalError(err)
	}
	if doctors == nil {
		doctors = []*DoctorSummary{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"doctors": doctors})
}

func (h *Handler) Details(c echo.Context) error {
	id, err := doctorID(c)
	if err != nil {
		return err
	}

	doctor, err := h.svc.Details(c.Request().Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	default:
		return internalError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"doctor": doctor})
}

func (h *Handler) Timeslots(c echo.Context) error {
	id, err := doctorID(c)
	if err != nil {
		return err
	}

	slots, err := h.svc.Timeslots(c.Request().Context(), id,
		c.QueryParam("date"), c.QueryParam("days"))
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return internalError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"slots": slots})
}

func doctorID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	return id, nil
}

func internalError(err error) error {
	he := echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	he.Internal = err
	return he
}
