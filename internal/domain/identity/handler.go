package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

type Handler struct {
	svc      *Service
	sessions *auth.Sessions
}

func NewHandler(svc *Service, sessions *auth.Sessions) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/me", h.Me, auth.RequireRole(auth.RolePatient, auth.RoleDoctor))
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID, err := h.svc.Register(c.Request().Context(), in)
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation), errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return internalError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Registration successful",
		"user_id": userID,
	})
}

func (h *Handler) Login(c echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	default:
		return internalError(err)
	}

	identity := auth.Identity{ID: user.ID, Role: user.Role, Email: user.Email}
	if err := h.sessions.Issue(c, identity); err != nil {
		return internalError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *Handler) Me(c echo.Context) error {
	id, _ := auth.IdentityFromContext(c.Request().Context())
	user, err := h.svc.Current(c.Request().Context(), id.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return internalError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

// internalError hides infrastructure details from the client; the cause is
// carried on the HTTPError for the request logger.
func internalError(err error) error {
	he := echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	he.Internal = err
	return he
}
