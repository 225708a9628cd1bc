package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/reservation"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

// ReservationHandler exposes the reservation lifecycle to signed-in
// users: request a space, list own reservations, cancel.
type ReservationHandler struct {
	Mgr   *reservation.Manager
	Users userLoader
}

// userLoader resolves the authenticated user's profile for
// denormalization into new reservations.
type userLoader interface {
	loadUser(ctx context.Context, id string) (*model.User, error)
}

func NewReservationHandler(m *reservation.Manager, users *AuthHandler) *ReservationHandler {
	return &ReservationHandler{Mgr: m, Users: users}
}

// reservationHTTPError maps engine errors onto HTTP responses.
func reservationHTTPError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, reservation.ErrAlreadyFinal):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, reservation.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, store.ErrRemoteUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
	}
}

// Create files a new PENDING reservation for the authenticated user.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Users.loadUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
	}

	r, err := h.Mgr.Create(ctx, req, *u)
	if err != nil {
		return reservationHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// ListMine returns the authenticated user's reservations, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	h.Mgr.SyncForUser(ctx, uid)

	rs, err := h.Mgr.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	if rs == nil {
		rs = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, rs)
}

// Cancel transitions one of the user's reservations to CANCELLED.  Users
// may only cancel their own reservations.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	r, err := h.Mgr.Get(ctx, id)
	if err != nil {
		return reservationHTTPError(c, err)
	}
	if r.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Mgr.Cancel(ctx, id); err != nil {
		return reservationHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
