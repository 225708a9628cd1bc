package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-space-reservation/internal/cache"
	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/reservation"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

// AdminHandler gives STAFF and ADMIN users the approval queue.  Role
// enforcement happens in middleware.
type AdminHandler struct {
	Mgr      *reservation.Manager
	Watched  *cache.Watched
	Interval time.Duration
}

func NewAdminHandler(m *reservation.Manager, w *cache.Watched, interval time.Duration) *AdminHandler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &AdminHandler{Mgr: m, Watched: w, Interval: interval}
}

type rejectReq struct {
	Reason string `json:"reason"`
}

// ListPending returns every PENDING reservation after a remote sync.
func (h *AdminHandler) ListPending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	h.Mgr.SyncPending(ctx)

	rs, err := h.Mgr.ListPending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list pending failed"})
	}
	if rs == nil {
		rs = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, rs)
}

// StreamPending is the SSE view of the approval queue.  It pushes the
// current PENDING set immediately and again after every reservation
// write to the cache; a periodic remote sync runs for the lifetime of
// the connection so decisions made elsewhere show up too.
func (h *AdminHandler) StreamPending(c echo.Context) error {
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	h.Mgr.SyncPending(ctx)
	go func() {
		t := time.NewTicker(h.Interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				h.Mgr.SyncPending(ctx)
			}
		}
	}()

	updates := h.Watched.WatchReservations(ctx, store.ReservationFilter{
		StatusIn: []model.ReservationStatus{model.ReservationPending},
	})
	for rs := range updates {
		payload, err := json.Marshal(rs)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(res, "event: pending\ndata: %s\n\n", payload); err != nil {
			return nil
		}
		res.Flush()
	}
	return nil
}

// Approve transitions a PENDING reservation to APPROVED, recording the
// acting admin.
func (h *AdminHandler) Approve(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Mgr.Approve(ctx, id, uid); err != nil {
		return reservationHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Reject transitions a PENDING reservation to REJECTED with a required
// reason.
func (h *AdminHandler) Reject(c echo.Context) error {
	id := c.Param("id")

	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Mgr.Reject(ctx, id, req.Reason); err != nil {
		return reservationHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
