package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-space-reservation/internal/availability"
	"github.com/iliyamo/campus-space-reservation/internal/cache"
	"github.com/iliyamo/campus-space-reservation/internal/model"
)

// AvailabilityHandler serves slot grids for one space and date.  The
// plain GET endpoint syncs then reads the cache; the SSE endpoint keeps
// an auto-sync loop running while the client is connected and pushes a
// fresh grid whenever the cached slots change.
type AvailabilityHandler struct {
	Sync     *availability.Synchronizer
	Watched  *cache.Watched
	Interval time.Duration
}

func NewAvailabilityHandler(s *availability.Synchronizer, w *cache.Watched, interval time.Duration) *AvailabilityHandler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &AvailabilityHandler{Sync: s, Watched: w, Interval: interval}
}

func slotParams(c echo.Context) (spaceID, date string, err error) {
	spaceID = c.Param("id")
	date = c.QueryParam("date")
	if _, perr := time.Parse("2006-01-02", date); perr != nil {
		return "", "", fmt.Errorf("invalid date")
	}
	return spaceID, date, nil
}

// GetSlots returns the current slot grid for ?date=YYYY-MM-DD.
func (h *AvailabilityHandler) GetSlots(c echo.Context) error {
	spaceID, date, err := slotParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	h.Sync.SyncSlots(ctx, spaceID, date)

	slots, err := h.Watched.ListSlots(ctx, spaceID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list slots failed"})
	}
	if slots == nil {
		slots = []model.TimeSlot{}
	}
	return c.JSON(http.StatusOK, slots)
}

// StreamSlots is the SSE endpoint behind the live availability screen.
// It emits the current grid immediately, then a new event each time the
// cached grid changes.  An auto-sync loop keyed to this space+date runs
// for the lifetime of the connection so the grid keeps tracking the
// remote store.
func (h *AvailabilityHandler) StreamSlots(c echo.Context) error {
	spaceID, date, err := slotParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	go h.Sync.AutoSync(ctx, spaceID, date, h.Interval)

	updates := h.Watched.WatchSlots(ctx, spaceID, date)
	for slots := range updates {
		payload, err := json.Marshal(slots)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(res, "event: slots\ndata: %s\n\n", payload); err != nil {
			return nil
		}
		res.Flush()
	}
	return nil
}
