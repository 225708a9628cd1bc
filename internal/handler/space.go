package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-space-reservation/internal/availability"
	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

// SpaceHandler serves the reservable-space catalog.  Reads come from the
// local cache; a sync against the remote store runs first and is allowed
// to fail silently, so stale data keeps being served while the remote is
// down.
type SpaceHandler struct {
	Cache  store.Cache
	Remote store.Remote
	Sync   *availability.Synchronizer
}

func NewSpaceHandler(c store.Cache, remote store.Remote, s *availability.Synchronizer) *SpaceHandler {
	return &SpaceHandler{Cache: c, Remote: remote, Sync: s}
}

// ListSpaces returns all active spaces, name-ordered.
func (h *SpaceHandler) ListSpaces(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	h.Sync.SyncSpaces(ctx)

	spaces, err := h.Cache.ListActiveSpaces(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list spaces failed"})
	}
	if spaces == nil {
		spaces = []model.Space{}
	}
	return c.JSON(http.StatusOK, spaces)
}

// GetSpace returns one space by id, cache first with a remote fallback
// that refreshes the cache entry.
func (h *SpaceHandler) GetSpace(c echo.Context) error {
	id := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	s, err := h.Cache.GetSpace(ctx, id)
	if err != nil {
		s, err = h.Remote.GetSpace(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
			}
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
		}
		if cerr := h.Cache.UpsertSpace(ctx, *s); cerr != nil {
			c.Logger().Warnf("spaces: cache write failed for %s: %v", id, cerr)
		}
	}
	return c.JSON(http.StatusOK, s)
}
