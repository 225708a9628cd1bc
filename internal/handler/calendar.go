package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-space-reservation/internal/calendar"
	"github.com/iliyamo/campus-space-reservation/internal/reservation"
)

// CalendarHandler renders the dashboard month grid: 42 day cells with
// the approved reservations of the visible range attached.
type CalendarHandler struct {
	Mgr *reservation.Manager
}

func NewCalendarHandler(m *reservation.Manager) *CalendarHandler {
	return &CalendarHandler{Mgr: m}
}

// Month serves /calendar/:year/:month.
func (h *CalendarHandler) Month(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
	}
	monthNum, err := strconv.Atoi(c.Param("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month"})
	}
	month := time.Month(monthNum)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	from, to := calendar.MonthRange(year, month)
	h.Mgr.SyncApprovedInRange(ctx, from, to)

	approved, err := h.Mgr.ListApprovedInRange(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load calendar failed"})
	}

	today := time.Now().UTC().Format("2006-01-02")
	grid := calendar.MonthGrid(year, month, today, approved)
	return c.JSON(http.StatusOK, echo.Map{
		"year":  year,
		"month": monthNum,
		"days":  grid,
	})
}
