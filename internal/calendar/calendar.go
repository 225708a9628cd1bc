// Package calendar builds the month-grid view model consumed by the
// dashboard.  A grid is always 6 weeks of 7 cells; days from the
// adjacent months pad the grid and are marked unavailable.
package calendar

import (
	"fmt"
	"time"

	"github.com/iliyamo/campus-space-reservation/internal/model"
)

// GridCells is the fixed size of a month grid: 6 rows of 7 days.
const GridCells = 42

// IsLeapYear implements the Gregorian leap-year rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days of the given month, accounting
// for leap-year February.
func DaysInMonth(year int, month time.Month) int {
	if month == time.February && IsLeapYear(year) {
		return 29
	}
	return monthDays[month]
}

// dateString formats a calendar date as ISO YYYY-MM-DD.
func dateString(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// MonthGrid produces exactly 42 CalendarDay cells for the given month.
// Leading cells come from the previous month and trailing cells from the
// next month; both are unavailable and carry no reservations.  Cells of
// the month itself attach the approved reservations whose date matches
// exactly and flag the cell matching today.  The reservations slice is
// expected to already be filtered to APPROVED; anything else is skipped.
func MonthGrid(year int, month time.Month, today string, approved []model.Reservation) []model.CalendarDay {
	byDate := make(map[string][]model.Reservation)
	for _, r := range approved {
		if r.Status != model.ReservationApproved {
			continue
		}
		byDate[r.Date] = append(byDate[r.Date], r)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	leading := (int(first.Weekday()) + 6) % 7 // Monday = 0
	days := DaysInMonth(year, month)

	grid := make([]model.CalendarDay, 0, GridCells)

	// previous-month padding
	prev := first.AddDate(0, -1, 0)
	prevDays := DaysInMonth(prev.Year(), prev.Month())
	for day := prevDays - leading + 1; day <= prevDays; day++ {
		grid = append(grid, model.CalendarDay{
			Date:        dateString(prev.Year(), prev.Month(), day),
			IsAvailable: false,
		})
	}

	// the month itself
	for day := 1; day <= days; day++ {
		date := dateString(year, month, day)
		rs := byDate[date]
		grid = append(grid, model.CalendarDay{
			Date:            date,
			Reservations:    rs,
			HasReservations: len(rs) > 0,
			IsAvailable:     true,
			IsToday:         date == today,
		})
	}

	// next-month padding up to 42 cells
	next := first.AddDate(0, 1, 0)
	for day := 1; len(grid) < GridCells; day++ {
		grid = append(grid, model.CalendarDay{
			Date:        dateString(next.Year(), next.Month(), day),
			IsAvailable: false,
		})
	}
	return grid
}

// MonthRange returns the first and last ISO dates covered by the 42-cell
// grid of a month, including the padding days.  Callers use it to sync
// the right reservation window before rendering.
func MonthRange(year int, month time.Month) (from, to string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	leading := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -leading)
	end := start.AddDate(0, 0, GridCells-1)
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}
