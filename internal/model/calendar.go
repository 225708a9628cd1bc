package model

// CalendarDay is one cell of the 42-cell month grid.  Cells belonging to
// the adjacent months pad the grid to full weeks and are marked
// unavailable.  Only approved reservations are attached.  CalendarDay
// values are built fresh on every render and never persisted.
type CalendarDay struct {
	Date            string        `json:"date"`
	Reservations    []Reservation `json:"reservations,omitempty"`
	HasReservations bool          `json:"hasReservations"`
	IsAvailable     bool          `json:"isAvailable"`
	IsToday         bool          `json:"isToday"`
	IsSelected      bool          `json:"isSelected"`
}
