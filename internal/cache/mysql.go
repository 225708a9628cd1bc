// Package cache implements the local read-model store the engine
// mirrors remote state into.  The primary backend is MySQL; an
// in-memory backend exists for tests and broker-less deployments.
// Reads served from here never fail because the remote is down — they
// just serve the last synced state.
package cache

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/campus-space-reservation/internal/model"
	"github.com/iliyamo/campus-space-reservation/internal/store"
)

// MySQL is the SQL-backed cache.  All timestamps are stored as the
// engine's wire formats: ISO dates, HH:mm times and Unix-millisecond
// integers, so cached rows round-trip exactly.
type MySQL struct {
	db *sql.DB
}

// NewMySQL returns a cache bound to the given database.  Call
// EnsureSchema before first use.
func NewMySQL(db *sql.DB) *MySQL { return &MySQL{db: db} }

// DB exposes the underlying handle for components that share the
// connection pool (refresh tokens).
func (c *MySQL) DB() *sql.DB { return c.db }

// ---- spaces ----

func (c *MySQL) UpsertSpace(ctx context.Context, s model.Space) error {
	const q = `INSERT INTO spaces (id, name, type, description, capacity, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), type = VALUES(type),
			description = VALUES(description), capacity = VALUES(capacity),
			is_active = VALUES(is_active)`
	_, err := c.db.ExecContext(ctx, q, s.ID, s.Name, string(s.Type), s.Description, s.Capacity, s.IsActive)
	return err
}

func (c *MySQL) UpsertSpaces(ctx context.Context, spaces []model.Space) error {
	for _, s := range spaces {
		if err := c.UpsertSpace(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *MySQL) GetSpace(ctx context.Context, id string) (*model.Space, error) {
	const q = `SELECT id, name, type, description, capacity, is_active FROM spaces WHERE id = ?`
	var s model.Space
	var typ string
	err := c.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &typ, &s.Description, &s.Capacity, &s.IsActive)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Type = model.SpaceType(typ)
	return &s, nil
}

func (c *MySQL) ListActiveSpaces(ctx context.Context) ([]model.Space, error) {
	const q = `SELECT id, name, type, description, capacity, is_active
		FROM spaces WHERE is_active = 1 ORDER BY name`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spaces := make([]model.Space, 0)
	for rows.Next() {
		var s model.Space
		var typ string
		if err := rows.Scan(&s.ID, &s.Name, &typ, &s.Description, &s.Capacity, &s.IsActive); err != nil {
			return nil, err
		}
		s.Type = model.SpaceType(typ)
		spaces = append(spaces, s)
	}
	return spaces, rows.Err()
}

// ---- time slots ----

// ReplaceSlots swaps out the whole entry set for (spaceID, date) in one
// transaction: delete then insert, never an incremental patch.
func (c *MySQL) ReplaceSlots(ctx context.Context, spaceID, date string, slots []model.TimeSlot) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const del = `DELETE FROM time_slots WHERE space_id = ? AND date = ?`
	if _, err := tx.ExecContext(ctx, del, spaceID, date); err != nil {
		return err
	}
	const ins = `INSERT INTO time_slots
		(id, space_id, date, start_time, end_time, status, reserved_by, reserved_by_name, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, s := range slots {
		if _, err := tx.ExecContext(ctx, ins, s.ID, s.SpaceID, s.Date, s.StartTime, s.EndTime,
			string(s.Status), nullable(s.ReservedBy), nullable(s.ReservedByName), nullable(s.Description)); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (c *MySQL) ListSlots(ctx context.Context, spaceID, date string) ([]model.TimeSlot, error) {
	const q = `SELECT id, space_id, date, start_time, end_time, status, reserved_by, reserved_by_name, description
		FROM time_slots WHERE space_id = ? AND date = ? ORDER BY start_time`
	rows, err := c.db.QueryContext(ctx, q, spaceID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]model.TimeSlot, 0)
	for rows.Next() {
		var s model.TimeSlot
		var status string
		var reservedBy, reservedByName, description sql.NullString
		if err := rows.Scan(&s.ID, &s.SpaceID, &s.Date, &s.StartTime, &s.EndTime,
			&status, &reservedBy, &reservedByName, &description); err != nil {
			return nil, err
		}
		s.Status = model.SlotStatus(status)
		s.ReservedBy = reservedBy.String
		s.ReservedByName = reservedByName.String
		s.Description = description.String
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ---- reservations ----

func (c *MySQL) UpsertReservation(ctx context.Context, r model.Reservation) error {
	const q = `INSERT INTO reservations
		(id, space_id, space_name, space_type, user_id, user_name, user_email,
		 date, start_time, end_time, description, status, created_at, approved_by, rejection_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status), approved_by = VALUES(approved_by),
			rejection_reason = VALUES(rejection_reason), description = VALUES(description),
			date = VALUES(date), start_time = VALUES(start_time), end_time = VALUES(end_time)`
	_, err := c.db.ExecContext(ctx, q, r.ID, r.SpaceID, r.SpaceName, string(r.SpaceType),
		r.UserID, r.UserName, r.UserEmail, r.Date, r.StartTime, r.EndTime, r.Description,
		string(r.Status), r.CreatedAt, nullable(r.ApprovedBy), nullable(r.RejectionReason))
	return err
}

func (c *MySQL) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	const q = reservationColumns + ` WHERE id = ?`
	r, err := scanReservation(c.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListReservations applies the filter's non-zero fields.  User listings
// come back newest first; everything else is ordered by date and start
// time, matching what the screens display.
func (c *MySQL) ListReservations(ctx context.Context, f store.ReservationFilter) ([]model.Reservation, error) {
	q := reservationColumns
	where := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if f.SpaceID != "" {
		where = append(where, "space_id = ?")
		args = append(args, f.SpaceID)
	}
	if f.Date != "" {
		where = append(where, "date = ?")
		args = append(args, f.Date)
	}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if len(f.StatusIn) > 0 {
		ph := make([]string, len(f.StatusIn))
		for i, st := range f.StatusIn {
			ph[i] = "?"
			args = append(args, string(st))
		}
		where = append(where, "status IN ("+strings.Join(ph, ", ")+")")
	}
	if f.DateFrom != "" {
		where = append(where, "date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where = append(where, "date <= ?")
		args = append(args, f.DateTo)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	if f.UserID != "" {
		q += " ORDER BY created_at DESC"
	} else {
		q += " ORDER BY date, start_time"
	}

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (c *MySQL) ClearReservations(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM reservations`)
	return err
}

// ---- users ----

func (c *MySQL) UpsertUser(ctx context.Context, u model.User) error {
	const q = `INSERT INTO user_cache (id, name, email, role) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), email = VALUES(email), role = VALUES(role)`
	_, err := c.db.ExecContext(ctx, q, u.ID, u.Name, u.Email, string(u.Role))
	return err
}

func (c *MySQL) GetUser(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT id, name, email, role FROM user_cache WHERE id = ?`
	var u model.User
	var role string
	err := c.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &role)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}

func (c *MySQL) ClearUsers(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM user_cache`)
	return err
}

// ---- scan helpers ----

const reservationColumns = `SELECT id, space_id, space_name, space_type, user_id, user_name, user_email,
	date, start_time, end_time, description, status, created_at, approved_by, rejection_reason
	FROM reservations`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var r model.Reservation
	var spaceType, status string
	var approvedBy, rejectionReason sql.NullString
	err := row.Scan(&r.ID, &r.SpaceID, &r.SpaceName, &spaceType, &r.UserID, &r.UserName, &r.UserEmail,
		&r.Date, &r.StartTime, &r.EndTime, &r.Description, &status, &r.CreatedAt,
		&approvedBy, &rejectionReason)
	if err != nil {
		return nil, err
	}
	r.SpaceType = model.SpaceType(spaceType)
	r.Status = model.ReservationStatus(status)
	r.ApprovedBy = approvedBy.String
	r.RejectionReason = rejectionReason.String
	return &r, nil
}

// nullable maps empty strings to SQL NULL so optional fields stay
// distinguishable from empty values.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
