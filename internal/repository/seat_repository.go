package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/seatplan-api/internal/models"
)

// ErrSeatChanged reports that a seat targeted by a write became locked or disappeared.
var ErrSeatChanged = errors.New("seat changed concurrently")

// SeatRepository manages tables and seats of a session.
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository builds the repository.
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

func (r *SeatRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const seatColumns = `s.id, s.table_id, s.number, s.mode, s.locked, s.guest_id, s.adjacent, s.updated_at`

// ListTables returns the tables of a session ordered by number.
func (r *SeatRepository) ListTables(ctx context.Context, sessionID string) ([]models.SeatingTable, error) {
	const query = `SELECT id, session_id, number, label, created_at FROM seating_tables WHERE session_id = $1 ORDER BY number ASC, id ASC`
	var tables []models.SeatingTable
	if err := r.db.SelectContext(ctx, &tables, query, sessionID); err != nil {
		return nil, fmt.Errorf("list seating tables: %w", err)
	}
	return tables, nil
}

// ListSeats returns every seat of a session ordered by table and seat number.
func (r *SeatRepository) ListSeats(ctx context.Context, sessionID string) ([]models.Seat, error) {
	const query = `SELECT ` + seatColumns + `
FROM seats s JOIN seating_tables t ON t.id = s.table_id
WHERE t.session_id = $1 ORDER BY t.number ASC, s.number ASC, s.id ASC`
	var seats []models.Seat
	if err := r.db.SelectContext(ctx, &seats, query, sessionID); err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	return seats, nil
}

// LockSeats selects the given seats of a session FOR UPDATE inside exec's transaction.
func (r *SeatRepository) LockSeats(ctx context.Context, exec sqlx.ExtContext, sessionID string, seatIDs []string) ([]models.Seat, error) {
	const query = `SELECT ` + seatColumns + `
FROM seats s JOIN seating_tables t ON t.id = s.table_id
WHERE t.session_id = $1 AND s.id = ANY($2) ORDER BY s.id ASC FOR UPDATE OF s`
	var seats []models.Seat
	if err := sqlx.SelectContext(ctx, r.exec(exec), &seats, query, sessionID, pq.Array(seatIDs)); err != nil {
		return nil, fmt.Errorf("lock seats: %w", err)
	}
	return seats, nil
}

// LockedOccupied selects the session's locked seats that hold a guest, FOR UPDATE inside
// exec's transaction.
func (r *SeatRepository) LockedOccupied(ctx context.Context, exec sqlx.ExtContext, sessionID string) ([]models.Seat, error) {
	const query = `SELECT ` + seatColumns + `
FROM seats s JOIN seating_tables t ON t.id = s.table_id
WHERE t.session_id = $1 AND s.locked = TRUE AND s.guest_id IS NOT NULL ORDER BY s.id ASC FOR UPDATE OF s`
	var seats []models.Seat
	if err := sqlx.SelectContext(ctx, r.exec(exec), &seats, query, sessionID); err != nil {
		return nil, fmt.Errorf("lock occupied seats: %w", err)
	}
	return seats, nil
}

// ClearUnlocked empties every unlocked seat of a session and returns the number cleared.
func (r *SeatRepository) ClearUnlocked(ctx context.Context, exec sqlx.ExtContext, sessionID string) (int64, error) {
	const query = `UPDATE seats SET guest_id = NULL, updated_at = $2
WHERE locked = FALSE AND guest_id IS NOT NULL AND table_id IN (SELECT id FROM seating_tables WHERE session_id = $1)`
	res, err := r.exec(exec).ExecContext(ctx, query, sessionID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("clear unlocked seats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear unlocked seats: %w", err)
	}
	return affected, nil
}

// Assign writes guest IDs onto unlocked seats in seat ID order. A seat that is locked or
// missing aborts with ErrSeatChanged.
func (r *SeatRepository) Assign(ctx context.Context, exec sqlx.ExtContext, assignment map[string]string) error {
	if len(assignment) == 0 {
		return nil
	}
	seatIDs := make([]string, 0, len(assignment))
	for seatID := range assignment {
		seatIDs = append(seatIDs, seatID)
	}
	sort.Strings(seatIDs)

	const query = `UPDATE seats SET guest_id = $1, updated_at = $2 WHERE id = $3 AND locked = FALSE`
	target := r.exec(exec)
	now := time.Now().UTC()
	for _, seatID := range seatIDs {
		res, err := target.ExecContext(ctx, query, assignment[seatID], now, seatID)
		if err != nil {
			return fmt.Errorf("assign seat %s: %w", seatID, err)
		}
		if affected, err := res.RowsAffected(); err != nil || affected != 1 {
			return fmt.Errorf("assign seat %s: %w", seatID, ErrSeatChanged)
		}
	}
	return nil
}

// Swap exchanges the occupants of two unlocked seats in a single statement.
func (r *SeatRepository) Swap(ctx context.Context, exec sqlx.ExtContext, seatA, seatB string) error {
	const query = `UPDATE seats s SET guest_id = o.guest_id, updated_at = $3
FROM seats o
WHERE ((s.id = $1 AND o.id = $2) OR (s.id = $2 AND o.id = $1)) AND s.locked = FALSE`
	res, err := r.exec(exec).ExecContext(ctx, query, seatA, seatB, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("swap seats: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil || affected != 2 {
		return fmt.Errorf("swap seats %s/%s: %w", seatA, seatB, ErrSeatChanged)
	}
	return nil
}
