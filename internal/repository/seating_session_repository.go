package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/seatplan-api/internal/models"
)

// SeatingSessionRepository reads seating sessions.
type SeatingSessionRepository struct {
	db *sqlx.DB
}

// NewSeatingSessionRepository builds the repository.
func NewSeatingSessionRepository(db *sqlx.DB) *SeatingSessionRepository {
	return &SeatingSessionRepository{db: db}
}

// FindByID returns the session or sql.ErrNoRows.
func (r *SeatingSessionRepository) FindByID(ctx context.Context, id string) (*models.SeatingSession, error) {
	const query = `SELECT id, name, event_date, ratio_enabled, ratio_internal, ratio_external, spacing_enabled, spacing, spacing_start_internal, created_at, updated_at
FROM seating_sessions WHERE id = $1`
	var session models.SeatingSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}
