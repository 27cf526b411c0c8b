package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/seatplan-api/internal/models"
)

// GuestRepository reads the guest roster of a session.
type GuestRepository struct {
	db *sqlx.DB
}

// NewGuestRepository builds the repository.
func NewGuestRepository(db *sqlx.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// ListBySession returns the guests of a session, soft-deleted rows excluded.
func (r *GuestRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Guest, error) {
	const query = `SELECT id, session_id, name, country, organization, ranking, internal, deleted_at
FROM guests WHERE session_id = $1 AND deleted_at IS NULL ORDER BY id ASC`
	var guests []models.Guest
	if err := r.db.SelectContext(ctx, &guests, query, sessionID); err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return guests, nil
}
