package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/seatplan-api/internal/models"
)

// ProximityRuleRepository reads sit-together and sit-away rules.
type ProximityRuleRepository struct {
	db *sqlx.DB
}

// NewProximityRuleRepository builds the repository.
func NewProximityRuleRepository(db *sqlx.DB) *ProximityRuleRepository {
	return &ProximityRuleRepository{db: db}
}

// ListBySession returns the rules of a session in creation order.
func (r *ProximityRuleRepository) ListBySession(ctx context.Context, sessionID string) ([]models.ProximityRule, error) {
	const query = `SELECT id, session_id, kind, guest_a, guest_b, created_at
FROM proximity_rules WHERE session_id = $1 ORDER BY created_at ASC, id ASC`
	var rules []models.ProximityRule
	if err := r.db.SelectContext(ctx, &rules, query, sessionID); err != nil {
		return nil, fmt.Errorf("list proximity rules: %w", err)
	}
	return rules, nil
}
