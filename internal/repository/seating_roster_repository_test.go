package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/seatplan-api/internal/models"
)

func TestSeatingSessionRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewSeatingSessionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "event_date", "ratio_enabled", "ratio_internal", "ratio_external", "spacing_enabled", "spacing", "spacing_start_internal", "created_at", "updated_at"}).
		AddRow("session-1", "Gala", now, true, 1, 2, false, 0, false, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM seating_sessions WHERE id = $1")).
		WithArgs("session-1").
		WillReturnRows(rows)

	session, err := repo.FindByID(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "Gala", session.Name)
	assert.True(t, session.RatioEnabled)
	assert.Equal(t, 2, session.RatioExternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatingSessionRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewSeatingSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM seating_sessions")).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGuestRepositoryListBySessionExcludesDeleted(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewGuestRepository(db)

	rows := sqlmock.NewRows([]string{"id", "session_id", "name", "country", "organization", "ranking", "internal", "deleted_at"}).
		AddRow("guest-1", "session-1", "Ada", "UK", "Analytical", 1, true, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM guests WHERE session_id = $1 AND deleted_at IS NULL ORDER BY id ASC")).
		WithArgs("session-1").
		WillReturnRows(rows)

	guests, err := repo.ListBySession(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.True(t, guests[0].Internal)
	assert.Nil(t, guests[0].DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProximityRuleRepositoryListBySession(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewProximityRuleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "session_id", "kind", "guest_a", "guest_b", "created_at"}).
		AddRow("rule-1", "session-1", "sit_together", "guest-1", "guest-2", time.Now()).
		AddRow("rule-2", "session-1", "sit_away", "guest-1", "guest-3", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM proximity_rules WHERE session_id = $1")).
		WithArgs("session-1").
		WillReturnRows(rows)

	rules, err := repo.ListBySession(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, models.ProximitySitAway, rules[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
