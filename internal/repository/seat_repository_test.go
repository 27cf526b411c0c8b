package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeatingRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var seatRowColumns = []string{"id", "table_id", "number", "mode", "locked", "guest_id", "adjacent", "updated_at"}

func TestSeatRepositoryListSeats(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	rows := sqlmock.NewRows(seatRowColumns).
		AddRow("seat-1", "table-1", 1, "default", false, "guest-1", "{seat-2}", time.Now()).
		AddRow("seat-2", "table-1", 2, "internal_only", true, nil, "{seat-1}", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM seats s JOIN seating_tables t ON t.id = s.table_id")).
		WithArgs("session-1").
		WillReturnRows(rows)

	seats, err := repo.ListSeats(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, seats, 2)
	require.NotNil(t, seats[0].GuestID)
	assert.Equal(t, "guest-1", *seats[0].GuestID)
	assert.Equal(t, pq.StringArray{"seat-2"}, seats[0].Adjacent)
	assert.Nil(t, seats[1].GuestID)
	assert.True(t, seats[1].Locked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepositoryListTables(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	rows := sqlmock.NewRows([]string{"id", "session_id", "number", "label", "created_at"}).
		AddRow("table-1", "session-1", 1, "Head table", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, session_id, number, label, created_at FROM seating_tables WHERE session_id = $1 ORDER BY number ASC, id ASC")).
		WithArgs("session-1").
		WillReturnRows(rows)

	tables, err := repo.ListTables(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Head table", *tables[0].Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepositoryLockSeats(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF s")).
		WithArgs("session-1", pq.Array([]string{"seat-1", "seat-2"})).
		WillReturnRows(sqlmock.NewRows(seatRowColumns).
			AddRow("seat-1", "table-1", 1, "default", false, "guest-1", "{}", time.Now()))
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	seats, err := repo.LockSeats(context.Background(), tx, "session-1", []string{"seat-1", "seat-2"})
	require.NoError(t, err)
	assert.Len(t, seats, 1)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepositoryLockedOccupied(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("s.locked = TRUE AND s.guest_id IS NOT NULL ORDER BY s.id ASC FOR UPDATE OF s")).
		WithArgs("session-1").
		WillReturnRows(sqlmock.NewRows(seatRowColumns).
			AddRow("seat-4", "table-1", 4, "default", true, "guest-3", "{}", time.Now()))
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	seats, err := repo.LockedOccupied(context.Background(), tx, "session-1")
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, "guest-3", *seats[0].GuestID)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepositoryClearUnlocked(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE seats SET guest_id = NULL")).
		WithArgs("session-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 7))

	cleared, err := repo.ClearUnlocked(context.Background(), nil, "session-1")
	require.NoError(t, err)
	assert.EqualValues(t, 7, cleared)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepositoryAssignWritesInSeatOrder(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	update := regexp.QuoteMeta("UPDATE seats SET guest_id = $1, updated_at = $2 WHERE id = $3 AND locked = FALSE")
	mock.ExpectExec(update).WithArgs("guest-a", sqlmock.AnyArg(), "seat-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs("guest-b", sqlmock.AnyArg(), "seat-2").WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Assign(context.Background(), nil, map[string]string{"seat-2": "guest-b", "seat-1": "guest-a"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepositoryAssignDetectsLockedSeat(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE seats SET guest_id")).
		WithArgs("guest-a", sqlmock.AnyArg(), "seat-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Assign(context.Background(), nil, map[string]string{"seat-1": "guest-a"})
	assert.ErrorIs(t, err, ErrSeatChanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepositorySwap(t *testing.T) {
	db, mock, cleanup := newSeatingRepoMock(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE seats s SET guest_id = o.guest_id")).
		WithArgs("seat-1", "seat-2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seats s SET guest_id = o.guest_id")).
		WithArgs("seat-1", "seat-3", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Swap(context.Background(), nil, "seat-1", "seat-2"))
	assert.ErrorIs(t, repo.Swap(context.Background(), nil, "seat-1", "seat-3"), ErrSeatChanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}
