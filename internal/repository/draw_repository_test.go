package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YJlang/gacha/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestDrawRepository_CountSince(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrawRepository()
	since := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM draw_events\s+WHERE user_id = \$1 AND drawn_at >= \$2`).
		WithArgs(int64(7), since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountSince(context.Background(), db, 7, since)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrawRepository_MostRecentSinceNoRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrawRepository()

	mock.ExpectQuery(`ORDER BY drawn_at DESC, id DESC\s+LIMIT 1`).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "destination_id", "drawn_at"}))

	event, err := repo.MostRecentSince(context.Background(), db, 7, time.Now())
	require.NoError(t, err)
	assert.Nil(t, event)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrawRepository_HasEverDrawn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrawRepository()
	before := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT EXISTS \(.*drawn_at < \$3`).
		WithArgs(int64(7), int64(3), before).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	drawn, err := repo.HasEverDrawn(context.Background(), db, 7, 3, before)
	require.NoError(t, err)
	assert.True(t, drawn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrawRepository_CreateDrawEvent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrawRepository()
	event := &model.DrawEvent{UserID: 7, DestinationID: 3, DrawnAt: time.Now()}

	mock.ExpectQuery(`INSERT INTO draw_events \(user_id, destination_id, drawn_at\)`).
		WithArgs(event.UserID, event.DestinationID, event.DrawnAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))

	require.NoError(t, repo.CreateDrawEvent(context.Background(), db, event))
	assert.Equal(t, int64(99), event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrawRepository_CreateDrawEventError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrawRepository()
	boom := errors.New("connection reset")

	mock.ExpectQuery(`INSERT INTO draw_events`).WillReturnError(boom)

	err := repo.CreateDrawEvent(context.Background(), db, &model.DrawEvent{UserID: 1, DestinationID: 1})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrawRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrawRepository()
	t1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	t0 := t1.Add(-24 * time.Hour)

	mock.ExpectQuery(`LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(7), 2, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "destination_id", "drawn_at"}).
			AddRow(2, 7, 5, t1).
			AddRow(1, 7, 4, t0))

	events, err := repo.ListByUser(context.Background(), db, 7, 0, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(5), events[0].DestinationID)
	assert.Equal(t, t0, events[1].DrawnAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
