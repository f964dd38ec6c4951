package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockLedger(t *testing.T) (*PostgresLedger, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresLedger(sqlx.NewDb(db, "postgres"), kst), mock
}

func TestPostgresLedger_MostRecentSinceConvertsZone(t *testing.T) {
	l, mock := newMockLedger(t)
	since := time.Date(2025, 3, 10, 0, 0, 0, 0, kst)
	stored := time.Date(2025, 3, 10, 1, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, user_id, destination_id, drawn_at\s+FROM draw_events`).
		WithArgs(int64(1), since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "destination_id", "drawn_at"}).
			AddRow(11, 1, 4, stored))

	got, err := l.MostRecentSince(context.Background(), 1, since)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(4), got.DestinationID)
	assert.Equal(t, kst, got.DrawnAt.Location())
	assert.True(t, stored.Equal(got.DrawnAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_HistorySkipsQueryPastTotal(t *testing.T) {
	l, mock := newMockLedger(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM draw_events WHERE user_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	events, total, err := l.History(context.Background(), 1, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 2, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_Append(t *testing.T) {
	l, mock := newMockLedger(t)
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, kst)

	mock.ExpectQuery(`INSERT INTO draw_events`).
		WithArgs(int64(1), int64(6), at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	event, err := l.Append(context.Background(), 1, 6, at)
	require.NoError(t, err)
	assert.Equal(t, int64(42), event.ID)
	assert.Equal(t, at, event.DrawnAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
