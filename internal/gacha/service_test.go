package gacha

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YJlang/gacha/internal/catalog"
	"github.com/YJlang/gacha/internal/ledger"
	"github.com/YJlang/gacha/internal/lock"
	"github.com/YJlang/gacha/internal/model"
)

var kst = time.FixedZone("KST", 9*60*60)

type staticLoader struct {
	mu      sync.Mutex
	records []model.Destination
	err     error
}

func (l *staticLoader) Load(ctx context.Context) ([]model.Destination, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return append([]model.Destination(nil), l.records...), nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	svc    *Service
	store  *catalog.Store
	loader *staticLoader
	ledger *ledger.MemoryLedger
	clock  *fakeClock
}

func newFixture(t *testing.T, limit int, records ...model.Destination) *fixture {
	t.Helper()
	if len(records) == 0 {
		records = []model.Destination{
			{ID: 1, Name: "A", Region: "Gangwon"},
			{ID: 2, Name: "B", Region: "Jeolla"},
			{ID: 3, Name: "C", Region: "Gangwon"},
		}
	}
	log, _ := test.NewNullLogger()
	loader := &staticLoader{records: records}
	store := catalog.NewStore(loader, log)
	l := ledger.NewMemoryLedger()
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, kst)}

	svc := NewService(store, l, lock.NewKeyedMutex(), Config{DailyLimit: limit, Location: kst}, log)
	svc.now = clock.Now
	return &fixture{svc: svc, store: store, loader: loader, ledger: l, clock: clock}
}

func TestDraw_OncePerDay(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	res, err := f.svc.Draw(ctx, 1, catalog.Filter{})
	require.NoError(t, err)
	assert.True(t, res.IsNew)
	assert.Equal(t, f.clock.Now(), res.DrawnAt)

	_, err = f.svc.Draw(ctx, 1, catalog.Filter{})
	require.ErrorIs(t, err, ErrDailyLimitExceeded)

	var limitErr *DailyLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 1, limitErr.Limit)
	assert.Equal(t, 1, limitErr.Count)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, kst), limitErr.NextAvailableAt)

	count, err := f.ledger.CountSince(ctx, 1, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "a refused draw must not be recorded")
}

func TestDraw_DayBoundary(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	f.clock.Set(time.Date(2025, 3, 10, 23, 59, 59, 0, kst))
	_, err := f.svc.Draw(ctx, 1, catalog.Filter{})
	require.NoError(t, err)

	_, err = f.svc.Draw(ctx, 1, catalog.Filter{})
	require.ErrorIs(t, err, ErrDailyLimitExceeded)

	f.clock.Set(time.Date(2025, 3, 11, 0, 0, 0, 0, kst))
	_, err = f.svc.Draw(ctx, 1, catalog.Filter{})
	assert.NoError(t, err)
}

func TestDraw_BoundaryUsesReferenceZone(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	// 14:30 UTC on the 10th is 23:30 on the 10th in KST
	f.clock.Set(time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC))
	_, err := f.svc.Draw(ctx, 1, catalog.Filter{})
	require.NoError(t, err)

	// 15:00 UTC is already midnight of the 11th in KST
	f.clock.Set(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC))
	_, err = f.svc.Draw(ctx, 1, catalog.Filter{})
	assert.NoError(t, err)
}

func TestDraw_Novelty(t *testing.T) {
	only := model.Destination{ID: 1, Name: "A", Region: "Gangwon"}
	ctx := context.Background()

	t.Run("repeat on a later day is not new", func(t *testing.T) {
		f := newFixture(t, 1, only)

		res, err := f.svc.Draw(ctx, 1, catalog.Filter{})
		require.NoError(t, err)
		assert.True(t, res.IsNew)

		f.clock.Set(f.clock.Now().AddDate(0, 0, 1))
		res, err = f.svc.Draw(ctx, 1, catalog.Filter{})
		require.NoError(t, err)
		assert.False(t, res.IsNew)
	})

	t.Run("same day repeat stays new", func(t *testing.T) {
		f := newFixture(t, 3, only)

		for i := 0; i < 3; i++ {
			res, err := f.svc.Draw(ctx, 1, catalog.Filter{})
			require.NoError(t, err)
			assert.True(t, res.IsNew)
		}
	})

	t.Run("other users' history does not matter", func(t *testing.T) {
		f := newFixture(t, 1, only)

		_, err := f.svc.Draw(ctx, 1, catalog.Filter{})
		require.NoError(t, err)
		f.clock.Set(f.clock.Now().AddDate(0, 0, 1))

		res, err := f.svc.Draw(ctx, 2, catalog.Filter{})
		require.NoError(t, err)
		assert.True(t, res.IsNew)
	})
}

func TestDraw_Filters(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		res, err := f.svc.Draw(ctx, 1, catalog.Filter{Region: "Gang"})
		require.NoError(t, err)
		assert.Contains(t, []string{"A", "C"}, res.Destination.Name)
	}

	_, err := f.svc.Draw(ctx, 2, catalog.Filter{Region: "Busan"})
	assert.ErrorIs(t, err, ErrNoMatchingDestination)

	count, err := f.ledger.CountSince(ctx, 2, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDraw_DatasetUnavailable(t *testing.T) {
	f := newFixture(t, 1)
	f.loader.err = catalog.ErrDatasetUnavailable

	_, err := f.svc.Draw(context.Background(), 1, catalog.Filter{})
	assert.ErrorIs(t, err, catalog.ErrDatasetUnavailable)
}

func TestDraw_ConcurrentSameUser(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	const n = 32

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Draw(ctx, 1, catalog.Filter{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, limited int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDailyLimitExceeded):
			limited++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, limited)
}

func TestDraw_ConcurrentDifferentUsers(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	var wg sync.WaitGroup
	for user := int64(1); user <= 16; user++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			_, err := f.svc.Draw(ctx, user, catalog.Filter{})
			assert.NoError(t, err)
		}(user)
	}
	wg.Wait()
}

func TestStatus(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	status, err := f.svc.Status(ctx, 1)
	require.NoError(t, err)
	assert.True(t, status.CanDraw)
	assert.Equal(t, 2, status.Remaining)
	assert.Zero(t, status.TodayCount)
	assert.Nil(t, status.LastDrawTime)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, kst), status.NextResetAt)

	res, err := f.svc.Draw(ctx, 1, catalog.Filter{})
	require.NoError(t, err)
	_, err = f.svc.Draw(ctx, 1, catalog.Filter{})
	require.NoError(t, err)

	status, err = f.svc.Status(ctx, 1)
	require.NoError(t, err)
	assert.False(t, status.CanDraw)
	assert.Zero(t, status.Remaining)
	assert.Equal(t, 2, status.TodayCount)
	require.NotNil(t, status.LastDrawTime)
	assert.True(t, res.DrawnAt.Equal(*status.LastDrawTime))

	f.clock.Set(f.clock.Now().AddDate(0, 0, 1))
	status, err = f.svc.Status(ctx, 1)
	require.NoError(t, err)
	assert.True(t, status.CanDraw)
	assert.Nil(t, status.LastDrawTime)
}

func TestHistory_RemovedDestination(t *testing.T) {
	f := newFixture(t, 1, model.Destination{ID: 1, Name: "A", Region: "Gangwon"})
	ctx := context.Background()

	_, err := f.svc.Draw(ctx, 1, catalog.Filter{})
	require.NoError(t, err)

	f.loader.mu.Lock()
	f.loader.records = []model.Destination{}
	f.loader.mu.Unlock()
	require.NoError(t, f.store.Reload(ctx))

	entries, total, err := f.svc.History(ctx, 1, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].Event.DestinationID)
	assert.Nil(t, entries[0].Destination)
}

func TestNewService_Defaults(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := NewService(nil, nil, nil, Config{}, log)
	assert.Equal(t, 1, svc.Limit())
	assert.Equal(t, time.UTC, svc.loc)
}
