package collection

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YJlang/gacha/internal/catalog"
	"github.com/YJlang/gacha/internal/model"
)

type mapCatalog map[int64]model.Destination

func (m mapCatalog) ByID(ctx context.Context, id int64) (model.Destination, error) {
	d, ok := m[id]
	if !ok {
		return model.Destination{}, catalog.ErrNotFound
	}
	return d, nil
}

func newTestService(c mapCatalog) (*Service, *MemoryStore) {
	log, _ := test.NewNullLogger()
	store := NewMemoryStore()
	svc := NewService(store, c, log)

	tick := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return svc, store
}

func sampleCatalog() mapCatalog {
	return mapCatalog{
		1: {ID: 1, Name: "A", Region: "Gangwon"},
		2: {ID: 2, Name: "B", Region: "Jeolla"},
		3: {ID: 3, Name: "C", Region: "Gangwon"},
	}
}

func TestService_Add(t *testing.T) {
	svc, _ := newTestService(sampleCatalog())
	ctx := context.Background()

	entry, err := svc.Add(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "B", entry.Destination.Name)
	assert.Equal(t, int64(1), entry.Collection.UserID)

	_, err = svc.Add(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrAlreadyCollected)

	_, err = svc.Add(ctx, 2, 2)
	assert.NoError(t, err, "uniqueness is per user")

	_, err = svc.Add(ctx, 1, 99)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	collected, err := svc.IsCollected(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, collected)
	collected, err = svc.IsCollected(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, collected)
}

func TestService_ListNewestFirst(t *testing.T) {
	svc, _ := newTestService(sampleCatalog())
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		_, err := svc.Add(ctx, 1, id)
		require.NoError(t, err)
	}

	entries, total, err := svc.List(ctx, 1, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "C", entries[0].Destination.Name)
	assert.Equal(t, "B", entries[1].Destination.Name)

	entries, total, err = svc.List(ctx, 1, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, entries)
}

func TestService_SkipsRemovedDestinations(t *testing.T) {
	c := sampleCatalog()
	svc, _ := newTestService(c)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		_, err := svc.Add(ctx, 1, id)
		require.NoError(t, err)
	}
	delete(c, 3)

	entries, total, err := svc.List(ctx, 1, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, entries, 2)

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalCount)
	assert.Equal(t, map[string]int64{"Gangwon": 1, "Jeolla": 1}, stats.RegionStats)
}

func TestService_Remove(t *testing.T) {
	svc, _ := newTestService(sampleCatalog())
	ctx := context.Background()

	entry, err := svc.Add(ctx, 1, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, 2, entry.Collection.ID), ErrNotFound, "only the owner may remove")
	require.NoError(t, svc.Remove(ctx, 1, entry.Collection.ID))
	assert.ErrorIs(t, svc.Remove(ctx, 1, entry.Collection.ID), ErrNotFound)

	_, err = svc.Add(ctx, 1, 1)
	assert.NoError(t, err, "a removed destination can be collected again")
}

func TestService_StatsEmpty(t *testing.T) {
	svc, _ := newTestService(sampleCatalog())

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalCount)
	assert.Empty(t, stats.RegionStats)
}
