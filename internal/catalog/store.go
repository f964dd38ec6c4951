package catalog

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/YJlang/gacha/internal/metrics"
	"github.com/YJlang/gacha/internal/model"
)

// cacheKey is the single cache entry; the catalog is never cached per query.
const cacheKey = "destinations:all"

// DatasetLoader produces a full destination set.
type DatasetLoader interface {
	Load(ctx context.Context) ([]model.Destination, error)
}

// Filter narrows the catalog. Empty fields match everything.
type Filter struct {
	Region  string
	Program string
}

// snapshot is one immutable load generation plus its derived indexes.
type snapshot struct {
	records []model.Destination
	// regions holds distinct region values in first-seen order
	regions []string
	// regionRows maps a region value to record positions in load order
	regionRows map[string][]int
	loadedAt   time.Time
}

func newSnapshot(records []model.Destination) *snapshot {
	snap := &snapshot{
		records:    records,
		regionRows: make(map[string][]int),
		loadedAt:   time.Now(),
	}
	for i, r := range records {
		if _, seen := snap.regionRows[r.Region]; !seen {
			snap.regions = append(snap.regions, r.Region)
		}
		snap.regionRows[r.Region] = append(snap.regionRows[r.Region], i)
	}
	return snap
}

// byID relies on ids being dense and 1-based within a generation.
func (s *snapshot) byID(id int64) (model.Destination, bool) {
	if id < 1 || id > int64(len(s.records)) {
		return model.Destination{}, false
	}
	rec := s.records[id-1]
	if rec.ID != id {
		return model.Destination{}, false
	}
	return rec, true
}

func (s *snapshot) filter(f Filter) []model.Destination {
	var candidates []int
	if f.Region == "" {
		candidates = make([]int, len(s.records))
		for i := range s.records {
			candidates[i] = i
		}
	} else {
		for _, region := range s.regions {
			if strings.Contains(region, f.Region) {
				candidates = append(candidates, s.regionRows[region]...)
			}
		}
		sort.Ints(candidates)
	}

	out := make([]model.Destination, 0, len(candidates))
	for _, i := range candidates {
		rec := s.records[i]
		if f.Program != "" && !strings.Contains(rec.ProgramName, f.Program) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Store serves the destination catalog from an in-memory snapshot.
// The snapshot is swapped atomically on reload and never mutated in place.
type Store struct {
	loader DatasetLoader
	log    logrus.FieldLogger
	intn   func(n int) int

	current atomic.Pointer[snapshot]
	group   singleflight.Group
}

// NewStore creates a Store. Nothing is loaded until first access.
func NewStore(loader DatasetLoader, log logrus.FieldLogger) *Store {
	return &Store{
		loader: loader,
		log:    log,
		intn:   rand.IntN,
	}
}

// All returns the full catalog in load order. The returned slice is shared
// and must not be modified.
func (s *Store) All(ctx context.Context) ([]model.Destination, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.records, nil
}

// Filtered returns the destinations matching both substring filters, in load order.
func (s *Store) Filtered(ctx context.Context, f Filter) ([]model.Destination, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.filter(f), nil
}

// Page returns one slice of the filtered set and the size of the whole filtered set.
// An offset past the end yields an empty slice, not an error.
func (s *Store) Page(ctx context.Context, f Filter, offset, limit int) ([]model.Destination, int, error) {
	filtered, err := s.Filtered(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	total := len(filtered)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= total {
		return []model.Destination{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

// ByID returns the destination with the given id or ErrNotFound.
func (s *Store) ByID(ctx context.Context, id int64) (model.Destination, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return model.Destination{}, err
	}
	rec, ok := snap.byID(id)
	if !ok {
		return model.Destination{}, ErrNotFound
	}
	return rec, nil
}

// RandomFiltered picks a destination uniformly from the filtered set,
// or returns ErrNoneAvailable when nothing matches.
func (s *Store) RandomFiltered(ctx context.Context, f Filter) (model.Destination, error) {
	filtered, err := s.Filtered(ctx, f)
	if err != nil {
		return model.Destination{}, err
	}
	if len(filtered) == 0 {
		s.log.WithFields(logrus.Fields{
			"region":  f.Region,
			"program": f.Program,
		}).Warn("No destinations available for filter")
		return model.Destination{}, ErrNoneAvailable
	}

	selected := filtered[s.intn(len(filtered))]
	s.log.WithFields(logrus.Fields{
		"destination_id": selected.ID,
		"name":           selected.Name,
	}).Debug("Random destination selected")
	return selected, nil
}

// Regions returns the distinct regions in first-seen order.
func (s *Store) Regions(ctx context.Context) ([]string, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(snap.regions))
	for _, r := range snap.regions {
		if r != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

// Reload builds a new snapshot and swaps it in. Readers keep seeing the old
// snapshot until the swap; on failure the old snapshot stays in place.
func (s *Store) Reload(ctx context.Context) error {
	_, err, _ := s.group.Do(cacheKey+":reload", func() (interface{}, error) {
		return s.load(ctx)
	})
	return err
}

// Invalidate drops the current snapshot so the next access loads again.
func (s *Store) Invalidate() {
	s.current.Store(nil)
}

// LoadedAt reports when the active snapshot was built, zero if none.
func (s *Store) LoadedAt() time.Time {
	if snap := s.current.Load(); snap != nil {
		return snap.loadedAt
	}
	return time.Time{}
}

func (s *Store) snapshot(ctx context.Context) (*snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}

	// Concurrent first callers share one load
	v, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		if snap := s.current.Load(); snap != nil {
			return snap, nil
		}
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

func (s *Store) load(ctx context.Context) (*snapshot, error) {
	// The load is shared, so one caller's cancellation must not fail the others
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	records, err := s.loader.Load(ctx)
	metrics.RecordCatalogLoad(err, len(records), time.Since(start).Seconds())
	if err != nil {
		s.log.WithError(err).Error("Failed to load catalog")
		return nil, err
	}

	snap := newSnapshot(records)
	s.current.Store(snap)
	return snap, nil
}
