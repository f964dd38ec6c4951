package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	calls int
	err   error
}

func (r *countingReloader) Reload(ctx context.Context) error {
	r.calls++
	return r.err
}

func TestScheduleReload(t *testing.T) {
	log, hook := test.NewNullLogger()
	zone := time.FixedZone("KST", 9*60*60)

	t.Run("invalid spec", func(t *testing.T) {
		_, err := ScheduleReload(&countingReloader{}, "not a cron spec", zone, time.Second, log)
		assert.Error(t, err)
	})

	t.Run("job reloads the catalog", func(t *testing.T) {
		reloader := &countingReloader{}
		c, err := ScheduleReload(reloader, "0 4 * * *", zone, time.Second, log)
		require.NoError(t, err)
		require.Len(t, c.Entries(), 1)

		c.Entries()[0].Job.Run()
		assert.Equal(t, 1, reloader.calls)
		assert.Equal(t, zone, c.Location())
	})

	t.Run("failed reload is logged", func(t *testing.T) {
		hook.Reset()
		reloader := &countingReloader{err: errors.New("s3 down")}
		c, err := ScheduleReload(reloader, "@daily", zone, time.Second, log)
		require.NoError(t, err)

		c.Entries()[0].Job.Run()
		require.NotNil(t, hook.LastEntry())
		assert.Contains(t, hook.LastEntry().Message, "reload failed")
	})
}
