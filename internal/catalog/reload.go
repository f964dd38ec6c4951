package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Reloader is implemented by Store.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ScheduleReload registers a periodic catalog reload. The schedule is evaluated
// in loc so "0 4 * * *" means 04:00 in the reference zone. The caller starts and
// stops the returned scheduler.
func ScheduleReload(r Reloader, spec string, loc *time.Location, timeout time.Duration, log logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		if err := r.Reload(ctx); err != nil {
			log.WithError(err).Error("Scheduled catalog reload failed, keeping previous snapshot")
			return
		}
		log.WithField("duration", time.Since(start).String()).Info("Scheduled catalog reload finished")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}
	return c, nil
}
