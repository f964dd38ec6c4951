package gacha

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDailyLimitExceeded is matched by every *DailyLimitError.
	ErrDailyLimitExceeded = errors.New("daily draw limit exceeded")
	// ErrNoMatchingDestination means the filters left nothing to draw from.
	ErrNoMatchingDestination = errors.New("no destination matches the requested filters")
)

// DailyLimitError reports a refused draw and when the user may draw again.
type DailyLimitError struct {
	Limit           int
	Count           int
	NextAvailableAt time.Time
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily draw limit exceeded: %d of %d used, next draw at %s",
		e.Count, e.Limit, e.NextAvailableAt.Format(time.RFC3339))
}

func (e *DailyLimitError) Is(target error) bool {
	return target == ErrDailyLimitExceeded
}
