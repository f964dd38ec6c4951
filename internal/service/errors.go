package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"connectrpc.com/connect"

	"github.com/YJlang/gacha/internal/auth"
	"github.com/YJlang/gacha/internal/catalog"
	"github.com/YJlang/gacha/internal/collection"
	"github.com/YJlang/gacha/internal/gacha"
)

// Metadata keys attached to ResourceExhausted draw errors
const (
	NextDrawAtKey = "Next-Draw-At"
	RetryAfterKey = "Retry-After"
)

// toConnectError maps domain errors to connect codes
func toConnectError(err error) error {
	var limitErr *gacha.DailyLimitError
	switch {
	case errors.As(err, &limitErr):
		cerr := connect.NewError(connect.CodeResourceExhausted, err)
		retry := int64(math.Ceil(time.Until(limitErr.NextAvailableAt).Seconds()))
		cerr.Meta().Set(NextDrawAtKey, limitErr.NextAvailableAt.Format(time.RFC3339))
		cerr.Meta().Set(RetryAfterKey, strconv.FormatInt(max(retry, 0), 10))
		return cerr
	case errors.Is(err, catalog.ErrDatasetUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, gacha.ErrNoMatchingDestination),
		errors.Is(err, collection.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, collection.ErrAlreadyCollected):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// requireUser returns the authenticated caller or an Unauthenticated error
func requireUser(ctx context.Context) (int64, error) {
	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		return 0, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
