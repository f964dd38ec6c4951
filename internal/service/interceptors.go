package service

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the request id on responses and errors
const RequestIDHeader = "X-Request-Id"

// NewLoggingInterceptor logs every RPC with its code and duration
func NewLoggingInterceptor(log logrus.FieldLogger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			requestID := req.Header().Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			res, err := next(ctx, req)

			fields := logrus.Fields{
				"request_id": requestID,
				"procedure":  req.Spec().Procedure,
				"peer":       req.Peer().Addr,
				"duration":   time.Since(start).String(),
			}
			entry := log.WithFields(fields)
			if err != nil {
				code := connect.CodeOf(err)
				entry = entry.WithField("code", code.String())
				var cerr *connect.Error
				if errors.As(err, &cerr) {
					cerr.Meta().Set(RequestIDHeader, requestID)
				}
				if code == connect.CodeInternal || code == connect.CodeUnknown {
					entry.WithError(err).Error("RPC failed")
				} else {
					entry.WithError(err).Info("RPC rejected")
				}
				return nil, err
			}

			res.Header().Set(RequestIDHeader, requestID)
			entry.WithField("code", "ok").Debug("RPC completed")
			return res, nil
		}
	}
}

// NewRateLimitInterceptor rejects RPCs beyond the limiter's rate with Unavailable,
// leaving ResourceExhausted to the daily draw limit.
func NewRateLimitInterceptor(limiter *rate.Limiter) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !limiter.Allow() {
				return nil, connect.NewError(connect.CodeUnavailable, errors.New("rate limit exceeded"))
			}
			return next(ctx, req)
		}
	}
}
