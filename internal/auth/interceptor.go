package auth

import (
	"context"
	"errors"

	"connectrpc.com/connect"
)

// NewInterceptor resolves the caller for every RPC. Procedures listed as public
// accept anonymous callers but still pick up a valid identity when one is sent.
func NewInterceptor(v *Verifier, public ...string) connect.UnaryInterceptorFunc {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			userID, err := v.ParseHeader(req.Header().Get("Authorization"))
			if err != nil {
				if open[req.Spec().Procedure] && errors.Is(err, ErrMissingToken) {
					return next(ctx, req)
				}
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(WithUserID(ctx, userID), req)
		}
	}
}
