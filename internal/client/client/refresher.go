package client

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// RefreshFunc performs one token-refresh round trip and returns the new
// access token.
type RefreshFunc func(ctx context.Context) (string, error)

// Refresher serialises token refreshes. Share one Refresher between every
// HTTPClient of a session: however many requests hit a 401 together, a
// single refresh call is made and all of them get its result.
type Refresher struct {
	group singleflight.Group
}

func NewRefresher() *Refresher {
	return &Refresher{}
}

const refreshKey = "refresh"

// Refresh returns a fresh access token. stale is the token the failed
// request was sent with; if the store already holds a different one,
// another request has refreshed in the meantime and that token is reused
// without a new round trip.
func (r *Refresher) Refresh(ctx context.Context, tokens TokenStore, stale string, fn RefreshFunc) (string, error) {
	if current, err := tokens.AccessToken(ctx); err == nil && current != "" && current != stale {
		return current, nil
	}

	ch := r.group.DoChan(refreshKey, func() (any, error) {
		// The first caller's cancellation must not fail the waiters.
		fctx := context.WithoutCancel(ctx)
		// A flight that finished between the read above and this join has
		// already stored a new token.
		if current, err := tokens.AccessToken(fctx); err == nil && current != "" && current != stale {
			return current, nil
		}
		return fn(fctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
