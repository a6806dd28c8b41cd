package fetch

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// FlightGroup wraps singleflight to collapse concurrent fetches for the
// same query key into one upstream request.
type FlightGroup struct {
	group singleflight.Group
}

// NewFlightGroup creates a new flight group
func NewFlightGroup() *FlightGroup {
	return &FlightGroup{}
}

// Do executes fn once per in-flight key. The shared flag reports whether
// this caller waited on another caller's execution instead of running fn.
func (g *FlightGroup) Do(ctx context.Context, key string, fn func() (interface{}, error)) (interface{}, error, bool) {
	result, err, shared := g.group.Do(key, func() (interface{}, error) {
		// Check context before executing
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		return fn()
	})

	return result, err, shared
}

// Forget removes a key from the group, allowing new requests to execute
func (g *FlightGroup) Forget(key string) {
	g.group.Forget(key)
}
