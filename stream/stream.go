// Package stream provides the small channel-pipeline primitives
// collection.Load's worker pool is built from: fan an index slice out to a
// channel, then fan the pool's results back in to a slice.
package stream

import (
	"context"
)

// Slice emits each element of in on the returned channel, in order,
// closing it once exhausted or ctx is cancelled. collection.Load uses this
// to hand out source indices to its worker goroutines: cancelling ctx
// mid-batch stops any index not yet dispatched from ever being sent, which
// is why Load must account for indices that never produced a buildResult
// rather than assuming every index in the batch was processed.
func Slice[T any](ctx context.Context, in []T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, element := range in {
			select {
			case <-ctx.Done():
				return
			case out <- element:
			}
		}
	}()
	return out
}

// Collect drains in into a slice, stopping early if ctx is cancelled.
// collection.Load calls this with a background context so it always
// drains every result the worker pool actually produced, even for a batch
// whose input ctx was cancelled mid-flight.
func Collect[T any](ctx context.Context, in <-chan T) []T {
	out := make([]T, 0)
	for element := range in {
		select {
		case <-ctx.Done():
			return out
		default:
			out = append(out, element)
		}
	}
	return out
}
