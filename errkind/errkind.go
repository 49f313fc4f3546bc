// Package errkind names the error kinds the core surfaces to collaborators,
// per spec section 7: every error is attributed to an offending input
// index and never aborts sibling work in a batch.
package errkind

import (
	"errors"
	"strconv"
)

// Kind classifies why one input in a load batch failed.
type Kind int

const (
	// KindParseError is a collaborator-reported failure to decode a
	// source, re-surfaced with its source index.
	KindParseError Kind = iota
	// KindEmptyRoute is fewer than two valid samples.
	KindEmptyRoute
	// KindInvalidCoordinate is a non-finite coordinate, or one that is
	// degenerate after latitude-band clamping.
	KindInvalidCoordinate
	// KindCancelled is a load terminated by the caller's cancellation
	// signal before this item was processed.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindParseError:
		return "ParseError"
	case KindEmptyRoute:
		return "EmptyRoute"
	case KindInvalidCoordinate:
		return "InvalidCoordinate"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

var (
	ErrEmptyRoute        = errors.New("route has fewer than two valid samples")
	ErrInvalidCoordinate = errors.New("coordinate is non-finite or degenerate after clamping")
	ErrCancelled         = errors.New("load cancelled")
)

// LoadError attributes a failure to one item of a load batch. It wraps the
// underlying error so errors.Is/errors.As still see it.
type LoadError struct {
	Index int
	Kind  Kind
	Err   error
}

func (e *LoadError) Error() string {
	return e.Kind.String() + " at index " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Classify maps an error returned by route construction (or the load
// loop itself) to the Kind a caller should see. Errors not recognized as
// one of the sentinel route-construction failures are reported as
// ParseError, since they originate upstream of route.New.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrEmptyRoute):
		return KindEmptyRoute
	case errors.Is(err, ErrInvalidCoordinate):
		return KindInvalidCoordinate
	case errors.Is(err, ErrCancelled):
		return KindCancelled
	default:
		return KindParseError
	}
}
