// Package hvgerr defines the error taxonomy shared by every layer of the
// pathfinder: geometry, spatial indexing, the visibility oracle, graph
// construction, and the planner all classify failures into one of the
// Kinds below rather than inventing per-package sentinel errors.
package hvgerr

import "fmt"

// Kind classifies an error into one of the taxonomy buckets from the
// design's error handling section. Callers use errors.As to recover a
// *Error and inspect its Kind rather than comparing error strings.
type Kind int

const (
	// Internal indicates an invariant was violated; should never surface
	// to an embedding application unless there is a bug.
	Internal Kind = iota
	// InvalidGeometry indicates a degenerate ring, mismatched datum, or
	// NaN coordinate.
	InvalidGeometry
	// InvalidArgument indicates a nil input or an out-of-range parameter.
	InvalidArgument
	// OutOfRange indicates a segment-sampling distance outside [0, length].
	OutOfRange
	// NoPath indicates a query completed but no route exists.
	NoPath
	// Cancelled indicates a cancel token (context) fired mid-query.
	Cancelled
	// IO indicates a cache or stream read/write failure.
	IO
	// Incompatible indicates an adjacency cache does not match the current
	// polygon set.
	Incompatible
)

func (k Kind) String() string {
	switch k {
	case InvalidGeometry:
		return "InvalidGeometry"
	case InvalidArgument:
		return "InvalidArgument"
	case OutOfRange:
		return "OutOfRange"
	case NoPath:
		return "NoPath"
	case Cancelled:
		return "Cancelled"
	case IO:
		return "IO"
	case Incompatible:
		return "Incompatible"
	default:
		return "Internal"
	}
}

// Error is the concrete error type returned across package boundaries.
type Error struct {
	Kind Kind
	Op   string // short operation name, e.g. "quadtree.Insert"
	Err  error  // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error with no wrapped cause.
func New(op string, kind Kind) *Error {
	return &Error{Op: op, Kind: kind}
}

// Wrap constructs an *Error wrapping err under the given op/kind.
func Wrap(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
