package circuit

import "errors"

var (
	// ErrIndexOutOfRange covers bad insertion indices and bad ranges.
	// Indices are never silently clamped.
	ErrIndexOutOfRange = errors.New("circuit: index out of range")

	// ErrUnknownStrategy flags an unrecognized insert strategy. This is a
	// programming error, not something to recover from at runtime.
	ErrUnknownStrategy = errors.New("circuit: unknown insert strategy")

	// ErrNegativeDistance flags a negative max distance in a moment search.
	ErrNegativeDistance = errors.New("circuit: negative max distance")

	// ErrOverlappingOperations flags two operations sharing a qubit within
	// one moment.
	ErrOverlappingOperations = errors.New("circuit: operations overlap on a qubit")

	// ErrNoUnitary is reported during unitary extraction for an operation
	// with neither a matrix nor a decomposition into matrix-bearing parts.
	ErrNoUnitary = errors.New("circuit: operation without a known matrix or decomposition")

	// ErrNonTerminalMeasurement is reported during unitary extraction when
	// a measured qubit is touched by a later moment.
	ErrNonTerminalMeasurement = errors.New("circuit: non-terminal measurement")
)
