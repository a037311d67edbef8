package sim

import "errors"

var (
	// ErrStateSize flags a state vector whose length is not 2^numQubits.
	ErrStateSize = errors.New("sim: state vector has wrong size")

	// ErrStateNorm flags a state vector that is not normalized.
	ErrStateNorm = errors.New("sim: state vector is not normalized")

	// ErrBasisState flags an initial basis state outside [0, 2^numQubits).
	ErrBasisState = errors.New("sim: basis state out of range")

	// ErrDuplicateKey flags a circuit with two measurements sharing a key.
	ErrDuplicateKey = errors.New("sim: duplicate measurement key")

	// ErrNoMatrix flags an operation that is neither a measurement nor
	// reducible to known-matrix operations.
	ErrNoMatrix = errors.New("sim: operation without a known matrix")

	// ErrMissingQubit flags a circuit qubit absent from the configured
	// qubit order.
	ErrMissingQubit = errors.New("sim: circuit qubit missing from qubit order")
)
