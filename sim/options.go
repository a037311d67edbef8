package sim

import (
	"fmt"
	"runtime"
)

// Options controls how the stepper partitions the state vector.
type Options struct {
	// NumShards is the number of state-vector partitions. Must be a
	// positive power of two.
	NumShards int

	// MinQubitsBeforeShard is the register size below which sharding is
	// skipped entirely. Must not be negative.
	MinQubitsBeforeShard int
}

// DefaultOptions shards across the largest power of two not exceeding the
// CPU count, and only bothers for registers of more than ten qubits.
func DefaultOptions() Options {
	shards := 1
	for shards*2 <= runtime.NumCPU() {
		shards *= 2
	}
	return Options{NumShards: shards, MinQubitsBeforeShard: 10}
}

// validate panics on malformed options. Bad options are a programming
// error, never silently corrected.
func (o Options) validate() {
	if o.NumShards <= 0 || o.NumShards&(o.NumShards-1) != 0 {
		panic(fmt.Sprintf("sim: NumShards must be a positive power of two, got %d", o.NumShards))
	}
	if o.MinQubitsBeforeShard < 0 {
		panic(fmt.Sprintf("sim: MinQubitsBeforeShard must not be negative, got %d", o.MinQubitsBeforeShard))
	}
}
