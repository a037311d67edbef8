package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/LiberoAphpollo/VQC-Cirq/ops"
)

// normTolerance bounds how far a state vector's norm may sit from one.
const normTolerance = 1e-6

// Stepper holds a 2^n state vector split into power-of-two shards and
// applies gates to it in place. Bit positions are little-endian: bit 0 is
// the least significant bit of a basis-state index.
type Stepper struct {
	numQubits    int
	prefixQubits int
	shardBits    int
	shards       [][]complex128
	rng          *rand.Rand
}

// NewStepper allocates a stepper for numQubits qubits in the all-zero
// basis state. Sharding kicks in once the register exceeds the configured
// threshold; the shard count never exceeds the register size. Sampling is
// deterministic under the given seed.
func NewStepper(numQubits int, seed int64, opts Options) *Stepper {
	opts.validate()
	if numQubits < 0 {
		panic(fmt.Sprintf("sim: negative qubit count %d", numQubits))
	}
	prefix := 0
	if numQubits > opts.MinQubitsBeforeShard {
		for 1<<(prefix+1) <= opts.NumShards && prefix < numQubits {
			prefix++
		}
	}
	s := &Stepper{
		numQubits:    numQubits,
		prefixQubits: prefix,
		shardBits:    numQubits - prefix,
		rng:          rand.New(rand.NewSource(seed)),
	}
	s.shards = make([][]complex128, 1<<prefix)
	for i := range s.shards {
		s.shards[i] = make([]complex128, 1<<s.shardBits)
	}
	s.shards[0][0] = 1
	return s
}

func (s *Stepper) NumQubits() int { return s.numQubits }

// NumShards reports how many partitions the state vector is split into.
func (s *Stepper) NumShards() int { return len(s.shards) }

func (s *Stepper) size() int { return 1 << s.numQubits }

func (s *Stepper) get(g int) complex128 {
	return s.shards[g>>s.shardBits][g&(1<<s.shardBits-1)]
}

func (s *Stepper) set(g int, v complex128) {
	s.shards[g>>s.shardBits][g&(1<<s.shardBits-1)] = v
}

// State returns a flattened copy of the full state vector.
func (s *Stepper) State() []complex128 {
	out := make([]complex128, 0, s.size())
	for _, shard := range s.shards {
		out = append(out, shard...)
	}
	return out
}

// ResetToBasis collapses the register to a single computational basis state.
func (s *Stepper) ResetToBasis(basis int) error {
	if basis < 0 || basis >= s.size() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrBasisState, basis, s.size())
	}
	for _, shard := range s.shards {
		clear(shard)
	}
	s.set(basis, 1)
	return nil
}

// SetState overwrites the register with an explicit vector, which must
// have length 2^numQubits and unit norm.
func (s *Stepper) SetState(state []complex128) error {
	if len(state) != s.size() {
		return fmt.Errorf("%w: got %d, want %d", ErrStateSize, len(state), s.size())
	}
	norm := 0.0
	for _, a := range state {
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	if math.Abs(math.Sqrt(norm)-1) > normTolerance {
		return fmt.Errorf("%w: norm %v", ErrStateNorm, math.Sqrt(norm))
	}
	for i, shard := range s.shards {
		copy(shard, state[i<<s.shardBits:])
	}
	return nil
}

// ApplyMatrix applies a k-qubit gate matrix at the given bit positions,
// where bits[0] carries the most significant bit of the gate's own basis
// index. Diagonal matrices and gates confined to a shard take fast paths;
// anything touching prefix bits falls back to a whole-register pass.
func (s *Stepper) ApplyMatrix(m *ops.Matrix, bits []int) {
	k := m.NumQubits()
	if len(bits) != k {
		panic(fmt.Sprintf("sim: %d bit positions for a %d-qubit matrix", len(bits), k))
	}
	seen := 0
	for _, b := range bits {
		if b < 0 || b >= s.numQubits || seen&(1<<b) != 0 {
			panic(fmt.Sprintf("sim: bad bit positions %v for %d qubits", bits, s.numQubits))
		}
		seen |= 1 << b
	}

	if diag, ok := diagonalOf(m); ok {
		s.applyDiagonal(diag, bits)
		return
	}
	inShard := true
	for _, b := range bits {
		if b >= s.shardBits {
			inShard = false
			break
		}
	}
	if inShard {
		var wg sync.WaitGroup
		for _, shard := range s.shards {
			wg.Add(1)
			go func(amps []complex128) {
				defer wg.Done()
				applyToSlice(amps, m, bits)
			}(shard)
		}
		wg.Wait()
		return
	}
	s.applyAcrossShards(m, bits)
}

// applyToSlice is the in-shard kernel: every target bit indexes within
// the slice.
func applyToSlice(amps []complex128, m *ops.Matrix, bits []int) {
	k := len(bits)
	mask := 0
	for _, b := range bits {
		mask |= 1 << b
	}
	sub := make([]complex128, 1<<k)
	if k == 1 {
		// Pair update without the gather buffer.
		bit := 1 << bits[0]
		m00, m01 := m.At(0, 0), m.At(0, 1)
		m10, m11 := m.At(1, 0), m.At(1, 1)
		for g := range amps {
			if g&bit != 0 {
				continue
			}
			a0, a1 := amps[g], amps[g|bit]
			amps[g] = m00*a0 + m01*a1
			amps[g|bit] = m10*a0 + m11*a1
		}
		return
	}
	for g := range amps {
		if g&mask != 0 {
			continue
		}
		for c := range sub {
			sub[c] = amps[g|scatterBits(c, bits)]
		}
		for r := range sub {
			acc := complex(0, 0)
			for c := range sub {
				acc += m.At(r, c) * sub[c]
			}
			amps[g|scatterBits(r, bits)] = acc
		}
	}
}

// applyAcrossShards handles gates touching prefix bits with a single
// sequential pass over global indices.
func (s *Stepper) applyAcrossShards(m *ops.Matrix, bits []int) {
	k := len(bits)
	mask := 0
	for _, b := range bits {
		mask |= 1 << b
	}
	sub := make([]complex128, 1<<k)
	for g := range s.size() {
		if g&mask != 0 {
			continue
		}
		for c := range sub {
			sub[c] = s.get(g | scatterBits(c, bits))
		}
		for r := range sub {
			acc := complex(0, 0)
			for c := range sub {
				acc += m.At(r, c) * sub[c]
			}
			s.set(g|scatterBits(r, bits), acc)
		}
	}
}

// applyDiagonal multiplies each amplitude by the phase selected by its
// target bits. Diagonal gates never move amplitudes between shards.
func (s *Stepper) applyDiagonal(diag []complex128, bits []int) {
	var wg sync.WaitGroup
	for i, shard := range s.shards {
		wg.Add(1)
		go func(hi int, amps []complex128) {
			defer wg.Done()
			for off := range amps {
				g := hi | off
				amps[off] *= diag[gatherBits(g, bits)]
			}
		}(i<<s.shardBits, shard)
	}
	wg.Wait()
}

// SimulateMeasurement samples the given bit, collapses the state to the
// observed outcome, and renormalizes.
func (s *Stepper) SimulateMeasurement(bit int) bool {
	mask := 1 << bit
	prob := 0.0
	for i, shard := range s.shards {
		hi := i << s.shardBits
		for off, a := range shard {
			if (hi|off)&mask != 0 {
				prob += real(a)*real(a) + imag(a)*imag(a)
			}
		}
	}
	outcome := s.rng.Float64() < prob
	keep := prob
	if !outcome {
		keep = 1 - prob
	}
	scale := complex(1/math.Sqrt(keep), 0)
	for i, shard := range s.shards {
		hi := i << s.shardBits
		for off := range shard {
			if ((hi|off)&mask != 0) == outcome {
				shard[off] *= scale
			} else {
				shard[off] = 0
			}
		}
	}
	return outcome
}

func diagonalOf(m *ops.Matrix) ([]complex128, bool) {
	diag := make([]complex128, m.Dim)
	for r := range m.Dim {
		for c := range m.Dim {
			if r != c && m.At(r, c) != 0 {
				return nil, false
			}
		}
		diag[r] = m.At(r, r)
	}
	return diag, true
}

// scatterBits spreads a k-bit sub-index over the given bit positions,
// bits[0] being the sub-index's most significant bit.
func scatterBits(sub int, bits []int) int {
	k := len(bits)
	out := 0
	for j, b := range bits {
		if sub&(1<<(k-1-j)) != 0 {
			out |= 1 << b
		}
	}
	return out
}

// gatherBits is the inverse of scatterBits.
func gatherBits(g int, bits []int) int {
	k := len(bits)
	out := 0
	for j, b := range bits {
		if g&(1<<b) != 0 {
			out |= 1 << (k - 1 - j)
		}
	}
	return out
}
