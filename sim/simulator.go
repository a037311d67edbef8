package sim

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/LiberoAphpollo/VQC-Cirq/circuit"
	"github.com/LiberoAphpollo/VQC-Cirq/ext"
	"github.com/LiberoAphpollo/VQC-Cirq/ops"
	"github.com/LiberoAphpollo/VQC-Cirq/param"
)

// Simulator runs circuits against a sharded state-vector stepper.
type Simulator struct {
	Options Options

	// Logger, when set, traces moment application at debug level. The
	// simulator is silent without it.
	Logger *log.Logger
}

// New returns a simulator with the given stepper options.
func New(opts Options) *Simulator {
	opts.validate()
	return &Simulator{Options: opts}
}

// RunConfig describes a single simulation setup.
type RunConfig struct {
	// Qubits fixes the qubit ordering: Qubits[0] owns the most
	// significant bit of basis-state indices. Nil means the circuit's
	// qubits in sorted order.
	Qubits []ops.Qubit

	// Params resolves symbolic gate exponents. May be nil.
	Params *param.Resolver

	// Repetitions is how many times the circuit is replayed. Zero means
	// one.
	Repetitions int

	// InitialBasis selects the starting computational basis state.
	// Ignored when InitialState is set.
	InitialBasis int

	// InitialState, when non-nil, is the explicit starting vector.
	InitialState []complex128

	// Seed makes sampling deterministic. Each repetition derives its own
	// stream from it.
	Seed int64

	// Ext supplies casts for gates whose matrix or decomposition is
	// registered rather than built in. May be nil.
	Ext *ext.Extensions
}

// TrialResult collects the outcomes of the repetitions of one run.
type TrialResult struct {
	// Params is the resolver the run was executed under.
	Params *param.Resolver

	Repetitions int

	// Measurements maps each measurement key to one boolean record per
	// repetition, one bit per measured qubit in operation order.
	Measurements map[string][][]bool

	// MeasuredQubits maps each measurement key to the qubits it measured.
	MeasuredQubits map[string][]ops.Qubit

	// FinalStates holds the state vector at the end of each repetition.
	FinalStates [][]complex128
}

// Run executes the circuit and gathers measurement records and final
// states across repetitions.
func (s *Simulator) Run(ctx context.Context, c *circuit.Circuit, cfg RunConfig) (*TrialResult, error) {
	reps := max(cfg.Repetitions, 1)
	result := &TrialResult{
		Params:         cfg.Params,
		Repetitions:    reps,
		Measurements:   make(map[string][][]bool),
		MeasuredQubits: make(map[string][]ops.Qubit),
		FinalStates:    make([][]complex128, 0, reps),
	}
	for op := range c.AllOperations() {
		if g, ok := op.Gate.(*ops.MeasurementGate); ok {
			if _, dup := result.MeasuredQubits[g.Key]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, g.Key)
			}
			result.MeasuredQubits[g.Key] = op.Qubits
		}
	}

	for rep := range reps {
		repCfg := cfg
		repCfg.Seed = cfg.Seed + int64(rep)
		steps, err := s.MomentSteps(ctx, c, repCfg)
		if err != nil {
			return nil, err
		}
		collected := make(map[string][]bool)
		for steps.Next() {
			// Keys are unique across the circuit (checked above), so each
			// key shows up in at most one step and never clobbers.
			for key, bits := range steps.Step().Measurements {
				collected[key] = bits
			}
		}
		if err := steps.Err(); err != nil {
			return nil, err
		}
		for key, bits := range collected {
			result.Measurements[key] = append(result.Measurements[key], bits)
		}
		result.FinalStates = append(result.FinalStates, steps.stepper.State())
	}
	return result, nil
}

// RunSweep executes the circuit once per resolver produced by the sweep.
func (s *Simulator) RunSweep(ctx context.Context, c *circuit.Circuit, sweep param.Sweep, cfg RunConfig) ([]*TrialResult, error) {
	var out []*TrialResult
	for _, r := range sweep.Resolvers() {
		runCfg := cfg
		runCfg.Params = r
		tr, err := s.Run(ctx, c, runCfg)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}

// MomentSteps prepares a forward-only walk over the circuit's moments.
// Each Next advances the stepper by one moment; the walk cannot be
// restarted.
func (s *Simulator) MomentSteps(ctx context.Context, c *circuit.Circuit, cfg RunConfig) (*Steps, error) {
	qubits := cfg.Qubits
	if qubits == nil {
		qubits = c.AllQubits()
	}
	bitOf := make(map[ops.Qubit]int, len(qubits))
	for i, q := range qubits {
		bitOf[q] = len(qubits) - 1 - i
	}
	for _, q := range c.AllQubits() {
		if _, ok := bitOf[q]; !ok {
			return nil, fmt.Errorf("%w: %v", ErrMissingQubit, q)
		}
	}

	stepper := NewStepper(len(qubits), cfg.Seed, s.Options)
	if cfg.InitialState != nil {
		if err := stepper.SetState(cfg.InitialState); err != nil {
			return nil, err
		}
	} else if err := stepper.ResetToBasis(cfg.InitialBasis); err != nil {
		return nil, err
	}

	return &Steps{
		ctx:     ctx,
		sim:     s,
		cfg:     cfg,
		moments: c.Moments(),
		bitOf:   bitOf,
		stepper: stepper,
	}, nil
}

// Steps iterates moment by moment, bufio.Scanner style.
type Steps struct {
	ctx     context.Context
	sim     *Simulator
	cfg     RunConfig
	moments []circuit.Moment
	bitOf   map[ops.Qubit]int
	stepper *Stepper
	index   int
	current *StepResult
	err     error
}

// Next applies the next moment. It reports false once the circuit is
// exhausted or an error occurred.
func (st *Steps) Next() bool {
	if st.err != nil || st.index >= len(st.moments) {
		return false
	}
	if err := st.ctx.Err(); err != nil {
		st.err = err
		return false
	}
	m := st.moments[st.index]
	if st.sim.Logger != nil {
		st.sim.Logger.Debug("applying moment", "index", st.index, "operations", m.Len())
	}
	measured := make(map[string][]bool)
	for _, op := range m.Operations() {
		if err := st.applyOperation(op, measured); err != nil {
			st.err = err
			return false
		}
	}
	st.current = &StepResult{stepper: st.stepper, MomentIndex: st.index, Measurements: measured}
	st.index++
	return true
}

// Step returns the result of the most recent Next.
func (st *Steps) Step() *StepResult { return st.current }

// Err reports the error that stopped the walk, if any.
func (st *Steps) Err() error { return st.err }

func (st *Steps) applyOperation(op ops.Operation, measured map[string][]bool) error {
	if g, ok := op.Gate.(*ops.MeasurementGate); ok {
		bits := make([]bool, len(op.Qubits))
		for i, q := range op.Qubits {
			bits[i] = st.stepper.SimulateMeasurement(st.bitOf[q])
			if i < len(g.InvertMask) && g.InvertMask[i] {
				bits[i] = !bits[i]
			}
		}
		measured[g.Key] = bits
		return nil
	}

	gate := op.Gate
	if p, ok := ext.TryCast[ops.Parameterized](st.cfg.Ext, gate); ok && p.IsParameterized() {
		if st.cfg.Params == nil {
			return fmt.Errorf("%w: %v is parameterized", ErrNoMatrix, op)
		}
		resolved, err := p.ResolveParameters(st.cfg.Params)
		if err != nil {
			return err
		}
		gate = resolved
	}
	if known, ok := ext.TryCast[ops.KnownMatrix](st.cfg.Ext, gate); ok {
		if m, ok := known.Matrix(); ok {
			bits := make([]int, len(op.Qubits))
			for i, q := range op.Qubits {
				bits[i] = st.bitOf[q]
			}
			st.stepper.ApplyMatrix(m, bits)
			return nil
		}
	}
	if comp, ok := ext.TryCast[ops.Composite](st.cfg.Ext, gate); ok {
		for _, sub := range comp.Decompose(op.Qubits) {
			if err := st.applyOperation(sub, measured); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrNoMatrix, op)
}

// StepResult is a view over the stepper after one moment.
type StepResult struct {
	stepper *Stepper

	MomentIndex int

	// Measurements holds this moment's outcomes keyed by measurement key.
	Measurements map[string][]bool
}

// State materializes a copy of the state vector.
func (r *StepResult) State() []complex128 { return r.stepper.State() }

// SetState overwrites the simulator state mid-walk. The vector must have
// the register's size and unit norm.
func (r *StepResult) SetState(state []complex128) error {
	return r.stepper.SetState(state)
}
