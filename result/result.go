// Package result holds a serialization-friendly form of simulation
// outcomes: measurement records bit-packed per qubit, grouped by parameter
// assignment and sweep, with JSON tags throughout.
package result

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/LiberoAphpollo/VQC-Cirq/param"
	"github.com/LiberoAphpollo/VQC-Cirq/sim"
)

// ParameterDict maps parameter keys to their assigned values.
type ParameterDict map[string]float64

// QubitMeasurementResult carries one qubit's outcomes across all
// repetitions, bit-packed with bit i%8 of byte i/8 holding repetition i.
type QubitMeasurementResult struct {
	Qubit   string `json:"qubit"`
	Results []byte `json:"results"`
}

// MeasurementResult groups the per-qubit records of one measurement key.
type MeasurementResult struct {
	Key          string                   `json:"key"`
	Instances    int                      `json:"instances"`
	QubitResults []QubitMeasurementResult `json:"qubit_results"`
}

// ParameterizedResult is the outcome of running under one parameter
// assignment.
type ParameterizedResult struct {
	Params             ParameterDict       `json:"params,omitempty"`
	MeasurementResults []MeasurementResult `json:"measurement_results"`
}

// SweepResult is the outcome of one sweep: a shared repetition count and
// one entry per parameter assignment.
type SweepResult struct {
	Repetitions          int                   `json:"repetitions"`
	ParameterizedResults []ParameterizedResult `json:"parameterized_results"`
}

// Result is the top-level container.
type Result struct {
	SweepResults []SweepResult `json:"sweep_results"`
}

// PackBits packs booleans into bytes, bit i%8 of byte i/8 holding bit i.
func PackBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}

// UnpackBits reverses PackBits for a known bit count.
func UnpackBits(data []byte, n int) ([]bool, error) {
	if len(data) != (n+7)/8 {
		return nil, fmt.Errorf("%w: %d bytes for %d bits", ErrMalformed, len(data), n)
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = data[i/8]&(1<<(i%8)) != 0
	}
	return out, nil
}

// Pack converts the trial results of one sweep into a Result. Trials are
// expected to share a repetition count; measurement keys are emitted in
// sorted order.
func Pack(trials []*sim.TrialResult) *Result {
	sweep := SweepResult{}
	if len(trials) > 0 {
		sweep.Repetitions = trials[0].Repetitions
	}
	for _, trial := range trials {
		pr := ParameterizedResult{}
		if trial.Params != nil && len(trial.Params.Assignments) > 0 {
			pr.Params = ParameterDict{}
			for k, v := range trial.Params.Assignments {
				pr.Params[k] = v
			}
		}
		keys := make([]string, 0, len(trial.Measurements))
		for key := range trial.Measurements {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			records := trial.Measurements[key]
			mr := MeasurementResult{Key: key, Instances: len(records)}
			numQubits := 0
			if len(records) > 0 {
				numQubits = len(records[0])
			}
			for j := range numQubits {
				bits := make([]bool, len(records))
				for r, record := range records {
					bits[r] = record[j]
				}
				mr.QubitResults = append(mr.QubitResults, QubitMeasurementResult{
					Qubit:   qubitLabel(trial, key, j),
					Results: PackBits(bits),
				})
			}
			pr.MeasurementResults = append(pr.MeasurementResults, mr)
		}
		sweep.ParameterizedResults = append(sweep.ParameterizedResults, pr)
	}
	return &Result{SweepResults: []SweepResult{sweep}}
}

func qubitLabel(trial *sim.TrialResult, key string, j int) string {
	if qs := trial.MeasuredQubits[key]; j < len(qs) {
		return qs[j].String()
	}
	return strconv.Itoa(j)
}

// Unpack converts a Result back into trial results. Qubit identities only
// survive as labels, so MeasuredQubits is left empty; state vectors are not
// part of the serialized form.
func Unpack(r *Result) ([]*sim.TrialResult, error) {
	var out []*sim.TrialResult
	for _, sweep := range r.SweepResults {
		for _, pr := range sweep.ParameterizedResults {
			trial := &sim.TrialResult{
				Repetitions:  sweep.Repetitions,
				Measurements: make(map[string][][]bool),
			}
			if pr.Params != nil {
				trial.Params = param.NewResolver(pr.Params)
			}
			for _, mr := range pr.MeasurementResults {
				records := make([][]bool, mr.Instances)
				for i := range records {
					records[i] = make([]bool, len(mr.QubitResults))
				}
				for j, qr := range mr.QubitResults {
					bits, err := UnpackBits(qr.Results, mr.Instances)
					if err != nil {
						return nil, fmt.Errorf("key %q qubit %q: %w", mr.Key, qr.Qubit, err)
					}
					for i, b := range bits {
						records[i][j] = b
					}
				}
				trial.Measurements[mr.Key] = records
			}
			out = append(out, trial)
		}
	}
	return out, nil
}
