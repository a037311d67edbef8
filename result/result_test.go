package result

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiberoAphpollo/VQC-Cirq/ops"
	"github.com/LiberoAphpollo/VQC-Cirq/param"
	"github.com/LiberoAphpollo/VQC-Cirq/sim"
)

func TestPackBits(t *testing.T) {
	cases := []struct {
		bits []bool
		want []byte
	}{
		{nil, []byte{}},
		{[]bool{true}, []byte{0x01}},
		{[]bool{false, true, false, true}, []byte{0x0A}},
		{[]bool{true, false, true, true, false, false, false, false, true}, []byte{0x0D, 0x01}},
	}
	for _, tc := range cases {
		got := PackBits(tc.bits)
		assert.Equal(t, tc.want, got, "PackBits(%v)", tc.bits)

		back, err := UnpackBits(got, len(tc.bits))
		require.NoError(t, err)
		if len(tc.bits) > 0 {
			assert.Equal(t, tc.bits, back)
		}
	}
}

func TestUnpackBitsSizeMismatch(t *testing.T) {
	_, err := UnpackBits([]byte{0x00}, 9)
	assert.True(t, errors.Is(err, ErrMalformed), "err = %v", err)
}

func sampleTrial() *sim.TrialResult {
	return &sim.TrialResult{
		Params:      param.NewResolver(map[string]float64{"t": 0.5}),
		Repetitions: 3,
		Measurements: map[string][][]bool{
			"out": {
				{true, false},
				{false, false},
				{true, true},
			},
		},
		MeasuredQubits: map[string][]ops.Qubit{
			"out": {ops.LineQubit(0), ops.LineQubit(1)},
		},
	}
}

func TestPackLayout(t *testing.T) {
	r := Pack([]*sim.TrialResult{sampleTrial()})
	require.Len(t, r.SweepResults, 1)
	sweep := r.SweepResults[0]
	assert.Equal(t, 3, sweep.Repetitions)
	require.Len(t, sweep.ParameterizedResults, 1)

	pr := sweep.ParameterizedResults[0]
	assert.Equal(t, ParameterDict{"t": 0.5}, pr.Params)
	require.Len(t, pr.MeasurementResults, 1)

	mr := pr.MeasurementResults[0]
	assert.Equal(t, "out", mr.Key)
	assert.Equal(t, 3, mr.Instances)
	require.Len(t, mr.QubitResults, 2)

	// Repetition i lands in bit i: qubit 0 saw 1,0,1 and qubit 1 saw 0,0,1.
	assert.Equal(t, ops.LineQubit(0).String(), mr.QubitResults[0].Qubit)
	assert.Equal(t, []byte{0x05}, mr.QubitResults[0].Results)
	assert.Equal(t, ops.LineQubit(1).String(), mr.QubitResults[1].Qubit)
	assert.Equal(t, []byte{0x04}, mr.QubitResults[1].Results)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	orig := sampleTrial()
	trials, err := Unpack(Pack([]*sim.TrialResult{orig}))
	require.NoError(t, err)
	require.Len(t, trials, 1)

	got := trials[0]
	assert.Equal(t, orig.Repetitions, got.Repetitions)
	assert.Equal(t, orig.Measurements, got.Measurements)

	v, err := got.Params.Value(param.Sym("t"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestResultJSONRoundTrip(t *testing.T) {
	r := Pack([]*sim.TrialResult{sampleTrial()})
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sweep_results"`)
	assert.Contains(t, string(data), `"key":"out"`)

	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, &back)
}

func TestUnpackRejectsTruncatedRecords(t *testing.T) {
	r := Pack([]*sim.TrialResult{sampleTrial()})
	r.SweepResults[0].ParameterizedResults[0].MeasurementResults[0].QubitResults[0].Results = nil
	_, err := Unpack(r)
	assert.True(t, errors.Is(err, ErrMalformed), "err = %v", err)
}
