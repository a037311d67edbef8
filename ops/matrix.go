package ops

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// Matrix is a small square complex matrix, stored row-major. It is the
// currency for gate unitaries and eigenspace projectors; sizes are always
// powers of two (2 for one qubit, 4 for two, ...).
type Matrix struct {
	Dim  int
	Data []complex128
}

// NewMatrix returns a zeroed dim x dim matrix.
func NewMatrix(dim int) *Matrix {
	return &Matrix{Dim: dim, Data: make([]complex128, dim*dim)}
}

// MatrixFromRows builds a matrix from explicit rows. All rows must have the
// same length as the number of rows.
func MatrixFromRows(rows ...[]complex128) *Matrix {
	m := NewMatrix(len(rows))
	for i, row := range rows {
		if len(row) != m.Dim {
			panic(fmt.Sprintf("matrix row %d has %d entries, want %d", i, len(row), m.Dim))
		}
		copy(m.Data[i*m.Dim:], row)
	}
	return m
}

// Identity returns the dim x dim identity matrix.
func Identity(dim int) *Matrix {
	m := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		m.Data[i*dim+i] = 1
	}
	return m
}

func (m *Matrix) At(i, j int) complex128 {
	return m.Data[i*m.Dim+j]
}

func (m *Matrix) Set(i, j int, v complex128) {
	m.Data[i*m.Dim+j] = v
}

func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.Dim)
	copy(out.Data, m.Data)
	return out
}

// Mul returns the matrix product m * other.
func (m *Matrix) Mul(other *Matrix) *Matrix {
	if m.Dim != other.Dim {
		panic(fmt.Sprintf("matrix product of mismatched dims %d and %d", m.Dim, other.Dim))
	}
	out := NewMatrix(m.Dim)
	for i := 0; i < m.Dim; i++ {
		for j := 0; j < m.Dim; j++ {
			var sum complex128
			for k := 0; k < m.Dim; k++ {
				sum += m.At(i, k) * other.At(k, j)
			}
			out.Set(i, j, sum)
		}
	}
	return out
}

// AddScaled accumulates s * other into m in place.
func (m *Matrix) AddScaled(s complex128, other *Matrix) *Matrix {
	for i := range m.Data {
		m.Data[i] += s * other.Data[i]
	}
	return m
}

// ApproxEqual reports whether every entry of m is within tol of other.
func (m *Matrix) ApproxEqual(other *Matrix, tol float64) bool {
	if m.Dim != other.Dim {
		return false
	}
	for i := range m.Data {
		if cmplx.Abs(m.Data[i]-other.Data[i]) > tol {
			return false
		}
	}
	return true
}

// NumQubits returns the number of qubits this matrix acts on.
func (m *Matrix) NumQubits() int {
	n := 0
	for d := m.Dim; d > 1; d >>= 1 {
		n++
	}
	return n
}

func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.Dim; i++ {
		sb.WriteString("[")
		for j := 0; j < m.Dim; j++ {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%v", m.At(i, j))
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// expITheta returns exp(i * pi * halfTurns).
func expITheta(halfTurns float64) complex128 {
	return cmplx.Exp(complex(0, math.Pi*halfTurns))
}
