package circuit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LiberoAphpollo/VQC-Cirq/ext"
	"github.com/LiberoAphpollo/VQC-Cirq/ops"
	"github.com/LiberoAphpollo/VQC-Cirq/param"
)

// DiagramOptions tunes text diagram output.
type DiagramOptions struct {
	UseUnicode bool

	// Precision is the number of significant digits used for float
	// exponents. Zero selects the default of 3; negative means full
	// precision.
	Precision int

	// Transpose flips the diagram so qubits run across the top and time
	// flows downward.
	Transpose bool

	// ExtraQubits adds wires for qubits the circuit never touches.
	ExtraQubits []ops.Qubit

	// Ext supplies casts for gates that expose wire symbols only through
	// a registered wrapper. May be nil.
	Ext *ext.Extensions
}

// Diagram renders the circuit as a wire diagram, one row per qubit and one
// column per moment. Operations in a moment that span overlapping rows are
// pushed into extra columns.
func (c *Circuit) Diagram(opts DiagramOptions) string {
	prec := opts.Precision
	if prec == 0 {
		prec = 3
	}
	qubits := c.qubitsPlus(opts.ExtraQubits)
	rowOf := make(map[ops.Qubit]int, len(qubits))
	for i, q := range qubits {
		rowOf[q] = i
	}

	d := NewTextDiagramDrawer()
	for i, q := range qubits {
		if opts.Transpose {
			d.Write(0, i, q.String())
		} else {
			d.Write(0, i, q.String()+": ")
		}
	}
	for _, m := range c.moments {
		drawMoment(d, m, rowOf, prec, opts)
	}
	w := d.Width()
	for i := range qubits {
		d.HorizontalLine(i, 0, w)
	}

	if opts.Transpose {
		return d.Transpose().Render(RenderOptions{UseUnicode: opts.UseUnicode, ColumnGap: 1, RowGap: 1})
	}
	return d.Render(RenderOptions{UseUnicode: opts.UseUnicode, ColumnGap: 3, RowGap: 1})
}

func drawMoment(d *TextDiagramDrawer, m Moment, rowOf map[ops.Qubit]int, prec int, opts DiagramOptions) {
	x0 := d.Width()
	for _, op := range m.operations {
		y1, y2 := rowOf[op.Qubits[0]], rowOf[op.Qubits[0]]
		for _, q := range op.Qubits[1:] {
			y1 = min(y1, rowOf[q])
			y2 = max(y2, rowOf[q])
		}

		// Leftmost column, at or after the moment's start, whose rows
		// are all free.
		x := x0
		for columnBusy(d, x, y1, y2) {
			x++
		}

		if y2 > y1 {
			d.VerticalLine(x, y1, y2)
		}
		info := operationDiagramInfo(op, prec, opts)
		for j, q := range op.Qubits {
			d.Write(x, rowOf[q], info.WireSymbols[j])
		}
		if e := exponentString(info.Exponent, prec); e != "" {
			d.Write(x, y2, "^"+e)
		}
	}
}

func columnBusy(d *TextDiagramDrawer, x, y1, y2 int) bool {
	for y := y1; y <= y2; y++ {
		if d.ContentPresent(x, y) {
			return true
		}
	}
	return false
}

func operationDiagramInfo(op ops.Operation, prec int, opts DiagramOptions) ops.DiagramInfo {
	if t, ok := ext.TryCast[ops.TextDiagrammable](opts.Ext, op.Gate); ok {
		info := t.DiagramInfo(ops.DiagramArgs{
			KnownQubits: op.Qubits,
			UseUnicode:  opts.UseUnicode,
			Precision:   prec,
		})
		if len(info.WireSymbols) == len(op.Qubits) {
			return info
		}
	}
	symbols := make([]string, len(op.Qubits))
	symbols[0] = op.Gate.String()
	for i := 1; i < len(symbols); i++ {
		symbols[i] = fmt.Sprintf("#%d", i+1)
	}
	return ops.DiagramInfo{WireSymbols: symbols, Exponent: param.Lit(1)}
}

// exponentString formats an exponent annotation, or returns "" when the
// exponent is exactly one. Symbolic exponents that would read ambiguously
// next to a caret get parenthesized.
func exponentString(v param.Value, prec int) string {
	if f, ok := v.Float(); ok {
		if f == 1 {
			return ""
		}
		return formatExponentFloat(f, prec)
	}
	s := v.String()
	if strings.Contains(s, "+") || strings.Contains(s, " ") || strings.Contains(s[1:], "-") {
		return "(" + s + ")"
	}
	return s
}

func formatExponentFloat(f float64, prec int) string {
	if prec < 0 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', prec, 64)
}
