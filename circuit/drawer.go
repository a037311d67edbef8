package circuit

import (
	"strings"
)

type gridPoint struct{ x, y int }

type gridSegment struct{ fixed, from, to int }

// TextDiagramDrawer accumulates cell text plus horizontal and vertical
// line segments on an integer grid, then renders them into aligned rows
// of text.
type TextDiagramDrawer struct {
	entries map[gridPoint]string
	hlines  []gridSegment // fixed=y, spans columns [from, to]
	vlines  []gridSegment // fixed=x, spans rows [from, to]
}

// NewTextDiagramDrawer returns an empty drawer.
func NewTextDiagramDrawer() *TextDiagramDrawer {
	return &TextDiagramDrawer{entries: make(map[gridPoint]string)}
}

// Write appends text to the cell at (x, y).
func (d *TextDiagramDrawer) Write(x, y int, text string) {
	p := gridPoint{x, y}
	d.entries[p] += text
}

// ContentPresent reports whether the cell at (x, y) has text.
func (d *TextDiagramDrawer) ContentPresent(x, y int) bool {
	return d.entries[gridPoint{x, y}] != ""
}

// HorizontalLine adds a wire along row y spanning columns [x1, x2].
func (d *TextDiagramDrawer) HorizontalLine(y, x1, x2 int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	d.hlines = append(d.hlines, gridSegment{fixed: y, from: x1, to: x2})
}

// VerticalLine adds a connector along column x spanning rows [y1, y2].
func (d *TextDiagramDrawer) VerticalLine(x, y1, y2 int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	d.vlines = append(d.vlines, gridSegment{fixed: x, from: y1, to: y2})
}

// Width reports one past the largest column in use.
func (d *TextDiagramDrawer) Width() int {
	w := 0
	for p := range d.entries {
		w = max(w, p.x+1)
	}
	for _, l := range d.hlines {
		w = max(w, l.to+1)
	}
	for _, l := range d.vlines {
		w = max(w, l.fixed+1)
	}
	return w
}

// Height reports one past the largest row in use.
func (d *TextDiagramDrawer) Height() int {
	h := 0
	for p := range d.entries {
		h = max(h, p.y+1)
	}
	for _, l := range d.hlines {
		h = max(h, l.fixed+1)
	}
	for _, l := range d.vlines {
		h = max(h, l.to+1)
	}
	return h
}

// Transpose returns a mirror of the drawer with rows and columns swapped.
func (d *TextDiagramDrawer) Transpose() *TextDiagramDrawer {
	t := NewTextDiagramDrawer()
	for p, text := range d.entries {
		t.entries[gridPoint{p.y, p.x}] = text
	}
	for _, l := range d.hlines {
		t.vlines = append(t.vlines, l)
	}
	for _, l := range d.vlines {
		t.hlines = append(t.hlines, l)
	}
	return t
}

func (d *TextDiagramDrawer) hlineThrough(x, y int) bool {
	for _, l := range d.hlines {
		if l.fixed == y && l.from <= x && x <= l.to {
			return true
		}
	}
	return false
}

func (d *TextDiagramDrawer) hlineAcrossGap(x, y int) bool {
	for _, l := range d.hlines {
		if l.fixed == y && l.from <= x && x+1 <= l.to {
			return true
		}
	}
	return false
}

func (d *TextDiagramDrawer) vlineThrough(x, y int) bool {
	for _, l := range d.vlines {
		if l.fixed == x && l.from <= y && y <= l.to {
			return true
		}
	}
	return false
}

func (d *TextDiagramDrawer) vlineAcrossGap(x, y int) bool {
	for _, l := range d.vlines {
		if l.fixed == x && l.from <= y && y+1 <= l.to {
			return true
		}
	}
	return false
}

// RenderOptions controls character choice and spacing.
type RenderOptions struct {
	UseUnicode bool
	// ColumnGap is the number of fill characters between adjacent columns.
	ColumnGap int
	// RowGap is the number of spacer rows between adjacent rows.
	RowGap int
}

// Render lays the grid out as text. Entries are left aligned within their
// column; horizontal wires fill gaps and padding; vertical connectors sit
// at the first character of their column.
func (d *TextDiagramDrawer) Render(opts RenderOptions) string {
	hchar, vchar, cross := "-", "|", "+"
	if opts.UseUnicode {
		hchar, vchar, cross = "─", "│", "┼"
	}

	w, h := d.Width(), d.Height()
	colWidth := make([]int, w)
	for p, text := range d.entries {
		colWidth[p.x] = max(colWidth[p.x], runeLen(text))
	}
	for x := range colWidth {
		colWidth[x] = max(colWidth[x], 1)
	}

	var out strings.Builder
	for y := range h {
		var row strings.Builder
		for x := range w {
			text := d.entries[gridPoint{x, y}]
			hHere := d.hlineThrough(x, y)
			vHere := d.vlineThrough(x, y)
			if text == "" {
				switch {
				case hHere && vHere:
					text = cross
				case hHere:
					text = strings.Repeat(hchar, colWidth[x])
				case vHere:
					text = vchar
				}
			}
			pad := " "
			if hHere {
				pad = hchar
			}
			row.WriteString(text)
			if n := colWidth[x] - runeLen(text); n > 0 {
				row.WriteString(strings.Repeat(pad, n))
			}
			if x+1 < w {
				gap := " "
				if d.hlineAcrossGap(x, y) {
					gap = hchar
				}
				row.WriteString(strings.Repeat(gap, opts.ColumnGap))
			}
		}
		out.WriteString(strings.TrimRight(row.String(), " "))
		out.WriteString("\n")

		if y+1 >= h {
			continue
		}
		for range opts.RowGap {
			var spacer strings.Builder
			pos, written := 0, 0
			for x := range w {
				if d.vlineAcrossGap(x, y) {
					spacer.WriteString(strings.Repeat(" ", pos-written))
					spacer.WriteString(vchar)
					written = pos + 1
				}
				pos += colWidth[x]
				if x+1 < w {
					pos += opts.ColumnGap
				}
			}
			out.WriteString(spacer.String())
			out.WriteString("\n")
		}
	}
	return strings.TrimRight(out.String(), "\n")
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
