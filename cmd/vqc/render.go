package main

import (
	"fmt"
	"math/cmplx"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LiberoAphpollo/VQC-Cirq/circuit"
)

const probBarWidth = 24

// renderCircuit draws the circuit diagram with a cursor marker on the
// selected qubit's wire.
func (m Model) renderCircuit() string {
	diagram := m.circ.Diagram(circuit.DiagramOptions{
		UseUnicode:  true,
		ExtraQubits: m.qubits,
	})
	lines := strings.Split(diagram, "\n")
	for i := range lines {
		// Wire rows sit at every other line; spacer rows carry only
		// connectors.
		if i%2 == 0 && i/2 == m.cursorQubit {
			lines[i] = cursorStyle.Render("▸ ") + lines[i]
		} else {
			lines[i] = "  " + lines[i]
		}
	}
	progress := dimStyle.Render(fmt.Sprintf("moment %d of %d applied", m.stepIndex, m.circ.Len()))
	return circuitStyle.Render(strings.Join(lines, "\n") + "\n\n" + progress)
}

// renderState draws the amplitude table with probability bars.
func (m Model) renderState() string {
	if m.lastState == nil {
		return stateStyle.Render(dimStyle.Render("no state yet; space steps one moment"))
	}
	n := len(m.qubits)
	var b strings.Builder
	for i, amp := range m.lastState {
		prob := real(amp)*real(amp) + imag(amp)*imag(amp)
		label := qubitLabelStyle.Render(fmt.Sprintf("|%0*b⟩", n, i))
		bar := strings.Repeat("█", int(prob*probBarWidth+0.5))
		line := fmt.Sprintf("%s  %s  %s",
			label, formatAmplitude(amp), ampStyle.Render(bar))
		if cmplx.Abs(amp) < 1e-9 {
			line = dimStyle.Render(fmt.Sprintf("|%0*b⟩  %s", n, i, formatAmplitude(amp)))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(m.measured) > 0 {
		b.WriteByte('\n')
		for key, bits := range m.measured {
			b.WriteString(statusStyle.Render(fmt.Sprintf("%s = %s", key, bitString(bits))))
			b.WriteByte('\n')
		}
	}
	return stateStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func formatAmplitude(a complex128) string {
	return fmt.Sprintf("%6.3f%+.3fi", real(a), imag(a))
}

func bitString(bits []bool) string {
	out := make([]byte, len(bits))
	for i, b := range bits {
		out[i] = '0'
		if b {
			out[i] = '1'
		}
	}
	return string(out)
}

// renderMenu draws the gate picker overlay.
func (m Model) renderMenu() string {
	var tabs []string
	for i, cat := range gateMenu {
		if i == m.menuCat {
			tabs = append(tabs, menuSelectedStyle.Render("["+cat.name+"]"))
		} else {
			tabs = append(tabs, menuNormalStyle.Render(" "+cat.name+" "))
		}
	}
	var b strings.Builder
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")
	for i, item := range gateMenu[m.menuCat].items {
		line := "  " + item.name
		if i == m.menuItem {
			line = menuSelectedStyle.Render("▸ " + item.name)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\n" + dimStyle.Render("←/→ category  ↑/↓ item  enter place  esc cancel"))
	return menuBorderStyle.Render(b.String())
}

func (m Model) renderExponentPrompt() string {
	return menuBorderStyle.Render(fmt.Sprintf("%s exponent:\n\n%s\n\n%s",
		m.pending.name, m.expInput.View(),
		dimStyle.Render("enter confirm  esc cancel")))
}

func (m Model) renderTargetPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: control %v, pick target\n\n", m.pending.name, m.qubits[m.cursorQubit])
	for i, q := range m.qubits {
		switch i {
		case m.targetQubit:
			b.WriteString(menuSelectedStyle.Render(fmt.Sprintf("▸ %v", q)))
		case m.cursorQubit:
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %v (control)", q)))
		default:
			b.WriteString(menuNormalStyle.Render(fmt.Sprintf("  %v", q)))
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n" + dimStyle.Render("↑/↓ target  enter place  esc cancel"))
	return menuBorderStyle.Render(b.String())
}

func (m Model) renderControls() string {
	keys := []string{
		"↑/↓ qubit", "g gate menu", "m measure", "space step",
		"r rewind", "R run all", "x drop moment", "d dump", "q quit",
	}
	return controlsStyle.Render(dimStyle.Render(strings.Join(keys, "  ·  ")))
}

func (m Model) View() string {
	title := titleStyle.Render("vqc") + dimStyle.Render(
		fmt.Sprintf("  %d qubits · seed %d · %d reps", len(m.qubits), m.seed, m.reps))

	var overlay string
	switch m.focus {
	case focusMenu:
		overlay = m.renderMenu()
	case focusExponent:
		overlay = m.renderExponentPrompt()
	case focusSelectTarget:
		overlay = m.renderTargetPrompt()
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.renderCircuit(), " ", m.renderState())
	parts := []string{title, main}
	if overlay != "" {
		parts = append(parts, overlay)
	}
	if m.showDump && m.runSummary != "" {
		parts = append(parts, stateStyle.Render(strings.TrimRight(m.runSummary, "\n")))
	}
	parts = append(parts, m.renderControls())
	if m.statusMsg != "" {
		parts = append(parts, statusStyle.Render(m.statusMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
