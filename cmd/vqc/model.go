package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"

	"github.com/LiberoAphpollo/VQC-Cirq/circuit"
	"github.com/LiberoAphpollo/VQC-Cirq/ops"
	"github.com/LiberoAphpollo/VQC-Cirq/result"
	"github.com/LiberoAphpollo/VQC-Cirq/sim"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusMenu
	focusExponent
	focusSelectTarget
)

// Model is the TUI application state: a circuit under construction plus a
// forward-only simulation walk over it.
type Model struct {
	logger *log.Logger
	sim    *sim.Simulator

	qubits []ops.Qubit
	circ   *circuit.Circuit

	cursorQubit int
	focus       focus
	width       int
	height      int
	statusMsg   string

	// Menu state
	menuCat  int
	menuItem int

	// Pending-placement state (exponent entry, second-qubit pick)
	pending     menuItem
	expInput    textinput.Model
	targetQubit int

	// Simulation state
	seed       int64
	reps       int
	steps      *sim.Steps
	stepIndex  int
	lastState  []complex128
	measured   map[string][]bool
	showDump   bool
	runSummary string
}

func initialModel(numQubits int, seed int64, reps int, logger *log.Logger) Model {
	in := textinput.New()
	in.Placeholder = "0.5"
	in.CharLimit = 12
	in.Width = 12

	qubits := make([]ops.Qubit, numQubits)
	for i := range qubits {
		qubits[i] = ops.LineQubit(i)
	}

	return Model{
		logger:   logger,
		sim:      &sim.Simulator{Options: sim.DefaultOptions(), Logger: logger},
		qubits:   qubits,
		circ:     circuit.New(),
		expInput: in,
		seed:     seed,
		reps:     reps,
		measured: make(map[string][]bool),
	}
}

// resetRun throws away the current walk. Any circuit edit invalidates it.
func (m *Model) resetRun() {
	m.steps = nil
	m.stepIndex = 0
	m.lastState = nil
	m.measured = make(map[string][]bool)
}

// placeOperation appends an operation, packing it as early as the circuit
// allows.
func (m *Model) placeOperation(op ops.Operation) {
	if err := m.circ.Append(circuit.StrategyEarliest, op); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.logger.Debug("placed operation", "op", op.String())
	m.statusMsg = fmt.Sprintf("placed %v", op)
	m.resetRun()
}

// commitPending finishes a menu selection once its inputs are collected.
func (m *Model) commitPending() {
	item := m.pending
	m.pending = menuItem{}
	m.focus = focusCircuit

	switch {
	case item.isMeasure:
		q := m.qubits[m.cursorQubit]
		m.placeOperation(ops.Measure(fmt.Sprintf("q%d", m.cursorQubit), q))
	case item.needsExponent:
		e, err := strconv.ParseFloat(m.expInput.Value(), 64)
		if err != nil {
			m.statusMsg = fmt.Sprintf("bad exponent %q", m.expInput.Value())
			return
		}
		m.placeOperation(item.pow(e).On(m.qubits[m.cursorQubit]))
	case item.qubitsNeeded == 2:
		if m.targetQubit == m.cursorQubit {
			m.statusMsg = "control and target must differ"
			return
		}
		m.placeOperation(ops.On(item.gate, m.qubits[m.cursorQubit], m.qubits[m.targetQubit]))
	default:
		m.placeOperation(ops.On(item.gate, m.qubits[m.cursorQubit]))
	}
}

// stepOnce advances the simulation by one moment, starting a walk if none
// is in flight.
func (m *Model) stepOnce() {
	if m.circ.Len() == 0 {
		m.statusMsg = "circuit is empty"
		return
	}
	if m.steps == nil {
		steps, err := m.sim.MomentSteps(context.Background(), m.circ, sim.RunConfig{
			Qubits: m.qubits,
			Seed:   m.seed,
		})
		if err != nil {
			m.statusMsg = err.Error()
			return
		}
		m.steps = steps
		m.stepIndex = 0
	}
	if !m.steps.Next() {
		if err := m.steps.Err(); err != nil {
			m.statusMsg = err.Error()
			m.resetRun()
			return
		}
		m.statusMsg = "end of circuit (r rewinds)"
		return
	}
	step := m.steps.Step()
	m.stepIndex++
	m.lastState = step.State()
	for key, bits := range step.Measurements {
		m.measured[key] = bits
	}
	m.statusMsg = fmt.Sprintf("applied moment %d/%d", m.stepIndex, m.circ.Len())
}

// runAll executes the whole circuit with repetitions and keeps a verbose
// dump of the packed results.
func (m *Model) runAll() {
	if m.circ.Len() == 0 {
		m.statusMsg = "circuit is empty"
		return
	}
	trial, err := m.sim.Run(context.Background(), m.circ, sim.RunConfig{
		Qubits:      m.qubits,
		Seed:        m.seed,
		Repetitions: m.reps,
	})
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.lastState = trial.FinalStates[len(trial.FinalStates)-1]
	m.runSummary = spew.Sdump(result.Pack([]*sim.TrialResult{trial}))
	m.showDump = true
	m.statusMsg = fmt.Sprintf("ran %d repetitions", trial.Repetitions)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < len(m.qubits)-1 {
					m.cursorQubit++
				}
			case "g", "enter":
				m.focus = focusMenu
			case "m":
				m.pending = menuItem{isMeasure: true, qubitsNeeded: 1}
				m.commitPending()
			case " ", "n":
				m.stepOnce()
			case "r":
				m.resetRun()
				m.statusMsg = "rewound"
			case "R":
				m.runAll()
			case "d":
				m.showDump = !m.showDump
			case "x":
				if n := m.circ.Len(); n > 0 {
					m.circ.DeleteRange(n-1, n)
					m.resetRun()
					m.statusMsg = "dropped last moment"
				}
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "left", "h":
				m.menuCat = (m.menuCat + len(gateMenu) - 1) % len(gateMenu)
				m.menuItem = 0
			case "right", "l":
				m.menuCat = (m.menuCat + 1) % len(gateMenu)
				m.menuItem = 0
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(gateMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				m.pending = item
				switch {
				case item.needsExponent:
					m.expInput.SetValue("")
					m.expInput.Focus()
					m.focus = focusExponent
				case item.qubitsNeeded == 2:
					m.targetQubit = (m.cursorQubit + 1) % len(m.qubits)
					m.focus = focusSelectTarget
				default:
					m.commitPending()
				}
			}

		case focusExponent:
			switch key {
			case "esc":
				m.expInput.Blur()
				m.focus = focusCircuit
			case "enter":
				m.expInput.Blur()
				m.commitPending()
			default:
				var cmd tea.Cmd
				m.expInput, cmd = m.expInput.Update(msg)
				return m, cmd
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				m.targetQubit = (m.targetQubit + len(m.qubits) - 1) % len(m.qubits)
			case "down", "j":
				m.targetQubit = (m.targetQubit + 1) % len(m.qubits)
			case "enter":
				m.commitPending()
			}
		}
	}

	return m, nil
}
