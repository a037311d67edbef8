package main

import "github.com/LiberoAphpollo/VQC-Cirq/ops"

// menuItem is a single gate choice in the picker.
type menuItem struct {
	name          string
	gate          ops.Gate
	qubitsNeeded  int
	needsExponent bool
	pow           func(e float64) ops.EigenGate
	isMeasure     bool
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// gateMenu defines the gate picker categories and items.
var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", gate: ops.H, qubitsNeeded: 1},
			{name: "Pauli-X (NOT)", gate: ops.X, qubitsNeeded: 1},
			{name: "Pauli-Y", gate: ops.Y, qubitsNeeded: 1},
			{name: "Pauli-Z", gate: ops.Z, qubitsNeeded: 1},
			{name: "Phase (S)", gate: ops.S, qubitsNeeded: 1},
			{name: "T", gate: ops.T, qubitsNeeded: 1},
		},
	},
	{
		name: "Powers",
		items: []menuItem{
			{name: "X^t", qubitsNeeded: 1, needsExponent: true, pow: ops.XPow},
			{name: "Y^t", qubitsNeeded: 1, needsExponent: true, pow: ops.YPow},
			{name: "Z^t", qubitsNeeded: 1, needsExponent: true, pow: ops.ZPow},
		},
	},
	{
		name: "Two Qubit",
		items: []menuItem{
			{name: "CZ", gate: ops.CZ, qubitsNeeded: 2},
			{name: "CNOT", gate: ops.CNOT, qubitsNeeded: 2},
			{name: "SWAP", gate: ops.SWAP, qubitsNeeded: 2},
		},
	},
	{
		name: "Measure",
		items: []menuItem{
			{name: "Measure qubit", qubitsNeeded: 1, isMeasure: true},
		},
	},
}
