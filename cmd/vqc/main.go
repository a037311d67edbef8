package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func main() {
	numQubits := flag.Int("qubits", 3, "number of qubits on the deck")
	seed := flag.Int64("seed", 0, "measurement sampling seed")
	reps := flag.Int("reps", 10, "repetitions for a full run")
	debugLog := flag.String("debug-log", "", "write debug logs to this file")
	flag.Parse()

	if *numQubits < 1 || *numQubits > 8 {
		fmt.Fprintln(os.Stderr, "vqc: -qubits must be between 1 and 8")
		os.Exit(1)
	}

	logger := log.New(io.Discard)
	if *debugLog != "" {
		f, err := os.Create(*debugLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vqc: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{Level: log.DebugLevel})
	}

	p := tea.NewProgram(initialModel(*numQubits, *seed, *reps, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "vqc: %v\n", err)
		os.Exit(1)
	}
}
