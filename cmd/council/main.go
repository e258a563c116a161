// cmd/council/main.go
//
// This is the entry point for the council TUI.
// When you run `council` from any directory, this is what executes.
//
// Flow:
// 1. Initialize the .council folder in the working directory
// 2. Launch the three-screen deliberation TUI

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lyzr-Apps/llm-council-super-edge/internal/config"
	"github.com/Lyzr-Apps/llm-council-super-edge/internal/tui"
)

func main() {
	// The current working directory is the "project" we're working in
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitCouncilDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .council directory: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting council: %v\n", err)
		os.Exit(1)
	}

	// Run blocks until the user quits
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
