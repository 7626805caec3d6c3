package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"librarian/internal/report"
	"librarian/internal/tui"
	"librarian/internal/where"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively browse the last scan report",
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := report.Load(cfg.ReportPath)
		if err != nil {
			if errors.Is(err, report.ErrNotFound) {
				return fmt.Errorf("index not found, run 'librarian scan' first (expected: %s)", cfg.ReportPath)
			}
			return err
		}
		idx := where.New(rep)

		m := tui.New(idx, idx.Clusters())
		if _, err := tea.NewProgram(m).Run(); err != nil {
			return err
		}
		return nil
	},
}
