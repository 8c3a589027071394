package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/inspect"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run a battery of consistency checks against the managed state",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

var (
	doctorOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	doctorWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	doctorFail = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

func runDoctor(cmd *cobra.Command, args []string) error {
	c, err := newContext()
	if err != nil {
		return err
	}
	reg, regErr := c.LoadRegistry()
	excl := newExcludeManager(c)

	results := inspect.NewDoctor().Run(c, reg, excl)
	if regErr != nil {
		fmt.Fprintf(os.Stderr, "registry: %v\n", regErr)
	}

	worst := inspect.OK
	for _, r := range results {
		fmt.Println(formatCheck(r))
		if severityRank(r.Severity) > severityRank(worst) {
			worst = r.Severity
		}
	}

	switch worst {
	case inspect.Fail:
		return fmt.Errorf("one or more checks failed")
	case inspect.Warn:
		return nil
	default:
		return nil
	}
}

func formatCheck(r inspect.CheckResult) string {
	var style lipgloss.Style
	var label string
	switch r.Severity {
	case inspect.OK:
		style, label = doctorOK, "ok"
	case inspect.Warn:
		style, label = doctorWarn, "warn"
	default:
		style, label = doctorFail, "fail"
	}
	line := fmt.Sprintf("%-28s %s", r.Name, style.Render(label))
	if r.Detail != "" {
		line += "  " + r.Detail
	}
	return line
}

func severityRank(s inspect.Severity) int {
	switch s {
	case inspect.Fail:
		return 2
	case inspect.Warn:
		return 1
	default:
		return 0
	}
}
