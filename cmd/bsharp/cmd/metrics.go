package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/parser"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics [files...]",
	Short: "Per-function complexity report",
	RunE:  runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	_, files, err := loadProject(args)
	if err != nil {
		return err
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		unit, _, err := parser.Parse(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		ms := analysis.Metrics(unit)
		if len(ms) == 0 {
			continue
		}
		fmt.Printf("%s:\n", path)
		for _, m := range ms {
			name := m.Symbol.FQN()
			if name == "" {
				name = m.Symbol.Key
			}
			fmt.Printf("  %-40s cyclomatic=%-3d statements=%-4d branches=%-3d abc=%.1f (A%d B%d C%d)\n",
				name, m.Cyclomatic, m.Statements, m.Branches,
				m.ABC.Magnitude(), m.ABC.Assignments, m.ABC.Branches, m.ABC.Conditions)
		}
	}
	return nil
}
