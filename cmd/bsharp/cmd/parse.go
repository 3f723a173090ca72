package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/diagnostics"
	"github.com/bsharp-lang/bsharp/internal/parser"
	"github.com/bsharp-lang/bsharp/internal/source"
)

var noSpans bool

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse sources and dump the tree summary and span table",
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&noSpans, "no-spans", false, "suppress the span table dump")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, files, err := loadProject(args)
	if err != nil {
		return err
	}
	renderer := diagnostics.NewRenderer(os.Stderr)

	failed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		file := source.NewFile(path, string(data))

		var unit *ast.CompilationUnit
		var spans parser.SpanTable
		if cfg.Strict || strictFlag {
			unit, spans, err = parser.ParseStrict(file.Content)
		} else {
			unit, spans, err = parser.Parse(file.Content)
		}
		if err != nil {
			if d, ok := diagnostics.FromParseError(file, err); ok {
				renderer.Render(file, d)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			}
			failed++
			continue
		}

		syms := analysis.Symbols(unit)
		fmt.Printf("%s: %s, %s, %s\n", path,
			plural(len(unit.Declarations), "declaration"),
			plural(len(unit.TopLevelStatements), "top-level statement"),
			plural(len(syms), "symbol"))
		if !noSpans {
			for _, key := range spans.Keys() {
				r, _ := spans.Lookup(key)
				fmt.Printf("  %-50s %s\n", key, r)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%s failed to parse", plural(failed, "file"))
	}
	return nil
}
