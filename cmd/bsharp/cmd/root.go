package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bsharp-lang/bsharp/internal/config"
)

var (
	cfgPath    string
	strictFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "bsharp",
	Short: "B# front-end toolchain",
	Long: `bsharp parses B# source files and reports on them.

Commands:
  parse    - parse sources and dump the tree summary and span table
  check    - strict-parse sources and report errors with carets
  metrics  - per-function complexity report`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultFileName, "project configuration file")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "fail on the first parse error")
}

// loadProject loads the configuration and resolves the file set:
// explicit arguments win, otherwise the configured source globs.
func loadProject(args []string) (*config.Config, []string, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.CheckVersion(config.ToolVersion); err != nil {
		return nil, nil, err
	}
	files := args
	if len(files) == 0 {
		files, err = cfg.ExpandSources(".")
		if err != nil {
			return nil, nil, err
		}
	}
	if len(files) == 0 {
		return nil, nil, errors.New("no source files matched")
	}
	return cfg, files, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
