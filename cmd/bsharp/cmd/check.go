package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/bsharp-lang/bsharp/internal/diagnostics"
	"github.com/bsharp-lang/bsharp/internal/parser"
	"github.com/bsharp-lang/bsharp/internal/source"
)

var watchFlag bool

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Strict-parse sources and report errors with carets",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&watchFlag, "watch", false, "re-check whenever a source file changes")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, files, err := loadProject(args)
	if err != nil {
		return err
	}

	if watchFlag {
		return watchAndCheck(files)
	}
	if n := checkFiles(files); n > 0 {
		return fmt.Errorf("%s", plural(n, "error"))
	}
	fmt.Printf("%s OK\n", plural(len(files), "file"))
	return nil
}

// checkFiles strict-parses each file and renders every failure with
// carets, returning the error count.
func checkFiles(files []string) int {
	renderer := diagnostics.NewRenderer(os.Stderr)
	errs := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			errs++
			continue
		}
		file := source.NewFile(path, string(data))
		if _, _, err := parser.ParseStrict(file.Content); err != nil {
			if d, ok := diagnostics.FromParseError(file, err); ok {
				renderer.Render(file, d)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			}
			errs++
		}
	}
	return errs
}

// watchAndCheck re-runs the check whenever one of the files is
// written. It blocks until the watcher fails.
func watchAndCheck(files []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		watched[filepath.Clean(f)] = true
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	checkFiles(files)
	log.Printf("watching %s", plural(len(files), "file"))
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Editors fire several events per save; let them settle.
			time.Sleep(50 * time.Millisecond)
			drainEvents(w)
			log.Printf("%s changed", ev.Name)
			checkFiles(files)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		}
	}
}

func drainEvents(w *fsnotify.Watcher) {
	for {
		select {
		case <-w.Events:
		default:
			return
		}
	}
}
