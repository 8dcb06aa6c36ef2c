// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/api2test/api2test/internal/agent"
	"github.com/api2test/api2test/internal/config"
)

var (
	watchDebounce int
	watchNoRun    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <app-file>",
	Short: "Watch the application and regenerate on change",
	Long: `Watch a FastAPI application file for changes and automatically regenerate
tests and documentation whenever it is modified.

This keeps the generated artifacts in sync with the application during
development. Rapid successive saves are coalesced with a debounce window.

Example:
  api2test watch main.py                  # Watch and regenerate
  api2test watch main.py --debounce 1000  # Wait 1s before regenerating
  api2test watch main.py --no-run         # Regenerate without executing tests`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds")
	watchCmd.Flags().BoolVar(&watchNoRun, "no-run", false, "skip executing the generated tests")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply command-line overrides
	if output != "" {
		cfg.Output = output
	}
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}
	if watchNoRun {
		cfg.Run = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appFile, err := resolveAppFile(args[0], cfg)
	if err != nil {
		return err
	}
	absFile, err := filepath.Abs(appFile)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", appFile, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the containing directory: editors replace files on save, which
	// drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(absFile)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absFile), err)
	}

	debounce := time.Duration(cfg.Watch.Debounce) * time.Millisecond

	printVerbose("Watch configuration:")
	printVerbose("  App file: %s", absFile)
	printVerbose("  Output: %s", cfg.Output)
	printVerbose("  Debounce: %s", debounce)

	a := agent.New(cfg)
	defer a.Close()

	opts := agent.Options{
		AppFile:   absFile,
		OutputDir: cfg.Output,
		Run:       cfg.Run,
		Logf:      printInfo,
	}

	regenerate := func() {
		result, err := a.Run(cmd.Context(), opts)
		if err != nil {
			printError("Regeneration failed: %v", err)
			return
		}
		if result.Outcomes != nil {
			printResults(result.Outcomes)
		}
		printInfo("Files saved to %s/", cfg.Output)
	}

	printInfo("Watching %s", absFile)
	printInfo("Press Ctrl+C to stop")

	// Initial generation before entering the loop
	regenerate()

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event, absFile) {
				continue
			}
			printVerbose("Change detected: %s", event)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			regenerate()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError("Watch error: %v", err)
		}
	}
}

// relevantEvent reports whether a filesystem event concerns the watched
// application file.
func relevantEvent(event fsnotify.Event, appFile string) bool {
	if event.Name != appFile {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
