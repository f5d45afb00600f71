package analysis

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/logger"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

type WatchCmd struct {
	AnalyzeCmd `embed:""`

	Debounce time.Duration `help:"Quiet period before re-running after a change." default:"200ms"`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyze := func() {
		ctx.Printf("\n%s %s\n\n", cli.Title("Analyzing"), cli.Muted(ctx.Today().Format("15:04:05")))
		if err := c.AnalyzeCmd.Run(ctx); err != nil {
			// keep watching; the next save may fix the file
			logger.Warn("Analysis failed", "path", c.File, "error", err)
			ctx.Printf("Error: %v\n", err)
		}
	}

	analyze()
	ctx.Println(cli.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)...", c.File)))
	return Watch(sigCtx, c.File, c.Debounce, analyze)
}

// Watch calls onChange after path is written, created or replaced, once
// the debounce period passes without further events. The parent directory
// is watched so editors that save by renaming are followed. It returns nil
// when ctx is cancelled.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	// Armed only by matching events
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Task file changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case <-timer.C:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", "error", err)
		}
	}
}
