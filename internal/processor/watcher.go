package processor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nowwaveradio/datetime-normalizer/internal/errorutil"
)

// Watcher monitors an input directory for changed files using fsnotify.
// Rapid event bursts for the same file (editors, partial writes) are
// debounced before the file is reported.
type Watcher struct {
	Dir     string
	Changes <-chan string // Read-only external channel

	changes  chan string // Internal write channel
	done     chan struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a new watcher for the given input directory
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	ch := make(chan string, 16)
	w := &Watcher{
		Dir:      dir,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
		debounce: debounce,
	}
	return w, nil
}

// Start begins watching the input directory for changes
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track last event time per file.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				// Drain pending on close.
				for file := range pending {
					w.changes <- file
				}
				return
			}

			if !w.isInputFile(event.Name) {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending[event.Name] = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= w.debounce {
					w.changes <- file
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func (w *Watcher) isInputFile(name string) bool {
	base := filepath.Base(name)
	// Ignore hidden files and common editor temp files.
	if strings.HasPrefix(base, ".") {
		return false
	}
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, ".swp") {
		return false
	}
	return true
}

// Watch processes files in the input directory as they change until the
// context is cancelled. Only changed files whose base name matches the glob
// pattern are processed; an empty pattern matches everything.
func (p *Processor) Watch(ctx context.Context, pattern string, opts Options) error {
	debounce := time.Duration(p.config.Processing.WatchDebounceMS) * time.Millisecond

	watcher, err := NewWatcher(p.resolver.GetBaseDir(), debounce)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("watching %s: %w", watcher.Dir, err)
	}
	defer watcher.Stop()

	p.logger.Info("Watch mode started",
		slog.String("directory", watcher.Dir),
		slog.String("pattern", pattern),
		slog.Duration("debounce", debounce))

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n\n", watcher.Dir)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Watch mode stopped")
			return ctx.Err()

		case file, ok := <-watcher.Changes:
			if !ok {
				return nil
			}

			if pattern != "" {
				matched, err := filepath.Match(pattern, filepath.Base(file))
				if err != nil {
					return fmt.Errorf("invalid watch pattern %s: %w", pattern, err)
				}
				if !matched {
					continue
				}
			}

			fmt.Printf("Change detected: %s\n", file)

			result := p.processSingleFile(file, opts)
			if result.Error != nil {
				errorutil.LogWarning(p.logger, "watched file processing", result.Error,
					errorutil.FileContext(file)...)
				fmt.Printf("❌ Failed: %s - %v\n\n", file, result.Error)
				continue
			}

			fmt.Printf("✅ Processed: %s (%d values, %d invalid)\n\n",
				file, result.ParsedValues, result.FailedValues)
		}
	}
}
