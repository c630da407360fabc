package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/duckframe/internal/loader"
	"github.com/leapstack-labs/duckframe/internal/state"
)

const debounceDelay = 200 * time.Millisecond

// watch loads every supported file in dir, then reloads files as they are
// written. Each file becomes a table named after it.
func (s *Server) watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && loader.Supported(e.Name()) {
			s.loadFile(ctx, filepath.Join(dir, e.Name()))
		}
	}

	var (
		mu       sync.Mutex
		loads    sync.WaitGroup
		stopping bool
		timers   = make(map[string]*time.Timer)
	)
	// Pending reloads are dropped; running ones finish before watch returns.
	defer func() {
		mu.Lock()
		stopping = true
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
		loads.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !loader.Supported(event.Name) {
				continue
			}

			path := event.Name
			mu.Lock()
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounceDelay, func() {
				mu.Lock()
				if stopping {
					mu.Unlock()
					return
				}
				loads.Add(1)
				mu.Unlock()
				defer loads.Done()
				s.loadFile(ctx, path)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", slog.Any("error", err))
		}
	}
}

// loadFile loads path into the table derived from its name. Failures are
// logged and recorded, not returned.
func (s *Server) loadFile(ctx context.Context, path string) {
	kind := state.KindRead
	if loader.IsRowDocument(path) {
		kind = state.KindLoad
	}

	start := time.Now()
	res, err := loader.ToTable(ctx, s.session, path, loader.TableName(path), nil)
	if err != nil {
		s.record(ctx, kind, path, 0, start, err)
		s.logger.Error("failed to load file", slog.String("path", path), slog.Any("error", err))
		return
	}
	s.record(ctx, kind, path, res.Rows, start, nil)
	s.logger.Info("loaded file",
		slog.String("path", path),
		slog.String("table", res.Table),
		slog.Int64("rows", res.Rows))
}
