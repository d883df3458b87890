// Package preview serves a built site over HTTP and rebuilds it when the
// bank directory changes.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dsc-courses/practicebank/internal/logfields"
)

const debounceDelay = 300 * time.Millisecond

// Server watches a bank directory and serves its built site.
type Server struct {
	bankRoot  string
	outputDir string
	port      int
	rebuild   func() error
	registry  *prom.Registry
}

// New creates a preview server. rebuild regenerates the site into outputDir
// and is invoked once up front and again after every change. A nil registry
// disables the metrics endpoint.
func New(bankRoot, outputDir string, port int, rebuild func() error, registry *prom.Registry) *Server {
	return &Server{
		bankRoot:  bankRoot,
		outputDir: outputDir,
		port:      port,
		rebuild:   rebuild,
		registry:  registry,
	}
}

// Run builds once, starts the HTTP server and the file watcher, and blocks
// until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.rebuild(); err != nil {
		slog.Error("initial build failed", logfields.Error(err))
	}

	httpServer := s.startHTTPServer()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := addDirsRecursive(watcher, s.bankRoot); err != nil {
		return err
	}

	rebuildReq, trigger := setupDebouncer()
	s.startRebuildWorker(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return shutdownHTTPServer(httpServer)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) startHTTPServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.outputDir)))
	if s.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("preview server failed", logfields.Error(err))
		}
	}()
	slog.Info("Preview server listening",
		slog.Int("port", s.port),
		slog.String("url", fmt.Sprintf("http://localhost:%d", s.port)))
	return httpServer
}

// setupDebouncer returns a rebuild channel and a trigger that coalesces
// bursts of filesystem events into a single request.
func setupDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	return rebuildReq, trigger
}

func (s *Server) startRebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				slog.Info("Change detected; rebuilding site", logfields.Bank(s.bankRoot))
				if err := s.rebuild(); err != nil {
					slog.Warn("rebuild failed", logfields.Error(err))
				}
			}
		}
	}()
}

func (s *Server) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	// Changes inside the output directory would otherwise rebuild forever.
	if within(s.outputDir, ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected",
		logfields.Path(ev.Name),
		slog.String("op", ev.Op.String()))
	trigger()
}

func shutdownHTTPServer(httpServer *http.Server) error {
	slog.Info("Shutting down preview server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports whether a filesystem event should not trigger a
// rebuild: hidden files and editor temp/swap files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return false
}

func within(dir, path string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}
