package corpus

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Watcher monitors an inbox directory and uploads PDFs dropped into it.
// It is the terminal-side analog of the web UI's drag-and-drop zone: copy a
// file into the inbox and it lands in the corpus. Rapid writes are debounced
// so partially copied files are not uploaded mid-write.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	client      *Client
	inboxDir    string
	debounceDur time.Duration
	pending     map[string]time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	logger      *zap.Logger

	stats WatcherStats
}

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	Uploaded int
	Skipped  int
	Errors   int
	LastPath string
}

// NewWatcher creates a watcher for the given inbox directory. A zero
// debounce falls back to 500ms.
func NewWatcher(inboxDir string, client *Client, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		watcher:     fw,
		client:      client,
		inboxDir:    inboxDir,
		debounceDur: debounce,
		pending:     make(map[string]time.Time),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logger,
	}, nil
}

// Start begins watching the inbox. Non-blocking; the event loop runs in a
// goroutine until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.inboxDir, 0o755); err != nil {
		w.logger.Warn("failed to create inbox dir", zap.String("dir", w.inboxDir), zap.Error(err))
	}
	if err := w.watcher.Add(w.inboxDir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	w.logger.Info("watching inbox", zap.String("dir", w.inboxDir))
	go w.run(ctx)
	return nil
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("error closing watcher", zap.Error(err))
	}
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

// handleEvent records create/write events for debounced processing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// processSettled uploads files whose last event is older than the debounce
// window. Uploads are sequential; a multi-file drop is processed one at a
// time in path order.
func (w *Watcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounceDur {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(ready) == 0 {
		return
	}
	sort.Strings(ready)

	batch := uuid.NewString()[:8]
	for _, path := range ready {
		w.uploadOne(ctx, batch, path)
	}
}

func (w *Watcher) uploadOne(ctx context.Context, batch, path string) {
	log := w.logger.With(zap.String("batch", batch), zap.String("path", path))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return // removed before settling, or a directory
	}

	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		log.Warn("skipping non-PDF file")
		w.mu.Lock()
		w.stats.Skipped++
		w.stats.LastPath = path
		w.mu.Unlock()
		return
	}

	docID, err := w.client.UploadPath(ctx, path)
	w.mu.Lock()
	w.stats.LastPath = path
	if err != nil {
		w.stats.Errors++
	} else {
		w.stats.Uploaded++
	}
	w.mu.Unlock()

	if err != nil {
		log.Error("upload failed", zap.Error(err))
		return
	}
	log.Info("uploaded from inbox", zap.String("doc_id", docID))
}
