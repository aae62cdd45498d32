package corpus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lylebot/internal/api"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_UploadsDroppedPDF(t *testing.T) {
	var uploads atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploads.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"doc_id": "D1"})
	}))
	defer srv.Close()

	inbox := t.TempDir()
	client := NewClient(api.New(srv.URL, time.Second, nil), nil)
	w, err := NewWatcher(inbox, client, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeFile(t, inbox, "dropped.pdf", []byte("%PDF-1.5 content"))

	if !waitFor(t, 5*time.Second, func() bool { return w.Stats().Uploaded == 1 }) {
		t.Fatalf("dropped PDF never uploaded; stats=%+v", w.Stats())
	}
	if got := uploads.Load(); got != 1 {
		t.Errorf("backend saw %d uploads, want 1", got)
	}
}

func TestWatcher_SkipsNonPDF(t *testing.T) {
	var uploads atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploads.Add(1)
	}))
	defer srv.Close()

	inbox := t.TempDir()
	client := NewClient(api.New(srv.URL, time.Second, nil), nil)
	w, err := NewWatcher(inbox, client, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeFile(t, inbox, "notes.txt", []byte("not a pdf"))

	if !waitFor(t, 5*time.Second, func() bool { return w.Stats().Skipped == 1 }) {
		t.Fatalf("non-PDF never skipped; stats=%+v", w.Stats())
	}
	if got := uploads.Load(); got != 0 {
		t.Errorf("backend saw %d uploads, want 0", got)
	}
}

func TestProcessSettled_UploadsInPathOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			if _, header, err := r.FormFile("file"); err == nil {
				mu.Lock()
				order = append(order, header.Filename)
				mu.Unlock()
			}
		}
		json.NewEncoder(w).Encode(map[string]string{"doc_id": "D"})
	}))
	defer srv.Close()

	inbox := t.TempDir()
	client := NewClient(api.New(srv.URL, time.Second, nil), nil)
	w, err := NewWatcher(inbox, client, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.watcher.Close()

	// A settled multi-file drop, recorded out of order.
	for _, name := range []string{"c.pdf", "a.pdf", "b.pdf"} {
		path := writeFile(t, inbox, name, []byte("%PDF-1.4"))
		w.pending[path] = time.Now().Add(-time.Second)
	}

	w.processSettled(context.Background())

	want := []string{"a.pdf", "b.pdf", "c.pdf"}
	mu.Lock()
	defer mu.Unlock()
	if len(order) != len(want) {
		t.Fatalf("uploaded %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("upload order %v, want %v", order, want)
		}
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	inbox := t.TempDir()
	client := NewClient(api.New(srv.URL, time.Second, nil), nil)
	w, err := NewWatcher(inbox, client, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop() // second call must not panic or block
}
