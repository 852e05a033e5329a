package daemon

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/angewomoon/masetero/internal/remote"
	"github.com/angewomoon/masetero/internal/store"
	enginesync "github.com/angewomoon/masetero/internal/sync"
)

func testDaemon(t *testing.T) *Daemon {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema() failed: %v", err)
	}

	quiet := log.New(io.Discard, "", 0)
	engine := enginesync.New(db, remote.NewMemoryStore(), nil, &enginesync.Config{
		ImportTimeout: time.Second,
		Logger:        quiet,
	})

	d, err := New(engine, dbPath, &Config{
		Debounce: 10 * time.Millisecond,
		Interval: time.Hour,
		Logger:   quiet,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = d.Stop() })
	return d
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, "some.db", nil); err == nil {
		t.Error("New() accepted a nil engine")
	}

	engine := enginesync.New(nil, remote.NewMemoryStore(), nil, nil)
	if _, err := New(engine, "", nil); err == nil {
		t.Error("New() accepted an empty database path")
	}
}

func TestIsDatabaseFile(t *testing.T) {
	d := testDaemon(t)

	tests := []struct {
		name string
		want bool
	}{
		{d.dbPath, true},
		{d.dbPath + "-wal", true},
		{d.dbPath + "-shm", false},
		{filepath.Join(filepath.Dir(d.dbPath), "other.db"), false},
	}
	for _, tt := range tests {
		if got := d.isDatabaseFile(tt.name); got != tt.want {
			t.Errorf("isDatabaseFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestDebounce verifies a queued export is held back until the debounce
// window has passed since the last change.
func TestDebounce(t *testing.T) {
	d := testDaemon(t)
	d.config.Debounce = 50 * time.Millisecond

	if d.takeQueuedExport() {
		t.Error("takeQueuedExport() fired with nothing queued")
	}

	d.queueExport()
	if d.takeQueuedExport() {
		t.Error("takeQueuedExport() fired inside the debounce window")
	}

	time.Sleep(60 * time.Millisecond)
	if !d.takeQueuedExport() {
		t.Error("takeQueuedExport() did not fire after the window passed")
	}
	if d.takeQueuedExport() {
		t.Error("takeQueuedExport() fired twice for one queued change")
	}
}

// TestDebounce_ResetByNewChange verifies every new change rearms the window.
func TestDebounce_ResetByNewChange(t *testing.T) {
	d := testDaemon(t)
	d.config.Debounce = 80 * time.Millisecond

	d.queueExport()
	time.Sleep(50 * time.Millisecond)
	d.queueExport()
	time.Sleep(50 * time.Millisecond)

	// 100ms since the first change, but only 50ms since the last.
	if d.takeQueuedExport() {
		t.Error("takeQueuedExport() fired before the rearmed window passed")
	}
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	logger := FileLogger(path)
	if logger == nil {
		t.Fatal("FileLogger() returned nil")
	}
	logger.Println("hello")
}
