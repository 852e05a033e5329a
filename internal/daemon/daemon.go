// Package daemon keeps the remote tree current without user action.
//
// The daemon:
//  1. Watches the local database file for changes
//  2. Debounces bursts of writes into a single full export
//  3. Additionally runs a periodic full export on an interval
//  4. Handles graceful shutdown
package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	enginesync "github.com/angewomoon/masetero/internal/sync"
)

// Config holds configuration for the daemon.
type Config struct {
	// Debounce is how long to wait after the last database change before
	// exporting. This batches rapid updates together.
	Debounce time.Duration

	// Interval is how often to run a full export regardless of observed
	// changes, as a safety net for changes the watcher missed.
	Interval time.Duration

	// Logger for daemon activity.
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Debounce: 5 * time.Second,
		Interval: 15 * time.Minute,
		Logger:   log.New(os.Stderr, "[daemon] ", log.LstdFlags),
	}
}

// FileLogger returns a logger writing to a rotating log file at path.
func FileLogger(path string) *log.Logger {
	return log.New(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}, "[daemon] ", log.LstdFlags)
}

// Daemon watches the local database and exports changes to the remote tree.
type Daemon struct {
	engine *enginesync.Engine
	dbPath string
	config *Config

	watcher *fsnotify.Watcher

	mu           sync.Mutex
	lastChange   time.Time
	exportQueued bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Daemon instance.
//
// The engine must be ready to run exports; dbPath is the SQLite database
// file whose changes trigger them. Use Start() to begin watching.
func New(engine *enginesync.Engine, dbPath string, config *Config) (*Daemon, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[daemon] ", log.LstdFlags)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		engine:  engine,
		dbPath:  dbPath,
		config:  config,
		watcher: watcher,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start begins the daemon's operation.
//
// The daemon performs an initial full export, then watches the database
// file and exports on debounced changes and on the periodic interval.
// This blocks until ctx is cancelled or an error occurs.
func (d *Daemon) Start(ctx context.Context) error {
	d.config.Logger.Println("Starting daemon")

	// Initial export so the remote tree starts current
	d.runExport()

	// Watch the directory: watching the file itself misses the
	// rename-and-replace that a WAL checkpoint can perform.
	if err := d.watcher.Add(filepath.Dir(d.dbPath)); err != nil {
		return fmt.Errorf("failed to watch database directory: %w", err)
	}

	d.config.Logger.Printf("Watching: %s", d.dbPath)

	d.wg.Add(2)
	go d.watchFileEvents()
	go d.exportLoop()

	select {
	case <-ctx.Done():
		d.config.Logger.Println("Shutdown signal received")
		return d.Stop()
	case <-d.ctx.Done():
		return nil
	}
}

// Stop gracefully shuts down the daemon.
func (d *Daemon) Stop() error {
	d.config.Logger.Println("Stopping daemon")

	d.cancel()

	if err := d.watcher.Close(); err != nil {
		d.config.Logger.Printf("Error closing watcher: %v", err)
	}

	d.wg.Wait()

	d.config.Logger.Println("Daemon stopped")
	return nil
}

// watchFileEvents monitors filesystem events and queues an export.
func (d *Daemon) watchFileEvents() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return

		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !d.isDatabaseFile(event.Name) {
				continue
			}

			d.queueExport()

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.config.Logger.Printf("Watcher error: %v", err)
		}
	}
}

// isDatabaseFile reports whether the event concerns the database file or
// its WAL sidecar. The -shm file churns on every read and is ignored.
func (d *Daemon) isDatabaseFile(name string) bool {
	return name == d.dbPath || name == d.dbPath+"-wal"
}

// queueExport records a change and arms the debounce window.
func (d *Daemon) queueExport() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastChange = time.Now()
	d.exportQueued = true
}

// exportLoop runs debounced exports and the periodic full export.
func (d *Daemon) exportLoop() {
	defer d.wg.Done()

	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	periodic := time.NewTicker(d.config.Interval)
	defer periodic.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return

		case <-tick.C:
			if d.takeQueuedExport() {
				d.runExport()
			}

		case <-periodic.C:
			d.config.Logger.Println("Periodic export")
			d.runExport()
		}
	}
}

// takeQueuedExport consumes a queued export once its debounce window has
// passed.
func (d *Daemon) takeQueuedExport() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.exportQueued || time.Since(d.lastChange) < d.config.Debounce {
		return false
	}
	d.exportQueued = false
	return true
}

// runExport performs one full export run.
func (d *Daemon) runExport() {
	start := time.Now()
	totals := d.engine.ExportAll(d.ctx)
	d.config.Logger.Printf("Export complete in %v: %d succeeded, %d failed",
		time.Since(start).Round(time.Millisecond), totals.Succeeded, totals.Failed)
}
