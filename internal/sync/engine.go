package sync

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/angewomoon/masetero/internal/catalog"
	"github.com/angewomoon/masetero/internal/remote"
	"github.com/angewomoon/masetero/internal/store"
)

// Result tallies one table transfer, or a whole run when aggregated.
type Result struct {
	Succeeded int
	Failed    int
}

func (r *Result) add(other Result) {
	r.Succeeded += other.Succeeded
	r.Failed += other.Failed
}

// Config holds engine tuning knobs.
type Config struct {
	// TablePause is the quiescence pause between export tables, so the
	// remote store is not hit with four back-to-back bulk writes. It is
	// pacing, not a consistency guarantee. Imports have no pause; each
	// import already blocks on its own snapshot read.
	TablePause time.Duration

	// ImportTimeout bounds each table's snapshot read, not the run.
	ImportTimeout time.Duration

	// Logger for engine activity.
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TablePause:    time.Second,
		ImportTimeout: 30 * time.Second,
		Logger:        log.New(os.Stderr, "[sync] ", log.LstdFlags),
	}
}

// Engine runs transfers between the two persistence tiers.
//
// The engine is stateless between runs. Concurrent runs against the same
// tables are not coordinated; callers should run at most one transfer per
// direction at a time.
type Engine struct {
	store    *store.Store
	remote   remote.Store
	reporter ProgressReporter
	config   *Config
}

// New creates an Engine.
//
// The local store must be open and have its schema initialized. If reporter
// is nil, callbacks are discarded; if config is nil, defaults are used.
//
// Example:
//
//	db, err := store.Open(".masetero/local.db")
//	if err != nil {
//	    return err
//	}
//	engine := sync.New(db, remoteClient, reporter, nil)
func New(db *store.Store, remoteStore remote.Store, reporter ProgressReporter, config *Config) *Engine {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Engine{
		store:    db,
		remote:   remoteStore,
		reporter: reporter,
		config:   config,
	}
}

// ExportTable exports a single table. Failures surface through the reporter;
// the returned error is non-nil only for an unknown kind.
func (e *Engine) ExportTable(ctx context.Context, kind catalog.Kind) (Result, error) {
	spec, err := catalog.Lookup(kind)
	if err != nil {
		return Result{}, err
	}
	return e.exportTable(ctx, spec), nil
}

// ImportTable imports a single table. Failures surface through the reporter;
// the returned error is non-nil only for an unknown kind.
func (e *Engine) ImportTable(ctx context.Context, kind catalog.Kind) (Result, error) {
	spec, err := catalog.Lookup(kind)
	if err != nil {
		return Result{}, err
	}
	return e.importTable(ctx, spec), nil
}

// ExportAll exports every catalog table in dependency order, pausing
// Config.TablePause between tables, and finishes with OnComplete.
//
// Table failures do not halt the run and nothing is rolled back; every
// table is attempted exactly once.
func (e *Engine) ExportAll(ctx context.Context) Result {
	e.config.Logger.Printf("Starting full export")
	start := time.Now()

	var totals Result
	specs := catalog.All()
	for i, spec := range specs {
		totals.add(e.exportTable(ctx, spec))

		if i < len(specs)-1 && e.config.TablePause > 0 {
			select {
			case <-time.After(e.config.TablePause):
			case <-ctx.Done():
			}
		}
	}

	e.config.Logger.Printf("Full export complete in %v: %d succeeded, %d failed",
		time.Since(start).Round(time.Millisecond), totals.Succeeded, totals.Failed)
	e.reporter.OnComplete(totals.Succeeded, totals.Failed)
	return totals
}

// ImportAll imports every catalog table in dependency order and finishes
// with OnComplete. There is no inter-table pause; each import already
// blocks on its own snapshot read.
func (e *Engine) ImportAll(ctx context.Context) Result {
	e.config.Logger.Printf("Starting full import")
	start := time.Now()

	var totals Result
	for _, spec := range catalog.All() {
		totals.add(e.importTable(ctx, spec))
	}

	e.config.Logger.Printf("Full import complete in %v: %d succeeded, %d failed",
		time.Since(start).Round(time.Millisecond), totals.Succeeded, totals.Failed)
	e.reporter.OnComplete(totals.Succeeded, totals.Failed)
	return totals
}

// RunFullExport starts ExportAll on a dedicated worker goroutine and
// returns immediately. Completion is delivered via OnComplete.
func (e *Engine) RunFullExport(ctx context.Context) {
	go e.ExportAll(ctx)
}

// RunFullImport starts ImportAll on a dedicated worker goroutine and
// returns immediately. Completion is delivered via OnComplete.
func (e *Engine) RunFullImport(ctx context.Context) {
	go e.ImportAll(ctx)
}

// LocalTableCounts returns row counts for every catalog table in the local
// store, keyed by table name.
func (e *Engine) LocalTableCounts(ctx context.Context) (map[string]int, error) {
	return e.store.TableCounts(ctx)
}

// childCounter is implemented by remote stores that can count a path's
// children cheaper than a full snapshot.
type childCounter interface {
	CountChildren(ctx context.Context, path string) (int, error)
}

// RemoteTableCounts returns document counts for every catalog path in the
// remote tree, keyed by table name. Each count is bounded by the import
// timeout.
func (e *Engine) RemoteTableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, spec := range catalog.All() {
		rctx, cancel := context.WithTimeout(ctx, e.config.ImportTimeout)

		var n int
		var err error
		if counter, ok := e.remote.(childCounter); ok {
			n, err = counter.CountChildren(rctx, spec.RemotePath)
		} else {
			var children []remote.Child
			children, err = e.remote.ReadChildrenOnce(rctx, spec.RemotePath)
			n = len(children)
		}
		cancel()

		if err != nil {
			return nil, err
		}
		counts[string(spec.Kind)] = n
	}
	return counts, nil
}
