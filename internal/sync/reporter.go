package sync

import "log"

// ProgressReporter receives the callbacks a transfer run emits.
//
// Callback order per run: zero or more OnProgress and OnError calls,
// exactly one OnTableComplete per table attempted, and exactly one
// OnComplete at the end of a full run. Single-table operations emit the
// same shape without the final OnComplete.
//
// Callbacks are invoked from the goroutine driving the run; implementations
// that touch shared state must synchronize themselves.
type ProgressReporter interface {
	// OnProgress reports that current of total records have been processed
	// for table. It fires every Nth record, where N is the table's
	// progress stride.
	OnProgress(table string, current, total int)

	// OnTableComplete reports a table's final tallies. Record-level
	// failures are included in failed; they were also reported
	// individually via OnError.
	OnTableComplete(table string, succeeded, failed int)

	// OnError reports a single record failure or a table-level failure.
	// The message is raw; callers format user-facing text themselves.
	OnError(table string, message string)

	// OnComplete reports the grand totals of a full run.
	OnComplete(totalSucceeded, totalFailed int)
}

// NopReporter discards all callbacks.
type NopReporter struct{}

func (NopReporter) OnProgress(string, int, int)      {}
func (NopReporter) OnTableComplete(string, int, int) {}
func (NopReporter) OnError(string, string)           {}
func (NopReporter) OnComplete(int, int)              {}

// LogReporter writes every callback to a logger. Useful for headless runs
// such as the daemon.
type LogReporter struct {
	Logger *log.Logger
}

// NewLogReporter creates a reporter writing to logger.
func NewLogReporter(logger *log.Logger) *LogReporter {
	return &LogReporter{Logger: logger}
}

func (r *LogReporter) OnProgress(table string, current, total int) {
	r.Logger.Printf("%s: %d/%d", table, current, total)
}

func (r *LogReporter) OnTableComplete(table string, succeeded, failed int) {
	r.Logger.Printf("%s complete: %d succeeded, %d failed", table, succeeded, failed)
}

func (r *LogReporter) OnError(table string, message string) {
	r.Logger.Printf("WARNING: %s: %s", table, message)
}

func (r *LogReporter) OnComplete(totalSucceeded, totalFailed int) {
	r.Logger.Printf("run complete: %d succeeded, %d failed", totalSucceeded, totalFailed)
}
