package dashboard

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Reporter implements the sync engine's ProgressReporter by broadcasting
// every callback as a dashboard message.
//
// Each run is tagged with a fresh run id so clients can correlate the
// messages of one run; the id rolls over after OnComplete.
type Reporter struct {
	server *Server
	logger *log.Logger

	mu    sync.Mutex
	runID string
}

// NewReporter creates a reporter broadcasting through server.
func NewReporter(server *Server, logger *log.Logger) *Reporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Reporter{
		server: server,
		logger: logger,
	}
}

// OnProgress broadcasts per-table progress.
func (r *Reporter) OnProgress(table string, current, total int) {
	r.send(MessageTypeProgress, ProgressData{
		Table:   table,
		Current: current,
		Total:   total,
	})
}

// OnTableComplete broadcasts a table's final tallies.
func (r *Reporter) OnTableComplete(table string, succeeded, failed int) {
	r.logger.Printf("%s complete: %d succeeded, %d failed", table, succeeded, failed)
	r.send(MessageTypeTableComplete, TableCompleteData{
		Table:     table,
		Succeeded: succeeded,
		Failed:    failed,
	})
}

// OnError broadcasts a single failure.
func (r *Reporter) OnError(table string, message string) {
	r.send(MessageTypeRecordError, RecordErrorData{
		Table:   table,
		Message: message,
	})
}

// OnComplete broadcasts the run's grand totals and closes out the run id.
func (r *Reporter) OnComplete(totalSucceeded, totalFailed int) {
	r.logger.Printf("run complete: %d succeeded, %d failed", totalSucceeded, totalFailed)
	r.send(MessageTypeRunComplete, RunCompleteData{
		TotalSucceeded: totalSucceeded,
		TotalFailed:    totalFailed,
	})

	r.mu.Lock()
	r.runID = ""
	r.mu.Unlock()
}

// send marshals and broadcasts one message under the current run id.
func (r *Reporter) send(typ MessageType, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		r.logger.Printf("Failed to marshal %s data: %v", typ, err)
		return
	}

	r.server.Broadcast(Message{
		Type:      typ,
		RunID:     r.currentRunID(),
		Timestamp: time.Now(),
		Data:      payload,
	})
}

// currentRunID returns the active run id, starting a new run if none is
// active.
func (r *Reporter) currentRunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runID == "" {
		r.runID = uuid.New().String()
	}
	return r.runID
}
