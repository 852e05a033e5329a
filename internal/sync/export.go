package sync

import (
	"context"
	"fmt"
	"strconv"

	"github.com/angewomoon/masetero/internal/catalog"
	"github.com/angewomoon/masetero/internal/codec"
	"github.com/angewomoon/masetero/internal/model"
)

// exportProgressStride is the export progress cadence: every fifth row, for
// every table. The per-table catalog stride applies only to imports.
const exportProgressStride = 5

// exportTable walks a table's local rows in storage order and upserts each
// into the remote path, keyed by the string form of the local primary key.
//
// Per-row failures are counted and reported without aborting the loop. A
// failure to open the local cursor is reported once and yields (0,0).
func (e *Engine) exportTable(ctx context.Context, spec catalog.Spec) Result {
	table := string(spec.Kind)

	total, err := e.store.CountRows(ctx, spec.LocalTable)
	if err != nil {
		e.reporter.OnError(table, fmt.Sprintf("failed to open local table: %v", err))
		e.reporter.OnTableComplete(table, 0, 0)
		return Result{}
	}
	if total == 0 {
		e.reporter.OnTableComplete(table, 0, 0)
		return Result{}
	}

	var res Result
	index := 0

	// row pushes one encoded record to the remote tree and advances the
	// progress counters. It never returns an error; export rows fail
	// individually, not collectively.
	row := func(id int64, fields codec.FieldMap) error {
		index++

		if err := e.remote.Write(ctx, spec.RemotePath, strconv.FormatInt(id, 10), fields); err != nil {
			res.Failed++
			e.reporter.OnError(table, fmt.Sprintf("record %d: %v", id, err))
		} else {
			res.Succeeded++
		}

		if index%exportProgressStride == 0 {
			e.reporter.OnProgress(table, index, total)
		}
		return nil
	}

	var iterErr error
	switch spec.Kind {
	case catalog.Users:
		iterErr = e.store.ForEachUser(ctx, func(u *model.User) error {
			return row(u.ID, codec.EncodeUser(u))
		})
	case catalog.Plants:
		iterErr = e.store.ForEachPlant(ctx, func(p *model.Plant) error {
			return row(p.ID, codec.EncodePlant(p))
		})
	case catalog.SensorReadings:
		iterErr = e.store.ForEachReading(ctx, func(r *model.SensorReading) error {
			return row(r.ID, codec.EncodeReading(r))
		})
	case catalog.Alerts:
		iterErr = e.store.ForEachAlert(ctx, func(a *model.Alert) error {
			return row(a.ID, codec.EncodeAlert(a))
		})
	}

	if iterErr != nil {
		// The cursor broke; rows already pushed keep their counts.
		e.reporter.OnError(table, fmt.Sprintf("local read failed: %v", iterErr))
	}

	e.config.Logger.Printf("Exported %s: %d succeeded, %d failed", table, res.Succeeded, res.Failed)
	e.reporter.OnTableComplete(table, res.Succeeded, res.Failed)
	return res
}
