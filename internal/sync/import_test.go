package sync

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/angewomoon/masetero/internal/catalog"
	"github.com/angewomoon/masetero/internal/codec"
	"github.com/angewomoon/masetero/internal/remote"
)

// TestImportTable_InsertsUsers is the canonical import scenario: two remote
// user documents land as two local rows with their tallies reported.
func TestImportTable_InsertsUsers(t *testing.T) {
	m := remote.NewMemoryStore()
	m.Seed("users", "1", codec.FieldMap{"id": int64(1), "name": "Ana", "email": "ana@example.com"})
	m.Seed("users", "2", codec.FieldMap{"id": int64(2), "name": "Ben", "email": "ben@example.com"})

	rec := newRecorder()
	e, db := testEngine(t, m, rec)

	res, err := e.ImportTable(context.Background(), catalog.Users)
	if err != nil {
		t.Fatalf("ImportTable() failed: %v", err)
	}
	if res.Succeeded != 2 || res.Failed != 0 {
		t.Errorf("result = %+v, want 2 succeeded", res)
	}
	if got := rec.tallies["users"]; got.Succeeded != 2 || got.Failed != 0 {
		t.Errorf("OnTableComplete tallies = %+v, want {2 0}", got)
	}

	u, err := db.GetUserByEmail(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if u.Name != "Ana" || u.ID != 1 {
		t.Errorf("imported user = %+v, want Ana with the carried id", u)
	}
}

// TestImportTable_UserUpsertByEmail verifies re-importing a known email
// updates the existing row instead of inserting a duplicate.
func TestImportTable_UserUpsertByEmail(t *testing.T) {
	m := remote.NewMemoryStore()
	m.Seed("users", "1", codec.FieldMap{"id": int64(1), "name": "Ana", "email": "ana@example.com"})

	e, db := testEngine(t, m, newRecorder())
	ctx := context.Background()

	if _, err := e.ImportTable(ctx, catalog.Users); err != nil {
		t.Fatalf("first ImportTable() failed: %v", err)
	}

	m.Seed("users", "1", codec.FieldMap{"id": int64(1), "name": "Ana Maria", "email": "ana@example.com"})
	if _, err := e.ImportTable(ctx, catalog.Users); err != nil {
		t.Fatalf("second ImportTable() failed: %v", err)
	}

	n, err := db.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountUsers() = %d, want 1 after re-import", n)
	}

	u, err := db.GetUserByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if u.Name != "Ana Maria" {
		t.Errorf("Name = %q, want the updated 'Ana Maria'", u.Name)
	}
}

// TestImportTable_PlantUpsertByID verifies plants match on the id carried in
// the payload, so repeated imports are idempotent.
func TestImportTable_PlantUpsertByID(t *testing.T) {
	m := remote.NewMemoryStore()
	m.Seed("plants", "3", codec.FieldMap{"id": int64(3), "user_id": int64(1), "name": "Basil"})

	e, db := testEngine(t, m, newRecorder())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := e.ImportTable(ctx, catalog.Plants); err != nil {
			t.Fatalf("ImportTable() failed: %v", err)
		}
	}

	n, err := db.CountPlants(ctx)
	if err != nil {
		t.Fatalf("CountPlants() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountPlants() = %d, want 1 after two imports", n)
	}
}

// TestImportTable_EventLogsDuplicate verifies readings and alerts always
// insert fresh rows, so re-importing a snapshot duplicates them.
func TestImportTable_EventLogsDuplicate(t *testing.T) {
	m := remote.NewMemoryStore()
	m.Seed("sensor_readings", "1", codec.FieldMap{
		"id": int64(1), "plant_id": int64(3), "soil_humidity": 45.0, "timestamp": "1700000000000",
	})
	m.Seed("alerts", "1", codec.FieldMap{
		"id": int64(1), "plant_id": int64(3), "title": "Low humidity", "severity": "warning", "timestamp": "1700000000000",
	})

	e, db := testEngine(t, m, newRecorder())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := e.ImportTable(ctx, catalog.SensorReadings); err != nil {
			t.Fatalf("ImportTable(readings) failed: %v", err)
		}
		if _, err := e.ImportTable(ctx, catalog.Alerts); err != nil {
			t.Fatalf("ImportTable(alerts) failed: %v", err)
		}
	}

	readings, err := db.CountReadings(ctx)
	if err != nil {
		t.Fatalf("CountReadings() failed: %v", err)
	}
	if readings != 2 {
		t.Errorf("CountReadings() = %d, want 2 duplicated rows", readings)
	}

	alerts, err := db.CountAlerts(ctx)
	if err != nil {
		t.Fatalf("CountAlerts() failed: %v", err)
	}
	if alerts != 2 {
		t.Errorf("CountAlerts() = %d, want 2 duplicated rows", alerts)
	}
}

// TestImportTable_PartialFailure verifies one malformed document is counted
// and reported while the rest of the table lands.
func TestImportTable_PartialFailure(t *testing.T) {
	m := remote.NewMemoryStore()
	m.Seed("users", "1", codec.FieldMap{"id": int64(1), "email": "a@example.com"})
	m.Seed("users", "2", codec.FieldMap{"id": int64(2), "name": "no email at all"})
	m.Seed("users", "3", codec.FieldMap{"id": int64(3), "email": "c@example.com"})

	rec := newRecorder()
	e, db := testEngine(t, m, rec)

	res, err := e.ImportTable(context.Background(), catalog.Users)
	if err != nil {
		t.Fatalf("ImportTable() failed: %v", err)
	}

	if res.Succeeded != 2 || res.Failed != 1 {
		t.Errorf("result = %+v, want 2 succeeded and 1 failed", res)
	}
	if len(rec.errors) != 1 || !strings.Contains(rec.errors[0], "child 2") {
		t.Errorf("errors = %v, want one error naming child 2", rec.errors)
	}

	n, err := db.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("CountUsers() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountUsers() = %d, want the 2 valid documents", n)
	}
}

// TestImportTable_Timeout verifies a snapshot read that outlives the import
// timeout surfaces as a table-level error with zero counts.
func TestImportTable_Timeout(t *testing.T) {
	m := remote.NewMemoryStore()
	m.Seed("users", "1", codec.FieldMap{"id": int64(1), "email": "a@example.com"})
	m.ReadDelay = time.Second

	rec := newRecorder()
	e, db := testEngine(t, m, rec)
	e.config.ImportTimeout = 20 * time.Millisecond

	res, err := e.ImportTable(context.Background(), catalog.Users)
	if err != nil {
		t.Fatalf("ImportTable() failed: %v", err)
	}

	if res.Succeeded != 0 || res.Failed != 0 {
		t.Errorf("result = %+v, want zero counts on timeout", res)
	}
	if len(rec.errors) != 1 || !strings.Contains(rec.errors[0], "timed out") {
		t.Errorf("errors = %v, want one timeout error", rec.errors)
	}
	if got := rec.tallies["users"]; got.Succeeded != 0 || got.Failed != 0 {
		t.Errorf("OnTableComplete tallies = %+v, want {0 0}", got)
	}

	n, err := db.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("CountUsers() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("CountUsers() = %d, want nothing imported", n)
	}
}

// TestImportAll_ContinuesAfterTableFailure verifies a failing remote still
// yields one OnTableComplete per table and a final OnComplete.
func TestImportAll_ContinuesAfterTableFailure(t *testing.T) {
	m := remote.NewMemoryStore()
	m.ReadErr = context.Canceled

	rec := newRecorder()
	e, _ := testEngine(t, m, rec)

	totals := e.ImportAll(context.Background())

	if totals.Succeeded != 0 || totals.Failed != 0 {
		t.Errorf("totals = %+v, want zero counts", totals)
	}
	if len(rec.completed) != 4 {
		t.Errorf("completed %d tables, want all 4 despite failures", len(rec.completed))
	}
	if len(rec.errors) != 4 {
		t.Errorf("got %d table errors, want 4", len(rec.errors))
	}
	if len(rec.runTotals) != 1 {
		t.Errorf("OnComplete fired %d times, want 1", len(rec.runTotals))
	}
}

// TestImportTable_ToleratesMissingOptionalFields verifies documents written
// by older clients import with zero-value defaults.
func TestImportTable_ToleratesMissingOptionalFields(t *testing.T) {
	m := remote.NewMemoryStore()
	m.Seed("alerts", "1", codec.FieldMap{"plant_id": int64(3), "title": "Water me"})

	e, db := testEngine(t, m, newRecorder())

	res, err := e.ImportTable(context.Background(), catalog.Alerts)
	if err != nil {
		t.Fatalf("ImportTable() failed: %v", err)
	}
	if res.Succeeded != 1 {
		t.Errorf("result = %+v, want the sparse document to land", res)
	}

	n, err := db.CountUnreadAlerts(context.Background())
	if err != nil {
		t.Fatalf("CountUnreadAlerts() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountUnreadAlerts() = %d, want 1", n)
	}
}
