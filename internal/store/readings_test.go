package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"testing"

	"github.com/angewomoon/masetero/internal/model"
)

func TestInsertReading(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	r := &model.SensorReading{
		PlantID:         1,
		SoilHumidity:    45.2,
		Temperature:     21.7,
		AmbientHumidity: 55,
		UVIndex:         3.1,
		WaterLevel:      80,
		PestCount:       2,
		Timestamp:       "1700000000000",
	}
	id, err := s.InsertReading(ctx, r)
	if err != nil {
		t.Fatalf("InsertReading() failed: %v", err)
	}
	if id == 0 {
		t.Error("InsertReading() returned id 0")
	}

	n, err := s.CountReadings(ctx)
	if err != nil {
		t.Fatalf("CountReadings() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountReadings() = %d, want 1", n)
	}
}

// TestReadings_AppendOnly verifies inserting the same sample twice with a
// zero id produces two rows. Event logs never deduplicate.
func TestReadings_AppendOnly(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		r := &model.SensorReading{PlantID: 1, SoilHumidity: 45, Timestamp: "1700000000000"}
		if _, err := s.InsertReading(ctx, r); err != nil {
			t.Fatalf("InsertReading() failed: %v", err)
		}
	}

	n, err := s.CountReadings(ctx)
	if err != nil {
		t.Fatalf("CountReadings() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountReadings() = %d, want 2 duplicate rows", n)
	}
}

func TestLatestReading(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Insert out of chronological order to make sure ordering is by
	// timestamp, not rowid.
	for _, ms := range []int64{1700000002000, 1700000000000, 1700000001000} {
		r := &model.SensorReading{PlantID: 1, Timestamp: strconv.FormatInt(ms, 10)}
		if _, err := s.InsertReading(ctx, r); err != nil {
			t.Fatalf("InsertReading() failed: %v", err)
		}
	}

	got, err := s.LatestReading(ctx, 1)
	if err != nil {
		t.Fatalf("LatestReading() failed: %v", err)
	}
	if got.Timestamp != "1700000002000" {
		t.Errorf("LatestReading().Timestamp = %q, want the newest", got.Timestamp)
	}

	_, err = s.LatestReading(ctx, 99)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("LatestReading() for unknown plant = %v, want sql.ErrNoRows", err)
	}
}

func TestForEachReading(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r := &model.SensorReading{PlantID: 1, SoilHumidity: float64(i), Timestamp: "1700000000000"}
		if _, err := s.InsertReading(ctx, r); err != nil {
			t.Fatalf("InsertReading() failed: %v", err)
		}
	}

	visits := 0
	err := s.ForEachReading(ctx, func(*model.SensorReading) error {
		visits++
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachReading() failed: %v", err)
	}
	if visits != 3 {
		t.Errorf("visited %d readings, want 3", visits)
	}
}
