package model

import (
	"fmt"
	"strconv"
	"time"
)

// SensorReading is one sample from a plant's sensor pot.
//
// Readings are append-only: they are never updated in place, and repeated
// imports of the same remote snapshot intentionally duplicate them.
type SensorReading struct {
	ID      int64 `json:"id"`
	PlantID int64 `json:"plant_id"`

	SoilHumidity    float64 `json:"soil_humidity"`
	Temperature     float64 `json:"temperature"`
	AmbientHumidity float64 `json:"ambient_humidity"`
	UVIndex         float64 `json:"uv_index"`
	WaterLevel      float64 `json:"water_level"`
	PestCount       int64   `json:"pest_count"`

	// Timestamp is a string-encoded epoch in milliseconds, the format the
	// deployed clients already write.
	Timestamp string `json:"timestamp"`
}

// Validate checks if the SensorReading has valid field values.
func (r *SensorReading) Validate() error {
	if r.PlantID == 0 {
		return fmt.Errorf("plant_id is required")
	}
	if r.Timestamp != "" {
		if _, err := strconv.ParseInt(r.Timestamp, 10, 64); err != nil {
			return fmt.Errorf("timestamp %q is not epoch milliseconds", r.Timestamp)
		}
	}
	return nil
}

// SetDefaults applies default values for optional fields.
func (r *SensorReading) SetDefaults() {
	if r.Timestamp == "" {
		r.Timestamp = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
}

// Time returns the reading's timestamp as a time.Time.
// The zero time is returned if the timestamp is unset or malformed.
func (r *SensorReading) Time() time.Time {
	ms, err := strconv.ParseInt(r.Timestamp, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
