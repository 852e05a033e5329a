package model

import (
	"fmt"
	"strconv"
	"time"
)

// Alert severities, ordered from informational to critical.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert is a notification raised for a plant, such as an out-of-range
// sensor value or a watering reminder.
//
// Like sensor readings, alerts are an append-only event log.
type Alert struct {
	ID      int64 `json:"id"`
	PlantID int64 `json:"plant_id"`

	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Read     bool   `json:"read"`
	Icon     string `json:"icon,omitempty"`

	// Timestamp is a string-encoded epoch in milliseconds.
	Timestamp string `json:"timestamp"`
}

// Validate checks if the Alert has valid field values.
func (a *Alert) Validate() error {
	if a.PlantID == 0 {
		return fmt.Errorf("plant_id is required")
	}
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	switch a.Severity {
	case SeverityInfo, SeverityWarning, SeverityCritical:
	default:
		return fmt.Errorf("unknown severity %q", a.Severity)
	}
	return nil
}

// SetDefaults applies default values for optional fields.
func (a *Alert) SetDefaults() {
	if a.Severity == "" {
		a.Severity = SeverityInfo
	}
	if a.Timestamp == "" {
		a.Timestamp = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
}
