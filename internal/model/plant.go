package model

import (
	"fmt"
	"time"
)

// Plant represents a monitored plant and the optimal ranges its sensors are
// checked against.
//
// UserID references the owning user's local row. The reference is enforced
// only by the storage layer, never during cross-tier transfer: an imported
// plant keeps the user id its remote document carried.
type Plant struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	Name string `json:"name"`
	Type string `json:"type"`

	// Optional descriptive fields. Empty string means not set.
	Species        string `json:"species,omitempty"`
	ScientificName string `json:"scientific_name,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`

	// Connected reports whether a sensor pot is currently paired.
	Connected bool `json:"connected"`

	// Optimal ranges used by alert evaluation.
	MinSoilHumidity    float64 `json:"min_soil_humidity"`
	MaxSoilHumidity    float64 `json:"max_soil_humidity"`
	MinTemperature     float64 `json:"min_temperature"`
	MaxTemperature     float64 `json:"max_temperature"`
	MinAmbientHumidity float64 `json:"min_ambient_humidity"`
	MaxAmbientHumidity float64 `json:"max_ambient_humidity"`
	OptimalLight       string  `json:"optimal_light"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Validate checks if the Plant has valid field values.
func (p *Plant) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	// Ranges are only checked when both ends are set; documents written by
	// older clients may carry one end of a range and not the other.
	if p.MaxSoilHumidity != 0 && p.MinSoilHumidity > p.MaxSoilHumidity {
		return fmt.Errorf("soil humidity range is inverted (%g > %g)", p.MinSoilHumidity, p.MaxSoilHumidity)
	}
	if p.MaxTemperature != 0 && p.MinTemperature > p.MaxTemperature {
		return fmt.Errorf("temperature range is inverted (%g > %g)", p.MinTemperature, p.MaxTemperature)
	}
	if p.MaxAmbientHumidity != 0 && p.MinAmbientHumidity > p.MaxAmbientHumidity {
		return fmt.Errorf("ambient humidity range is inverted (%g > %g)", p.MinAmbientHumidity, p.MaxAmbientHumidity)
	}
	return nil
}

// SetDefaults applies default values for optional fields.
func (p *Plant) SetDefaults() {
	now := time.Now().UnixMilli()
	if p.Type == "" {
		p.Type = "indoor"
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = now
	}
	if p.UpdatedAt == 0 {
		p.UpdatedAt = now
	}
}

// Touch sets UpdatedAt to the current time.
func (p *Plant) Touch() {
	p.UpdatedAt = time.Now().UnixMilli()
}
