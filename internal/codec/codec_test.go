package codec

import (
	"encoding/json"
	"testing"

	"github.com/angewomoon/masetero/internal/model"
)

// TestUser_RoundTrip verifies a user survives encode then decode intact.
func TestUser_RoundTrip(t *testing.T) {
	u := &model.User{
		ID:              7,
		Name:            "Ana",
		Email:           "ana@example.com",
		PasswordHash:    "x1y2z3",
		ProfileImageURL: "https://img.example.com/ana.png",
		CreatedAt:       1700000000000,
		UpdatedAt:       1700000001000,
	}

	got := DecodeUser(EncodeUser(u))
	if *got != *u {
		t.Errorf("round trip changed the user:\n got %+v\nwant %+v", got, u)
	}
}

// TestNullableFields_EncodeAsNull verifies an unset nullable column encodes
// as a genuine null, not an empty or "null" string.
func TestNullableFields_EncodeAsNull(t *testing.T) {
	u := &model.User{Email: "ana@example.com"}
	fields := EncodeUser(u)

	if v, ok := fields["profile_image_url"]; !ok || v != nil {
		t.Errorf("profile_image_url = %#v, want a present null", v)
	}
	if v := fields["external_auth_id"]; v != nil {
		t.Errorf("external_auth_id = %#v, want null", v)
	}
}

// TestNullableFields_Decode covers the three representations of an unset
// nullable column that exist in deployed data: a genuine null, an absent
// field, and the legacy "null" string literal.
func TestNullableFields_Decode(t *testing.T) {
	tests := []struct {
		name   string
		fields FieldMap
	}{
		{"genuine null", FieldMap{"email": "a@b.c", "profile_image_url": nil}},
		{"absent field", FieldMap{"email": "a@b.c"}},
		{"legacy null literal", FieldMap{"email": "a@b.c", "profile_image_url": "null"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := DecodeUser(tt.fields)
			if u.ProfileImageURL != "" {
				t.Errorf("ProfileImageURL = %q, want empty", u.ProfileImageURL)
			}
		})
	}
}

// TestPlant_RoundTrip verifies float ranges and the boolean-as-int connected
// flag survive a round trip.
func TestPlant_RoundTrip(t *testing.T) {
	p := &model.Plant{
		ID:                 3,
		UserID:             7,
		Name:               "Basil",
		Type:               "indoor",
		Species:            "Ocimum basilicum",
		Connected:          true,
		MinSoilHumidity:    30.5,
		MaxSoilHumidity:    70,
		MinTemperature:     15,
		MaxTemperature:     28,
		MinAmbientHumidity: 40,
		MaxAmbientHumidity: 60,
		OptimalLight:       "bright indirect",
		CreatedAt:          1700000000000,
	}

	got := DecodePlant(EncodePlant(p))
	if *got != *p {
		t.Errorf("round trip changed the plant:\n got %+v\nwant %+v", got, p)
	}
}

// TestDecodePlant_NumberRepresentations verifies numeric fields decode from
// every representation remote JSON can arrive in. The remote tier does not
// distinguish 18 from 18.0, so both must land as the same float.
func TestDecodePlant_NumberRepresentations(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"float64", 18.0, 18},
		{"int64", int64(18), 18},
		{"int", 18, 18},
		{"json.Number integer", json.Number("18"), 18},
		{"json.Number decimal", json.Number("18.5"), 18.5},
		{"numeric string", "18.5", 18.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DecodePlant(FieldMap{"name": "Basil", "min_temperature": tt.value})
			if p.MinTemperature != tt.want {
				t.Errorf("MinTemperature = %g, want %g", p.MinTemperature, tt.want)
			}
		})
	}
}

// TestDecodeUser_IDRepresentations verifies integer fields tolerate the same
// representation spread.
func TestDecodeUser_IDRepresentations(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
	}{
		{"int64", int64(42), 42},
		{"float64", 42.0, 42},
		{"json.Number", json.Number("42"), 42},
		{"numeric string", "42", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := DecodeUser(FieldMap{"id": tt.value})
			if u.ID != tt.want {
				t.Errorf("ID = %d, want %d", u.ID, tt.want)
			}
		})
	}
}

// TestDecode_MissingFields verifies an empty document decodes to a zero
// record instead of failing.
func TestDecode_MissingFields(t *testing.T) {
	u := DecodeUser(FieldMap{})
	if u.ID != 0 || u.Email != "" || u.ProfileImageURL != "" {
		t.Errorf("empty document decoded to non-zero user: %+v", u)
	}

	p := DecodePlant(FieldMap{})
	if p.ID != 0 || p.Connected || p.MinSoilHumidity != 0 {
		t.Errorf("empty document decoded to non-zero plant: %+v", p)
	}
}

// TestDecode_UnknownFieldsIgnored verifies fields added by newer clients are
// skipped without error.
func TestDecode_UnknownFieldsIgnored(t *testing.T) {
	u := DecodeUser(FieldMap{
		"email":         "ana@example.com",
		"future_field":  "whatever",
		"nested_object": map[string]any{"a": 1},
	})
	if u.Email != "ana@example.com" {
		t.Errorf("Email = %q, want 'ana@example.com'", u.Email)
	}
}

func TestReading_RoundTrip(t *testing.T) {
	r := &model.SensorReading{
		ID:              12,
		PlantID:         3,
		SoilHumidity:    45.2,
		Temperature:     21.7,
		AmbientHumidity: 55,
		UVIndex:         3.1,
		WaterLevel:      80,
		PestCount:       2,
		Timestamp:       "1700000000000",
	}

	got := DecodeReading(EncodeReading(r))
	if *got != *r {
		t.Errorf("round trip changed the reading:\n got %+v\nwant %+v", got, r)
	}
}

// TestDecodeReading_TimestampStaysString verifies the timestamp is not
// coerced to a number even though it holds one.
func TestDecodeReading_TimestampStaysString(t *testing.T) {
	r := DecodeReading(FieldMap{"plant_id": int64(1), "timestamp": "1700000000000"})
	if r.Timestamp != "1700000000000" {
		t.Errorf("Timestamp = %q, want the original string", r.Timestamp)
	}
}

func TestAlert_RoundTrip(t *testing.T) {
	a := &model.Alert{
		ID:        5,
		PlantID:   3,
		Type:      "humidity",
		Title:     "Low soil humidity",
		Message:   "Basil needs water",
		Severity:  model.SeverityWarning,
		Read:      true,
		Icon:      "droplet",
		Timestamp: "1700000000000",
	}

	got := DecodeAlert(EncodeAlert(a))
	if *got != *a {
		t.Errorf("round trip changed the alert:\n got %+v\nwant %+v", got, a)
	}
}

// TestDecodeAlert_ReadFlagRepresentations verifies the read flag decodes
// from both the integer the local store writes and a genuine JSON boolean.
func TestDecodeAlert_ReadFlagRepresentations(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"int one", int64(1), true},
		{"int zero", int64(0), false},
		{"json.Number", json.Number("1"), true},
		{"bool", true, true},
		{"absent", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := FieldMap{"plant_id": int64(1), "title": "t"}
			if tt.value != nil {
				fields["read"] = tt.value
			}
			a := DecodeAlert(fields)
			if a.Read != tt.want {
				t.Errorf("Read = %v, want %v", a.Read, tt.want)
			}
		})
	}
}
