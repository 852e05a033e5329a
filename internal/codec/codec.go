package codec

import "github.com/angewomoon/masetero/internal/model"

// EncodeUser converts a user row to its remote document representation.
// Integer columns encode as integers, text columns as strings, and nullable
// columns that hold SQL NULL as genuine nulls.
func EncodeUser(u *model.User) FieldMap {
	return FieldMap{
		"id":                u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"password_hash":     u.PasswordHash,
		"profile_image_url": nullable(u.ProfileImageURL),
		"external_auth_id":  nullable(u.ExternalAuthID),
		"created_at":        u.CreatedAt,
		"updated_at":        u.UpdatedAt,
	}
}

// DecodeUser converts a remote document to a user record.
// Every field is optional; absent fields decode to zero values.
func DecodeUser(m FieldMap) *model.User {
	return &model.User{
		ID:              asInt64(m, "id"),
		Name:            asString(m, "name"),
		Email:           asString(m, "email"),
		PasswordHash:    asString(m, "password_hash"),
		ProfileImageURL: asNullableString(m, "profile_image_url"),
		ExternalAuthID:  asNullableString(m, "external_auth_id"),
		CreatedAt:       asInt64(m, "created_at"),
		UpdatedAt:       asInt64(m, "updated_at"),
	}
}

// EncodePlant converts a plant row to its remote document representation.
func EncodePlant(p *model.Plant) FieldMap {
	return FieldMap{
		"id":                   p.ID,
		"user_id":              p.UserID,
		"name":                 p.Name,
		"type":                 p.Type,
		"species":              nullable(p.Species),
		"scientific_name":      nullable(p.ScientificName),
		"image_url":            nullable(p.ImageURL),
		"connected":            boolToInt(p.Connected),
		"min_soil_humidity":    p.MinSoilHumidity,
		"max_soil_humidity":    p.MaxSoilHumidity,
		"min_temperature":      p.MinTemperature,
		"max_temperature":      p.MaxTemperature,
		"min_ambient_humidity": p.MinAmbientHumidity,
		"max_ambient_humidity": p.MaxAmbientHumidity,
		"optimal_light":        p.OptimalLight,
		"created_at":           p.CreatedAt,
		"updated_at":           p.UpdatedAt,
	}
}

// DecodePlant converts a remote document to a plant record.
func DecodePlant(m FieldMap) *model.Plant {
	return &model.Plant{
		ID:                 asInt64(m, "id"),
		UserID:             asInt64(m, "user_id"),
		Name:               asString(m, "name"),
		Type:               asString(m, "type"),
		Species:            asNullableString(m, "species"),
		ScientificName:     asNullableString(m, "scientific_name"),
		ImageURL:           asNullableString(m, "image_url"),
		Connected:          asBool(m, "connected"),
		MinSoilHumidity:    asFloat64(m, "min_soil_humidity"),
		MaxSoilHumidity:    asFloat64(m, "max_soil_humidity"),
		MinTemperature:     asFloat64(m, "min_temperature"),
		MaxTemperature:     asFloat64(m, "max_temperature"),
		MinAmbientHumidity: asFloat64(m, "min_ambient_humidity"),
		MaxAmbientHumidity: asFloat64(m, "max_ambient_humidity"),
		OptimalLight:       asString(m, "optimal_light"),
		CreatedAt:          asInt64(m, "created_at"),
		UpdatedAt:          asInt64(m, "updated_at"),
	}
}

// EncodeReading converts a sensor reading row to its remote document
// representation. The timestamp stays a string, matching what deployed
// clients already write.
func EncodeReading(r *model.SensorReading) FieldMap {
	return FieldMap{
		"id":               r.ID,
		"plant_id":         r.PlantID,
		"soil_humidity":    r.SoilHumidity,
		"temperature":      r.Temperature,
		"ambient_humidity": r.AmbientHumidity,
		"uv_index":         r.UVIndex,
		"water_level":      r.WaterLevel,
		"pest_count":       r.PestCount,
		"timestamp":        r.Timestamp,
	}
}

// DecodeReading converts a remote document to a sensor reading record.
func DecodeReading(m FieldMap) *model.SensorReading {
	return &model.SensorReading{
		ID:              asInt64(m, "id"),
		PlantID:         asInt64(m, "plant_id"),
		SoilHumidity:    asFloat64(m, "soil_humidity"),
		Temperature:     asFloat64(m, "temperature"),
		AmbientHumidity: asFloat64(m, "ambient_humidity"),
		UVIndex:         asFloat64(m, "uv_index"),
		WaterLevel:      asFloat64(m, "water_level"),
		PestCount:       asInt64(m, "pest_count"),
		Timestamp:       asString(m, "timestamp"),
	}
}

// EncodeAlert converts an alert row to its remote document representation.
func EncodeAlert(a *model.Alert) FieldMap {
	return FieldMap{
		"id":        a.ID,
		"plant_id":  a.PlantID,
		"type":      a.Type,
		"title":     a.Title,
		"message":   a.Message,
		"severity":  a.Severity,
		"read":      boolToInt(a.Read),
		"icon":      nullable(a.Icon),
		"timestamp": a.Timestamp,
	}
}

// DecodeAlert converts a remote document to an alert record.
func DecodeAlert(m FieldMap) *model.Alert {
	return &model.Alert{
		ID:        asInt64(m, "id"),
		PlantID:   asInt64(m, "plant_id"),
		Type:      asString(m, "type"),
		Title:     asString(m, "title"),
		Message:   asString(m, "message"),
		Severity:  asString(m, "severity"),
		Read:      asBool(m, "read"),
		Icon:      asNullableString(m, "icon"),
		Timestamp: asString(m, "timestamp"),
	}
}
