// Package codec converts records between their local row representation and
// the field maps stored as child documents in the remote tree.
//
// Decoding is tolerant: remote documents are schema-less and may
// have been written by older clients, so every field is optional and absent
// fields leave the record attribute at its zero value. Numeric fields are
// accepted in whatever representation the remote JSON arrived as (int64,
// float64, or json.Number) and normalized to the record's declared type.
//
// SQL NULL in a nullable text column encodes as a genuine null field value.
// Earlier clients wrote the literal string "null" instead; decoding still
// folds that legacy literal back to an application-level null so data they
// produced remains readable.
package codec

import (
	"encoding/json"
	"strconv"
)

// FieldMap is the dynamic document representation used by the remote store:
// field name to value, typed per field (string, number, boolean, or null).
type FieldMap map[string]any

// asInt64 coerces a remote field value to int64. Absent or unconvertible
// values yield zero.
func asInt64(m FieldMap, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// asFloat64 coerces a remote field value to float64. Integer representations
// are widened; absent or unconvertible values yield zero.
func asFloat64(m FieldMap, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

// asString coerces a remote field value to a string. Absent fields and
// non-string values yield the empty string.
func asString(m FieldMap, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// asNullableString is asString plus the null conventions of nullable text
// columns: a genuine null, an absent field, and the legacy "null" literal
// all decode to the empty string.
func asNullableString(m FieldMap, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok || s == "null" {
		return ""
	}
	return s
}

// asBool coerces a remote field value to bool. The local store persists
// booleans as integers, so numeric representations are accepted alongside
// genuine JSON booleans.
func asBool(m FieldMap, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case float64:
		return v != 0
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n != 0
		}
	}
	return false
}

// nullable encodes a nullable text column: SQL NULL (empty string) becomes
// a genuine null field value rather than an empty or "null" string.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt encodes a boolean-as-int column.
func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
