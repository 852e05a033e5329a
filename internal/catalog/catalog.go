// Package catalog is the static registry of transferable table kinds.
//
// Every table the sync engine can move between the local SQLite store and
// the remote tree has exactly one entry here, declaring its local table
// name, its path segment in the remote tree, its dependency rank, and how
// existing records are recognized during import.
package catalog

import "fmt"

// Kind identifies one of the four transferable record kinds.
type Kind string

const (
	Users          Kind = "users"
	Plants         Kind = "plants"
	SensorReadings Kind = "sensor_readings"
	Alerts         Kind = "alerts"
)

// NaturalKey describes how an incoming record is matched against local rows
// during import.
type NaturalKey int

const (
	// KeyNone means no existence check: every imported record inserts.
	KeyNone NaturalKey = iota
	// KeyEmail matches users by their email address.
	KeyEmail
	// KeyID matches by the id field carried in the remote payload.
	KeyID
)

// Spec declares one transferable table.
type Spec struct {
	Kind       Kind
	LocalTable string
	RemotePath string

	// Rank orders tables so foreign-key targets transfer before their
	// referents: users(0) < plants(1) < readings/alerts(2).
	Rank int

	Key NaturalKey

	// ProgressStride is how many records pass between progress callbacks
	// during import. Exports report on a fixed cadence for every table.
	ProgressStride int
}

// specs holds the catalog in ascending rank order. The slice order is the
// transfer order; do not reorder entries.
var specs = []Spec{
	{Kind: Users, LocalTable: "users", RemotePath: "users", Rank: 0, Key: KeyEmail, ProgressStride: 5},
	{Kind: Plants, LocalTable: "plants", RemotePath: "plants", Rank: 1, Key: KeyID, ProgressStride: 5},
	{Kind: SensorReadings, LocalTable: "sensor_readings", RemotePath: "sensor_readings", Rank: 2, Key: KeyNone, ProgressStride: 10},
	{Kind: Alerts, LocalTable: "alerts", RemotePath: "alerts", Rank: 2, Key: KeyNone, ProgressStride: 10},
}

// All returns every table spec in transfer (ascending rank) order.
// The returned slice is a copy and safe to retain.
func All() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup returns the spec for the given kind.
func Lookup(kind Kind) (Spec, error) {
	for _, s := range specs {
		if s.Kind == kind {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("unknown table kind %q", kind)
}

// Kinds returns the transferable kinds in transfer order.
func Kinds() []Kind {
	out := make([]Kind, len(specs))
	for i, s := range specs {
		out[i] = s.Kind
	}
	return out
}
