// Package model defines the four record kinds the masetero client persists:
// users, plants, sensor readings, and alerts.
//
// Records are flat value types with scalar fields only, so they map cleanly
// onto both persistence tiers: columns in the local SQLite store and fields
// of a child document in the remote tree. Nullable text columns are plain
// strings where the empty string stands for SQL NULL; the codec package is
// responsible for translating that convention at the remote boundary.
//
// Timestamps on users and plants are epoch milliseconds. Sensor readings and
// alerts carry their timestamp as a string-encoded epoch value, matching the
// format already written by deployed clients.
package model
