// Package sync moves records between the local SQLite store and the remote
// document tree, in both directions.
//
// # Transfer model
//
// The engine walks the table catalog in dependency-rank order (users before
// plants before sensor readings and alerts), so foreign-key targets land
// before their referents. Each table transfers independently: record-level
// failures are counted and reported but never abort the table, and
// table-level failures never abort the run.
//
// Exporting upserts every local row into the remote path, keyed by the
// string form of the local primary key. A write counts as successful only
// once the remote store acknowledges it.
//
// Importing takes a single snapshot of the remote path and lands each child
// locally. Users upsert by email, plants by the id carried in the payload;
// sensor readings and alerts are append-only event logs and always insert,
// so re-importing a snapshot duplicates them.
//
// A snapshot read has a fixed per-table deadline (30 seconds by default).
// Expiry is surfaced as a table-level error, distinguishable from a
// genuinely empty remote path.
//
// # Observing a run
//
// All progress flows through the ProgressReporter callbacks: zero or more
// OnProgress per table, exactly one OnTableComplete per table attempted,
// zero or more OnError, and exactly one OnComplete per full run.
//
// ExportAll and ImportAll are synchronous. RunFullExport and RunFullImport
// wrap them in a dedicated worker goroutine for callers that must not
// block, which is how the UI layer invokes them.
package sync
