// Package inventory keeps a live, per-owner inventory in sync with the
// document store and exposes it over HTTP.
//
// The first request for an owner subscribes to the store. Every snapshot is
// normalized, overlaid with unsaved status edits and run through the expiry
// rules; products that just expired are written back in the background and
// products entering the two-day window raise a single alert per process.
//
// Writes:
//   - SetStatus edits memory only; SaveChanges persists all edits as one batch.
//   - Scan merges a QR payload (insert or quantity increment).
//   - AddManual inserts a hand-typed product without qrId.
//   - Sweep runs the expiry rules directly against the store, for the CLI and
//     the scheduler.
//
// Reads (Snapshot, View, ExpiringSoon, Export) always return copies.
package inventory
