// Package reconcile holds the inventory reconciliation rules: how loosely typed
// stored records become canonical products, how products age, how scans merge
// into existing stock and how the inventory is projected for display.
//
// Everything here is pure except Task and ApplyPlan; storage and transport are
// supplied by callers.
//
// # Components
//
// 1. Normalize: decodes a stored record (canonical or legacy field names) into a
// Product. It never fails; each unrecoverable field gets its own default.
//
// 2. Evaluate: moves "in use" products past their expiry to "expired", reports the
// batch of updates to persist and the products expiring within two days.
//
// 3. Resolve: turns a scan into an insert or a quantity increment of the owner's
// product with the same qrId.
//
// 4. Project: search, status filter and stable expiry ordering for views.
//
// # Sweeps
//
// BuildPlan and ApplyPlan split the expiry sweep into a report and a confirmed
// write, so the CLI can show what will change before anything is stored:
//
//	plan := reconcile.BuildPlan(owner, records, time.Now().In(loc))
//	n, err := reconcile.ApplyPlan(ctx, store, plan, reconcile.Options{Confirmed: true})
//
// # Tasks
//
// Writes triggered from snapshots run as Task values. Callers may Wait on them,
// inspect Err after Done, or drop them.
package reconcile
