// Package docstore stores inventory products as JSON documents in a relational
// table and notifies subscribers after every committed write.
//
// Documents are keyed by a generated uuid and scoped by owner. The qrId of a
// document is mirrored into an indexed column with a unique (owner, qrId)
// constraint, so two scans racing to insert the same code cannot both succeed;
// the loser gets ErrDuplicate.
//
// Subscriptions are per owner. Subscribe delivers the current snapshot
// immediately and a fresh one after each Insert or BatchUpdate for that owner.
// Deliveries for one owner never overlap.
package docstore
