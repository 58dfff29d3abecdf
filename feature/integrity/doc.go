// Package integrity provides system health checks for the inventory tracker.
//
// # Checks Provided
//
//   - Schema: compares the products table with the document model (columns,
//     declared types and the per-owner qrId unique index).
//   - Storage: checks that the export bucket exists and holds the export prefix.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
