// Package storage wraps the MinIO Go client behind the Client interface and
// keeps inventory CSV exports in a bucket (AWS S3 or self-hosted MinIO).
// Tests use the testify mock in core/storage/mocks.
//
// Archive lays snapshots out as <prefix>/<owner>/<timestamp>.csv, so listing
// an owner's prefix in key order is listing by age:
//
//	archive := storage.NewArchive(client, cfg.Storage)
//	key, err := archive.Put(ctx, owner, csv)
//	removed, err := archive.Prune(ctx, owner, cfg.Storage.KeepExports)
package storage
