// Package logger builds the zap loggers used by the server and the CLI.
//
// Debug level selects zap's development config, anything else the production
// one. Format picks json or console encoding, and File adds a lumberjack
// rotated file next to stderr.
//
// Two helpers scope a logger to what is being handled:
//   - WithRayID tags entries with the request's ray id (see core/middleware/rayid).
//   - WithOwner tags entries with the inventory owner.
//
//	log, _ := logger.New(&cfg.Log)
//	logger.WithOwner(log, owner).Info("Marked products as expired", zap.Int("count", n))
package logger
