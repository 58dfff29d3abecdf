// Package config loads the inventory tracker settings.
//
// Values come from the environment, optionally seeded from a .env file in the
// given directory. Each section is owned by the package that consumes it and
// declares its own defaults through `default` struct tags:
//   - Server: port, JWT secret and issuer, body limit
//   - Database: mysql or sqlite connection for the document store
//   - Storage: MinIO/S3 endpoint and export bucket
//   - Log: level, format and optional rotated file
//   - Inventory: time zone and sweep schedule
//   - Insights: provider, credentials and cache backend
//   - Notify: alert sink (log or amqp)
//   - Scan: decoder pool size and timeout
//
// Nested keys map to upper-case variables joined by underscores, so
// insights.api_key is read from INSIGHTS_API_KEY. LoadConfig rejects unknown
// drivers, providers and time zones up front, listing every bad key at once.
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
