// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL (production) or SQLite (local runs, tests)
// connections from the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns reads the live column layout of a table. The integrity feature
// compares it with the product document model to detect drift after manual migrations.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "products")
package database
