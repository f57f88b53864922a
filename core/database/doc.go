// Package database handles database connections and schema inspection for the
// render journal.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL or SQLite connections based on the application's configuration.
//
// # Connect
//
// Connect establishes a connection to the database and verifies it with a ping bounded
// by the configured timeout. SQLite is limited to a single connection so in-memory
// databases survive between queries.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns inspect a table's columns. The journal uses them
// to verify its table when automatic migration is turned off.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "render_journal", []string{"id", "surface"})
package database
