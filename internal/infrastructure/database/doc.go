// Package database owns the daemon's SQLite handle: opening the file
// with the right pragmas (WAL, foreign keys, busy timeout), restricting
// it to a single pooled connection, and applying the embedded schema
// migrations at startup.
//
// The store holds rules, their activity metrics, and the persisted
// daemon settings. It is small and local; the single-connection pool
// keeps SQLite's one-writer model honest without lock juggling.
//
// Typical startup:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations live in the migrations package as paired
// YYYYMMDD_HHMMSS_description.{up,down}.sql files and run oldest first,
// one transaction each.
package database
