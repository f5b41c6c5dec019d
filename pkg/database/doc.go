// Package database provides the SQL connection and query collaborators
// plugins use for persistence.
//
// Connection wraps a database/sql pool opened with the mysql, postgres or
// sqlite3 driver. Query binds one statement to a connection and returns
// rows as column maps:
//
//	conn, err := database.Open(ctx, cfg, log)
//	rows, err := conn.Query("SELECT id, name FROM users WHERE id = ?", id).Rows(ctx)
package database
