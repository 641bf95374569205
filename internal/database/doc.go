// Package database manages the connection pool to the scheduling database.
//
// Two database/sql drivers are registered: lib/pq for the production
// Postgres backend and mattn/go-sqlite3, which also backs the test
// fixtures. Statements are written with ? placeholders and rebound to
// $1..$n when running against Postgres.
//
// The pool applies a configured per-query timeout; every query a service
// issues runs under a context derived via WithQueryTimeout, so a stuck
// database cannot hang a tool invocation indefinitely.
package database
