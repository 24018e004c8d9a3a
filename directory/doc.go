// Package directory provides ready-made UserDirectory implementations.
//
// Memory keeps records in process and suits tests and examples.
// Postgres persists records through database/sql with sqlx and is the
// intended production backend.
package directory
