// Package postgres implements the internal/store interfaces on PostgreSQL
// through database/sql and the pgx driver. It also maps driver errors to the
// store sentinels and applies the embedded schema migrations.
package postgres
