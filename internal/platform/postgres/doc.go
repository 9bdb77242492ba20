// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in the internal/store package, together with the
// embedded goose migrations that create their tables.
// It handles query execution and the mapping between domain entities
// (session outcomes, activity events) and database rows.
package postgres
