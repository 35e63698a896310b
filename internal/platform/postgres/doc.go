// Package postgres implements the internal/store interfaces on PostgreSQL.
// Queries are assembled with squirrel using dollar placeholders and run
// through store.DBTX, so every store can be bound to a transaction with
// WithTx. The package also embeds the SQL schema migrations and applies
// them with goose.
package postgres
