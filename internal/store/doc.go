// Package store defines the persistence interfaces used by the service layer:
// UserStore for accounts and ItemStore for to-do items. Implementations live
// in internal/platform/postgres. The package also provides the shared error
// values those implementations return and RunInTransaction for running a
// unit of work against a *sql.DB.
package store
