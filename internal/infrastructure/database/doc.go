// Package database manages the SQLite connection for the user device store.
//
// This package provides:
//   - Connection management with WAL mode and busy timeout pragmas
//   - Embedded schema migrations (registered by the migrations package)
//   - Health checks and pool statistics
//
// SQLite is used as a small key-value store keyed by device id, with
// secondary indexes for lookup by type and description. The default
// catalog is never written here; only user-added devices are persisted.
package database
