// Package device provides the blind device model, the persistent user
// store, and the layered registry.
//
// The registry merges two sources into one deduplicated list:
//
//   - the default catalog, compiled into the binary and immutable
//   - the user store (SQLite in production, in-memory for tests), holding
//     devices the user has added or overridden
//
// An id present in both resolves to the user entry. The merge is recomputed
// from the store on every read, and the full merged snapshot is pushed to
// subscribers after every successful mutation.
package device
