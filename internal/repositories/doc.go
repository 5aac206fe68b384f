// package repositories contains data access for run history.
//
// Finished reconciliation runs and their unmatched entries are kept in
// SQLite so thresholds can be tuned across runs without re-fetching the
// catalog. The catalog snapshot itself is never persisted.
package repositories
