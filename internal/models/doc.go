// package models defines the data model for playlist reconciliation.
//
// SongEntry, CatalogEntry and MatchResult are transient values with no
// persistence requirement; ImportRun rows are persisted by
// [stationport/internal/repositories] for run history.
package models
