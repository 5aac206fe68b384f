// package tasks implements the end-to-end playlist reconciliation run.
//
// The core abstraction is Engine, which drives the catalog cache, scores
// every input reference (with an orientation-swapped fallback), and performs
// the create-then-populate sequence against the remote playlist API.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
