// package ui renders reconciliation progress as an interactive terminal
// view built on bubbletea, consuming the engine's progress channel.
package ui
