// Package viz renders integration results for the terminal.
//
//   - [RenderDerivation]: contribution trees of one step, colored by quantity
//   - [ErrorPlot], [CompareErrors]: asciigraph charts of per-step errors
//   - [Canvas]: Braille plot of computed and reference trajectories
//
// Styles come from lipgloss and degrade to plain text when stdout is not a
// terminal.
package viz
