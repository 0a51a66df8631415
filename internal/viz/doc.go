// Package viz renders spin-top runs in the terminal.
//
// [PlotSeries] and [Summary] format batch results for the CLI. [Model] is a
// Bubble Tea program that steps an experiment live, drawing a braille side
// view of the scene with the controller status beside it.
//
// # Key Bindings
//
//	u     - Use: place or toss the held top
//	g     - Grab the top back into the hand
//	Space - Pause/Resume
//	R     - Rebuild the scene with the next seed
//	T     - Cycle colour themes
//	?     - Show help
package viz
