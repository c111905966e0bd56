// Package viz renders assembly runs in the terminal.
//
// Static output (run tables, summaries, time-series plots) is plain
// strings for the CLI. [LiveModel] is a Bubble Tea program that steps a
// [sim.System] and draws its monomers on a Braille [Canvas], and [Menu]
// picks a preset to launch it.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Single step while paused
//	[ ]   - Halve/double steps per frame
//	x y z - Rotate the camera (shift reverses)
//	+ -   - Zoom
//	T     - Cycle color themes
//	?     - Toggle full help
package viz
