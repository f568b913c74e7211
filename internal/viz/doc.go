// Package viz renders insertion sort traces in the terminal.
//
// [Model] is the interactive Bubble Tea app: it reads a list of numbers and
// a step delay, runs the trace generator, and redraws on every event.
// [ReplayModel] plays back a stored trace.
//
// The array is drawn as a row of cells: the j cell is red, the j+1 cell is
// blue and the rest are gray. The pseudocode listing highlights the lines
// that produced the current step.
//
// # Key Bindings
//
//	Enter - Start or restart a run
//	Tab   - Cycle numbers / delay / command mode
//	C / S - Toggle time and space complexity charts
//	B     - Toggle braille bar view
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
