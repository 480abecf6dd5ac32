// Package viz provides a terminal-based live view of a running fluid
// simulation.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: steps a [fluid.Engine] and renders its particle cloud
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Camera] / [Wireframe] / [Render3D]: projects the particle cloud from
//     3D world space onto the canvas
//   - 5 built-in color [Theme] values; the model cycles its selected theme,
//     but the live view's rendered styles stay fixed
//
// # Key Bindings
//
//	Space     - Pause/Resume simulation
//	r         - Reset run clock and energy history
//	t         - Cycle the selected color theme
//	g         - Toggle GIF recording
//	x X y Y z Z - Rotate camera
//	+ -       - Zoom in/out
//	?         - Show help overlay
//
// # Recording
//
// The visualization supports recording simulation sessions as GIF animations
// using the g key. Recordings are saved to the current directory.
package viz
