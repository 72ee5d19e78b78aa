// Package terminal is a local frontend that plays a session in a terminal.
//
// Key presses become commands: arrows, WASD or hjkl steer and move menu
// cursors, Enter or Space confirm, Esc or Backspace go back, and q or
// Ctrl-C quit. Mouse motion is converted to pixel positions in the game
// layout, so hovering, dwelling and steering toward the pointer behave as
// they do in the desktop client.
//
// The renderer rasterizes the pixel layout at 10x20 pixels per cell; the
// default layout needs a 100x38 terminal.
package terminal
