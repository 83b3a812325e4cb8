// Package ldraw invokes the external dat2stl tool to render LDraw part
// definitions into STL meshes.
//
// The client checks for the source asset first (exact then lowercase
// filename), runs the tool as a child process bounded by a wall-clock
// timeout, and buffers raw stdout so the ASCII STL payload is written
// verbatim. Output lands via temp-file-and-rename, so a destination STL only
// exists when a conversion fully succeeded. Failures classify through the
// services sentinels: missing source assets as ErrNotFound, timeouts as
// ErrTimeout, and tool failures as ErrExternalTool with captured stderr.
package ldraw
