// Package layout maps a lacing pattern onto two concentric circles.
//
// Rim holes sit on the outer circle, hole 1 at the top (the valve) and
// numbering increasing clockwise. Each flange gets its own smaller circle,
// shifted sideways so both stay legible; the right flange (drive side) is the
// larger one on +x. Flange hub holes are rotated so that each flange's
// reference spoke points straight at its rim hole.
//
// Coordinates are in SVG orientation: +y points down, so increasing angles
// run clockwise on screen. Map is pure and has no failure mode.
package layout
