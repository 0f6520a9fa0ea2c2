// Package planner computes where each column of samples goes.
//
// A run moves samples in groups of eight (one stroke of an 8-channel pipette).
// The planner turns a sample count and two starting positions into an ordered
// list of 384-well destinations and an ordered list of 96-well columns, and
// rejects any configuration that would run off either plate.
//
// Key responsibilities:
//   - Parse and format well labels ("A1".."B12")
//   - Compute the number of 8-sample columns a run needs
//   - Generate the A/B interleaved 384-well destination sequence
//   - Enforce plate capacity before any transfer is attempted
//
// Planning is pure: identical inputs always produce identical plans.
package planner
