// Package services provides domain services that coordinate several order
// aggregates at once.
//
// The package includes:
//   - LoadQueue: keeps the manually ordered loading queue of pending orders dense
//     (ranks exactly 1..N) across reorders, appends, removals and lifecycle moves
package services
