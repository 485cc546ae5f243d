// Package tilemap turns an intensity field into a grid of tile indices.
//
// [Build] walks a [Field] in row-major order (row 0 first, left to right),
// blends each intensity, resolves it to a tile name through a step table and
// interns the name in an [Index]. The scan order is part of the contract: it
// fixes both the sequence of random draws and the order in which tile names
// receive their indices, so identical inputs always produce identical maps.
//
// Indices are 1-based and compact. Only tiles that actually appear in the
// grid are indexed, numbered by first appearance.
package tilemap
