// Package graph holds the dataset model every visualization operates on:
// nodes, edges, and the integrity rules that keep them consistent.
//
// A [Dataset] preserves node insertion order, which doubles as the element
// order for sequence (array) views; [Dataset.MoveNode] and
// [Dataset.SetOrder] reorder it. Edges must reference existing nodes and
// removal of a node cascades to its edges, so the structure can never hold
// a dangling reference. Tree-shaped data is expressed with directed
// parent links maintained by [Dataset.Reparent] and read back through
// [Dataset.ParentOf] and [Dataset.ChildrenOf].
//
// [Dataset.Checksum] hashes the full visible content (order, values,
// states, positions, parent links) and is the primitive replay
// verification is built on: two datasets produced by the same Step prefix
// always hash identically.
package graph
