package graph

import "github.com/cockroachdb/errors"

// Dataset mutation errors. Every rejected mutation leaves the dataset
// unchanged.
var (
	// ErrMissingNode indicates an operation referenced a node id that is
	// not in the dataset.
	ErrMissingNode = errors.New("algoviz/graph: node not found")

	// ErrMissingEdge indicates an operation referenced an edge id that is
	// not in the dataset.
	ErrMissingEdge = errors.New("algoviz/graph: edge not found")

	// ErrDuplicateID indicates an insert with an id already present.
	ErrDuplicateID = errors.New("algoviz/graph: duplicate id")

	// ErrIntegrity indicates a mutation that would leave a reference to a
	// nonexistent element, such as an edge naming a missing endpoint.
	ErrIntegrity = errors.New("algoviz/graph: referential integrity violation")
)
