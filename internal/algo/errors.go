package algo

import "github.com/cockroachdb/errors"

var (
	// ErrUnknownAlgorithm indicates a registry lookup for a name that was
	// never registered.
	ErrUnknownAlgorithm = errors.New("algoviz/algo: unknown algorithm")

	// ErrParams indicates missing or unusable adapter parameters.
	ErrParams = errors.New("algoviz/algo: invalid parameters")

	// ErrNegativeWeight indicates an algorithm that requires non-negative
	// weights was handed a negative edge.
	ErrNegativeWeight = errors.New("algoviz/algo: negative edge weight")
)
