package viz

import "github.com/cockroachdb/errors"

var (
	// ErrNoSurface indicates a render or export before Initialize.
	ErrNoSurface = errors.New("algoviz/viz: no surface attached")

	// ErrNoRun indicates a stepping operation with no active run.
	ErrNoRun = errors.New("algoviz/viz: no algorithm run")

	// ErrClosed indicates use after Close.
	ErrClosed = errors.New("algoviz/viz: visualizer closed")
)
