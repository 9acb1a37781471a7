package trace

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfRange reports a jump target outside the step sequence.
	ErrOutOfRange = errors.New("algoviz/trace: step index out of range")

	// ErrBadStep reports a step whose index or references do not fit the
	// sequence being applied.
	ErrBadStep = errors.New("algoviz/trace: malformed step")

	// ErrDiverged reports a replayed step that produced a different
	// dataset than its first application.
	ErrDiverged = errors.New("algoviz/trace: replay diverged")
)
