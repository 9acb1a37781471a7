package step

import "iter"

// Source pulls Steps on demand. It exists for traces too large to
// materialize up front; the trace engine appends pulled Steps to its
// history as they arrive.
type Source struct {
	next func() (Step, bool)
	stop func()
}

// NewSource adapts a push-style sequence into a pull-style Source.
func NewSource(seq iter.Seq[Step]) *Source {
	next, stop := iter.Pull(seq)
	return &Source{next: next, stop: stop}
}

// Next returns the next Step. ok is false once the sequence is exhausted
// or stopped.
func (s *Source) Next() (Step, bool) {
	return s.next()
}

// Stop releases the generator. Further Next calls report exhaustion.
func (s *Source) Stop() {
	s.stop()
}

// Collect drains src into a slice.
func Collect(src *Source) []Step {
	var out []Step
	for {
		st, ok := src.Next()
		if !ok {
			return out
		}
		out = append(out, st)
	}
}
