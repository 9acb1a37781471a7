package viz

import "github.com/vizlab/algoviz/internal/step"

// Status summarizes the outcome of a visualizer operation.
type Status uint8

const (
	// StatusOK reports the operation took effect.
	StatusOK Status = iota
	// StatusNoOp reports a valid operation with nothing to do, such as a
	// camera rotation on a 2-D view.
	StatusNoOp
	// StatusCancelled reports a cooperative stop; completed work is kept.
	StatusCancelled
	// StatusFailed reports a rejected operation; the visualizer is
	// unchanged unless the result says otherwise.
	StatusFailed
)

var statusNames = [...]string{
	StatusOK:        "ok",
	StatusNoOp:      "no-op",
	StatusCancelled: "cancelled",
	StatusFailed:    "failed",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Result is the uniform envelope returned by every mutating visualizer
// operation. Expected failures (removing an unknown id, stepping with no
// run) are reported here rather than panicking.
type Result struct {
	Status  Status
	Err     error
	NodeIDs []string
	EdgeIDs []string

	// Step is the step applied or reversed by a stepping operation.
	Step *step.Step
}

// OK reports whether the operation took effect.
func (r Result) OK() bool { return r.Status == StatusOK }

func ok() Result                   { return Result{Status: StatusOK} }
func okNodes(ids ...string) Result { return Result{Status: StatusOK, NodeIDs: ids} }
func okEdges(ids ...string) Result { return Result{Status: StatusOK, EdgeIDs: ids} }
func noOp() Result                 { return Result{Status: StatusNoOp} }
func cancelled(err error) Result   { return Result{Status: StatusCancelled, Err: err} }
func failed(err error) Result      { return Result{Status: StatusFailed, Err: err} }
