package trace

// Status classifies the outcome of one navigation call.
type Status uint8

const (
	// Advanced means the cursor moved forward by one step.
	Advanced Status = iota
	// SteppedBack means the cursor moved back by one step.
	SteppedBack
	// Halted means the cursor advanced onto a step with a breakpoint.
	Halted
	// AtStart means the cursor was already before the first step.
	AtStart
	// AtEnd means every step has been applied.
	AtEnd
	// Jumped means the cursor landed on an explicitly requested step.
	Jumped
	// Cancelled means the context expired before the move completed.
	Cancelled
	// Failed means the engine hit an integrity error and refuses further
	// navigation.
	Failed
)

var statusNames = [...]string{
	Advanced:    "advanced",
	SteppedBack: "stepped-back",
	Halted:      "halted",
	AtStart:     "at-start",
	AtEnd:       "at-end",
	Jumped:      "jumped",
	Cancelled:   "cancelled",
	Failed:      "failed",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}
