package domain

import "time"

// Resolution is the outcome of looking up the latest structured result.
type Resolution struct {
	Result StructuredResult
	// Call is the fully fetched call the result came from; nil when none was found.
	Call *Call
	// Inspected counts the successful calls examined, for operator diagnostics.
	Inspected int
}

// Found reports whether a non-empty result was resolved.
func (r *Resolution) Found() bool {
	return r != nil && r.Call != nil && !r.Result.Empty()
}

// FlowOutcome summarizes a single flow run.
type FlowOutcome struct {
	RunID       string
	Flow        Flow
	Stage       Stage
	FailedStage Stage
	CallID      string
	CallStatus  CallStatus
	Inspected   int
	StartedAt   time.Time
	EndedAt     time.Time
	Err         error
}

// Aborted reports whether the run ended in the ABORTED state.
func (o *FlowOutcome) Aborted() bool {
	return o.Stage == StageAborted
}
