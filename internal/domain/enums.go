// Package domain defines the core domain models for callbuddy.
package domain

// CallStatus represents the lifecycle state of a call on the voice platform.
type CallStatus string

const (
	CallStatusQueued     CallStatus = "queued"
	CallStatusRinging    CallStatus = "ringing"
	CallStatusInProgress CallStatus = "in-progress"
	CallStatusForwarding CallStatus = "forwarding"
	CallStatusEnded      CallStatus = "ended"
)

// Stage represents a state of a flow run.
type Stage string

const (
	StageValidating Stage = "VALIDATING"
	StageResolving  Stage = "RESOLVING"
	StageUpdating   Stage = "UPDATING"
	StageCalling    Stage = "CALLING"
	StageDone       Stage = "DONE"
	StageAborted    Stage = "ABORTED"
)

// Flow identifies which scheduled call a run belongs to.
type Flow string

const (
	FlowMorning Flow = "morning"
	FlowEvening Flow = "evening"
)

// Message roles used in assistant model configuration.
const (
	RoleSystem = "system"
)
