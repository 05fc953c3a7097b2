// Package runtime defines the narrow interfaces the bridge uses to talk to
// the machine-control kernel (motion, interpreter, tool table) and provides
// an in-process simulator that implements them for local development and
// tests. Per spec.md §1 the real kernel is an external collaborator — this
// package only owns the contract and the simulator, never a real motion
// binding.
package runtime

import (
	"context"

	"github.com/machinekit/mkwrapper-go/internal/status"
)

// Snapshot is the fresh runtime poll shape, identical to status.Snapshot.
type Snapshot = status.Snapshot

// ErrorKind classifies one item read off the runtime's error channel.
type ErrorKind int

const (
	NMLError ErrorKind = iota
	OperatorError
	NMLText
	OperatorText
	NMLDisplay
	OperatorDisplay
)

// ErrorEvent is one (kind, text) pair read from the runtime's error channel.
type ErrorEvent struct {
	Kind ErrorKind
	Text string
}

// StatPoller polls the runtime for a fresh state snapshot and drains its
// error channel. Poll and PollError are called from the control-loop
// context only (spec.md §5, context 2).
type StatPoller interface {
	// Poll returns the current full state snapshot.
	Poll(ctx context.Context) (Snapshot, error)
	// PollError drains at most one pending error-channel item. It returns
	// ok == false when nothing is pending.
	PollError(ctx context.Context) (event ErrorEvent, ok bool, err error)
}

// TeleopVector is the optional a,b,c[,u[,v[,w]]] argument to TRAJ_SET_TELEOP_VECTOR.
type TeleopVector struct {
	A, B, C    float64
	U, V, W    float64
	HasUVW     bool
	HasW       bool
}

// ToolOffset is the argument to TOOL_SET_OFFSET.
type ToolOffset struct {
	Index       int
	ZOffset     float64
	XOffset     float64
	Diameter    float64
	FrontAngle  float64
	BackAngle   float64
	Orientation int
}

// Commander is the one-method-per-verb bridge to the runtime's command
// surface (spec.md §4.E). Every method corresponds to exactly one row of
// the command table; command.Dispatcher is the only caller.
type Commander interface {
	Abort() error
	Auto(mode AutoMode, lineNumber int) error
	ProgramOpen(path string) error
	ResetInterpreter() error
	MDI(command string) error
	SetBlockDelete(enable bool) error
	SetOptionalStop(enable bool) error
	SetDebugLevel(level int) error
	SetFeedrateScale(scale float64) error
	SetMaxVelocity(velocity float64) error
	SetFeedHoldEnable(enable bool) error
	SetFeedOverrideEnable(enable bool) error
	SetSpindleOverrideEnable(enable bool) error
	SetSpindleOverrideScale(scale float64) error
	SetTrajMode(mode int) error
	SetTeleopEnable(enable bool) error
	SetTeleopVector(v TeleopVector) error
	SetAdaptiveFeed(enable bool) error
	SetAnalogOutput(index int, value float64) error
	SetDigitalOutput(index int, enable bool) error
	HomeAxis(index int) error
	UnhomeAxis(index int) error
	AbortAxis(index int) error
	JogContinuous(index int, velocity float64) error
	JogIncremental(index int, velocity, distance float64) error
	OverrideLimits() error
	SetMaxPositionLimit(index int, value float64) error
	SetMinPositionLimit(index int, value float64) error
	FloodOn() error
	FloodOff() error
	MistOn() error
	MistOff() error
	SpindleOn(velocity float64) error
	SpindleIncrease() error
	SpindleDecrease() error
	SpindleConstant() error
	SpindleOff() error
	BrakeEngage() error
	BrakeRelease() error
	SetTaskMode(mode int) error
	SetTaskState(state int) error
	LoadToolTable() error
	SetToolOffset(o ToolOffset) error
}

// AutoMode selects the PLAN_* auto-mode argument passed to Commander.Auto.
type AutoMode int

const (
	AutoPause AutoMode = iota
	AutoResume
	AutoStep
	AutoRun
)
