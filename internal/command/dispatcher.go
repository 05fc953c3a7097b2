// Package command implements the command dispatcher (spec.md §4.E): decode
// an inbound envelope, validate its required parameter fields for that
// message kind, invoke the corresponding runtime.Commander method, and
// build the reply envelope.
package command

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/machinekit/mkwrapper-go/internal/runtime"
	"github.com/machinekit/mkwrapper-go/internal/wire"
)

// Dispatcher is the single-threaded command-socket handler (spec.md §5,
// context 1). It is driven exclusively by the socket-poll context.
type Dispatcher struct {
	commander  runtime.Commander
	programDir string
	logger     *logrus.Logger
}

// New returns a Dispatcher invoking commander for every recognized
// command, resolving PLAN_OPEN paths relative to programDir.
func New(commander runtime.Commander, programDir string, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{commander: commander, programDir: programDir, logger: logger}
}

type handler func(d *Dispatcher, p wire.CommandParams) error

type spec struct {
	required wire.ParamField
	run      handler
}

// commandTable mirrors the command-kind table of spec.md §4.E exactly: one
// entry per kind, naming its required parameter fields and the runtime
// call it makes once those fields are present.
var commandTable = map[wire.MessageType]spec{
	wire.MTTaskAbort: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.Abort()
	}},
	wire.MTPlanPause: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.Auto(runtime.AutoPause, 0)
	}},
	wire.MTPlanResume: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.Auto(runtime.AutoResume, 0)
	}},
	wire.MTPlanStep: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.Auto(runtime.AutoStep, 0)
	}},
	wire.MTPlanRun: {wire.FieldLineNumber, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.Auto(runtime.AutoRun, p.LineNumber)
	}},
	wire.MTPlanOpen: {wire.FieldPath, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.ProgramOpen(filepath.Join(d.programDir, p.Path))
	}},
	wire.MTPlanInit: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.ResetInterpreter()
	}},
	wire.MTPlanExecute: {wire.FieldCommand, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.MDI(p.Command)
	}},
	wire.MTPlanSetBlockDelete: {wire.FieldEnable, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetBlockDelete(p.Enable)
	}},
	wire.MTPlanSetOptionalStop: {wire.FieldEnable, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetOptionalStop(p.Enable)
	}},
	wire.MTSetDebug: {wire.FieldDebugLevel, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetDebugLevel(p.DebugLevel)
	}},
	wire.MTTrajSetScale: {wire.FieldScale, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetFeedrateScale(p.Scale)
	}},
	wire.MTTrajSetMaxVelocity: {wire.FieldVelocity, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetMaxVelocity(p.Velocity)
	}},
	wire.MTTrajSetFHEnable: {wire.FieldEnable, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetFeedHoldEnable(p.Enable)
	}},
	wire.MTTrajSetFOEnable: {wire.FieldEnable, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetFeedOverrideEnable(p.Enable)
	}},
	wire.MTTrajSetSOEnable: {wire.FieldEnable, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetSpindleOverrideEnable(p.Enable)
	}},
	wire.MTTrajSetSpindleScale: {wire.FieldScale, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetSpindleOverrideScale(p.Scale)
	}},
	wire.MTTrajSetMode: {wire.FieldTrajMode, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetTrajMode(p.TrajMode)
	}},
	wire.MTTrajSetTeleopEnable: {wire.FieldEnable, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetTeleopEnable(p.Enable)
	}},
	wire.MTTrajSetTeleopVector: {wire.FieldA | wire.FieldB | wire.FieldC, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetTeleopVector(runtime.TeleopVector{
			A: p.A, B: p.B, C: p.C,
			U: p.U, V: p.V, W: p.W,
			HasUVW: p.Present.Has(wire.FieldU),
			HasW:   p.Present.Has(wire.FieldW),
		})
	}},
	wire.MTMotionAdaptive: {wire.FieldEnable, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetAdaptiveFeed(p.Enable)
	}},
	wire.MTMotionSetAOut: {wire.FieldIndex | wire.FieldValue, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetAnalogOutput(p.Index, p.Value)
	}},
	wire.MTMotionSetDOut: {wire.FieldIndex | wire.FieldEnable, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetDigitalOutput(p.Index, p.Enable)
	}},
	wire.MTAxisHome: {wire.FieldIndex, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.HomeAxis(p.Index)
	}},
	wire.MTAxisUnhome: {wire.FieldIndex, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.UnhomeAxis(p.Index)
	}},
	wire.MTAxisAbort: {wire.FieldIndex, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.AbortAxis(p.Index)
	}},
	wire.MTAxisJog: {wire.FieldIndex | wire.FieldVelocity, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.JogContinuous(p.Index, p.Velocity)
	}},
	wire.MTAxisIncrJog: {wire.FieldIndex | wire.FieldVelocity | wire.FieldDistance, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.JogIncremental(p.Index, p.Velocity, p.Distance)
	}},
	wire.MTAxisOverrideLimits: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.OverrideLimits()
	}},
	wire.MTAxisSetMaxPositionLimit: {wire.FieldIndex | wire.FieldValue, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetMaxPositionLimit(p.Index, p.Value)
	}},
	wire.MTAxisSetMinPositionLimit: {wire.FieldIndex | wire.FieldValue, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetMinPositionLimit(p.Index, p.Value)
	}},
	wire.MTCoolantFloodOn: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.FloodOn()
	}},
	wire.MTCoolantFloodOff: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.FloodOff()
	}},
	wire.MTCoolantMistOn: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.MistOn()
	}},
	wire.MTCoolantMistOff: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.MistOff()
	}},
	wire.MTSpindleOn: {wire.FieldVelocity, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SpindleOn(p.Velocity)
	}},
	wire.MTSpindleIncrease: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.SpindleIncrease()
	}},
	wire.MTSpindleDecrease: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.SpindleDecrease()
	}},
	wire.MTSpindleConstant: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.SpindleConstant()
	}},
	wire.MTSpindleOff: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.SpindleOff()
	}},
	wire.MTBrakeEngage: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.BrakeEngage()
	}},
	wire.MTBrakeRelease: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.BrakeRelease()
	}},
	wire.MTTaskSetMode: {wire.FieldTaskMode, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetTaskMode(p.TaskMode)
	}},
	wire.MTTaskSetState: {wire.FieldTaskState, func(d *Dispatcher, p wire.CommandParams) error {
		return d.commander.SetTaskState(p.TaskState)
	}},
	wire.MTToolLoadToolTable: {0, func(d *Dispatcher, _ wire.CommandParams) error {
		return d.commander.LoadToolTable()
	}},
	wire.MTToolSetOffset: {
		wire.FieldToolIndex | wire.FieldToolZOffset | wire.FieldToolXOffset | wire.FieldToolDiameter |
			wire.FieldToolFrontAngle | wire.FieldToolBackAngle | wire.FieldToolOrientation,
		func(d *Dispatcher, p wire.CommandParams) error {
			return d.commander.SetToolOffset(runtime.ToolOffset{
				Index:       p.ToolIndex,
				ZOffset:     p.ToolZOffset,
				XOffset:     p.ToolXOffset,
				Diameter:    p.ToolDiameter,
				FrontAngle:  p.ToolFrontAngle,
				BackAngle:   p.ToolBackAngle,
				Orientation: p.ToolOrientation,
			})
		},
	},
}

// Handle decodes req, validates and invokes the matching command, and
// returns the reply envelope's wire bytes. PING and malformed/unknown
// requests never reach the runtime.
func (d *Dispatcher) Handle(req []byte) []byte {
	env, err := wire.Unmarshal(req)
	if err != nil {
		d.logger.WithError(err).Warn("command: failed to decode request")
		return d.reply(wire.Envelope{Type: wire.MTError, Note: []string{"wrong parameters"}})
	}

	if env.Type == wire.MTPing {
		return d.reply(wire.Envelope{Type: wire.MTPingAcknowledge})
	}

	sp, known := commandTable[env.Type]
	if !known {
		return d.reply(wire.Envelope{Type: wire.MTError, Note: []string{"unknown command"}})
	}

	var params wire.CommandParams
	if env.CommandParams != nil {
		params = *env.CommandParams
	}
	if params.Present&sp.required != sp.required {
		return d.reply(wire.Envelope{Type: wire.MTError, Note: []string{"wrong parameters"}})
	}

	if err := sp.run(d, params); err != nil {
		d.logger.WithError(err).WithField("type", env.Type).Warn("command: runtime call failed")
		return d.reply(wire.Envelope{Type: wire.MTError, Note: []string{err.Error()}})
	}

	// Command success is implicit (spec.md §7): clients observe effects via
	// the status stream, not a positive command-socket reply. The REP
	// socket still requires a reply frame, so an empty, type-less envelope
	// is sent as the transport-level ack.
	return d.reply(wire.Envelope{})
}

func (d *Dispatcher) reply(env wire.Envelope) []byte {
	payload, err := wire.Marshal(env)
	if err != nil {
		d.logger.WithError(err).Error("command: failed to marshal reply")
		return nil
	}
	return payload
}
