package wire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ParamField is a bitmask recording which of CommandParams' value fields the
// sender actually populated. Command validation (internal/command) checks
// these bits rather than testing a value against its zero value — the fix
// for the documented ambiguity where, say, TOOL_SET_OFFSET's z_offset=0 is a
// legitimate offset, not "offset not sent" (spec.md Design Notes §9).
type ParamField uint32

const (
	FieldLineNumber ParamField = 1 << iota
	FieldPath
	FieldCommand
	FieldEnable
	FieldDebugLevel
	FieldScale
	FieldVelocity
	FieldTrajMode
	FieldA
	FieldB
	FieldC
	FieldU
	FieldV
	FieldW
	FieldIndex
	FieldValue
	FieldDistance
	FieldTaskMode
	FieldTaskState
	FieldToolIndex
	FieldToolZOffset
	FieldToolXOffset
	FieldToolDiameter
	FieldToolFrontAngle
	FieldToolBackAngle
	FieldToolOrientation
)

// Has reports whether f was present on the wire.
func (p ParamField) Has(f ParamField) bool { return p&f != 0 }

// CommandParams is the union of every argument any command kind can carry.
// A command handler reads only the fields its kind declares required,
// gated by Present — never by comparing a value to its zero value.
type CommandParams struct {
	Present ParamField

	LineNumber int
	Path       string
	Command    string
	Enable     bool
	DebugLevel int
	Scale      float64
	Velocity   float64
	TrajMode   int
	A, B, C    float64
	U, V, W    float64
	Index      int
	Value      float64
	Distance   float64
	TaskMode   int
	TaskState  int

	ToolIndex        int
	ToolZOffset      float64
	ToolXOffset      float64
	ToolDiameter     float64
	ToolFrontAngle   float64
	ToolBackAngle    float64
	ToolOrientation  int
}

const (
	cpPresent protowire.Number = 1 + iota
	cpLineNumber
	cpPath
	cpCommand
	cpEnable
	cpDebugLevel
	cpScale
	cpVelocity
	cpTrajMode
	cpA
	cpB
	cpC
	cpU
	cpV
	cpW
	cpIndex
	cpValue
	cpDistance
	cpTaskMode
	cpTaskState
	cpToolIndex
	cpToolZOffset
	cpToolXOffset
	cpToolDiameter
	cpToolFrontAngle
	cpToolBackAngle
	cpToolOrientation
)

func appendVarintAlways(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBoolAlways(b []byte, num protowire.Number, v bool) []byte {
	var iv int64
	if v {
		iv = 1
	}
	return appendVarintAlways(b, num, iv)
}

func appendDoubleAlways(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendStringAlways(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func marshalCommandParams(p CommandParams) []byte {
	var b []byte
	b = appendVarintField(b, cpPresent, int64(p.Present))

	if p.Present.Has(FieldLineNumber) {
		b = appendVarintAlways(b, cpLineNumber, int64(p.LineNumber))
	}
	if p.Present.Has(FieldPath) {
		b = appendStringAlways(b, cpPath, p.Path)
	}
	if p.Present.Has(FieldCommand) {
		b = appendStringAlways(b, cpCommand, p.Command)
	}
	if p.Present.Has(FieldEnable) {
		b = appendBoolAlways(b, cpEnable, p.Enable)
	}
	if p.Present.Has(FieldDebugLevel) {
		b = appendVarintAlways(b, cpDebugLevel, int64(p.DebugLevel))
	}
	if p.Present.Has(FieldScale) {
		b = appendDoubleAlways(b, cpScale, p.Scale)
	}
	if p.Present.Has(FieldVelocity) {
		b = appendDoubleAlways(b, cpVelocity, p.Velocity)
	}
	if p.Present.Has(FieldTrajMode) {
		b = appendVarintAlways(b, cpTrajMode, int64(p.TrajMode))
	}
	if p.Present.Has(FieldA) {
		b = appendDoubleAlways(b, cpA, p.A)
	}
	if p.Present.Has(FieldB) {
		b = appendDoubleAlways(b, cpB, p.B)
	}
	if p.Present.Has(FieldC) {
		b = appendDoubleAlways(b, cpC, p.C)
	}
	if p.Present.Has(FieldU) {
		b = appendDoubleAlways(b, cpU, p.U)
	}
	if p.Present.Has(FieldV) {
		b = appendDoubleAlways(b, cpV, p.V)
	}
	if p.Present.Has(FieldW) {
		b = appendDoubleAlways(b, cpW, p.W)
	}
	if p.Present.Has(FieldIndex) {
		b = appendVarintAlways(b, cpIndex, int64(p.Index))
	}
	if p.Present.Has(FieldValue) {
		b = appendDoubleAlways(b, cpValue, p.Value)
	}
	if p.Present.Has(FieldDistance) {
		b = appendDoubleAlways(b, cpDistance, p.Distance)
	}
	if p.Present.Has(FieldTaskMode) {
		b = appendVarintAlways(b, cpTaskMode, int64(p.TaskMode))
	}
	if p.Present.Has(FieldTaskState) {
		b = appendVarintAlways(b, cpTaskState, int64(p.TaskState))
	}
	if p.Present.Has(FieldToolIndex) {
		b = appendVarintAlways(b, cpToolIndex, int64(p.ToolIndex))
	}
	if p.Present.Has(FieldToolZOffset) {
		b = appendDoubleAlways(b, cpToolZOffset, p.ToolZOffset)
	}
	if p.Present.Has(FieldToolXOffset) {
		b = appendDoubleAlways(b, cpToolXOffset, p.ToolXOffset)
	}
	if p.Present.Has(FieldToolDiameter) {
		b = appendDoubleAlways(b, cpToolDiameter, p.ToolDiameter)
	}
	if p.Present.Has(FieldToolFrontAngle) {
		b = appendDoubleAlways(b, cpToolFrontAngle, p.ToolFrontAngle)
	}
	if p.Present.Has(FieldToolBackAngle) {
		b = appendDoubleAlways(b, cpToolBackAngle, p.ToolBackAngle)
	}
	if p.Present.Has(FieldToolOrientation) {
		b = appendVarintAlways(b, cpToolOrientation, int64(p.ToolOrientation))
	}
	return b
}

func unmarshalCommandParams(b []byte) (CommandParams, error) {
	var p CommandParams
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case cpPresent:
			v, n, err := consumeVarint(b)
			p.Present = ParamField(v)
			return n, err
		case cpLineNumber:
			v, n, err := consumeVarint(b)
			p.LineNumber = int(v)
			return n, err
		case cpPath:
			v, n, err := consumeString(b)
			p.Path = v
			return n, err
		case cpCommand:
			v, n, err := consumeString(b)
			p.Command = v
			return n, err
		case cpEnable:
			v, n, err := consumeBool(b)
			p.Enable = v
			return n, err
		case cpDebugLevel:
			v, n, err := consumeVarint(b)
			p.DebugLevel = int(v)
			return n, err
		case cpScale:
			v, n, err := consumeDouble(b)
			p.Scale = v
			return n, err
		case cpVelocity:
			v, n, err := consumeDouble(b)
			p.Velocity = v
			return n, err
		case cpTrajMode:
			v, n, err := consumeVarint(b)
			p.TrajMode = int(v)
			return n, err
		case cpA:
			v, n, err := consumeDouble(b)
			p.A = v
			return n, err
		case cpB:
			v, n, err := consumeDouble(b)
			p.B = v
			return n, err
		case cpC:
			v, n, err := consumeDouble(b)
			p.C = v
			return n, err
		case cpU:
			v, n, err := consumeDouble(b)
			p.U = v
			return n, err
		case cpV:
			v, n, err := consumeDouble(b)
			p.V = v
			return n, err
		case cpW:
			v, n, err := consumeDouble(b)
			p.W = v
			return n, err
		case cpIndex:
			v, n, err := consumeVarint(b)
			p.Index = int(v)
			return n, err
		case cpValue:
			v, n, err := consumeDouble(b)
			p.Value = v
			return n, err
		case cpDistance:
			v, n, err := consumeDouble(b)
			p.Distance = v
			return n, err
		case cpTaskMode:
			v, n, err := consumeVarint(b)
			p.TaskMode = int(v)
			return n, err
		case cpTaskState:
			v, n, err := consumeVarint(b)
			p.TaskState = int(v)
			return n, err
		case cpToolIndex:
			v, n, err := consumeVarint(b)
			p.ToolIndex = int(v)
			return n, err
		case cpToolZOffset:
			v, n, err := consumeDouble(b)
			p.ToolZOffset = v
			return n, err
		case cpToolXOffset:
			v, n, err := consumeDouble(b)
			p.ToolXOffset = v
			return n, err
		case cpToolDiameter:
			v, n, err := consumeDouble(b)
			p.ToolDiameter = v
			return n, err
		case cpToolFrontAngle:
			v, n, err := consumeDouble(b)
			p.ToolFrontAngle = v
			return n, err
		case cpToolBackAngle:
			v, n, err := consumeDouble(b)
			p.ToolBackAngle = v
			return n, err
		case cpToolOrientation:
			v, n, err := consumeVarint(b)
			p.ToolOrientation = int(v)
			return n, err
		}
		return 0, nil
	})
	return p, err
}
