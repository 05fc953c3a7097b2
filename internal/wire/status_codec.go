package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/machinekit/mkwrapper-go/internal/status"
)

// Field numbers below are assigned in struct-declaration order within each
// message and are local to this wire format; they carry no relation to any
// upstream Machinetalk .proto field numbering.

const (
	posX protowire.Number = 1 + iota
	posY
	posZ
	posA
	posB
	posC
	posU
	posV
	posW
)

func marshalPosition(p status.Position) []byte {
	var b []byte
	b = appendDoubleField(b, posX, p.X)
	b = appendDoubleField(b, posY, p.Y)
	b = appendDoubleField(b, posZ, p.Z)
	b = appendDoubleField(b, posA, p.A)
	b = appendDoubleField(b, posB, p.B)
	b = appendDoubleField(b, posC, p.C)
	b = appendDoubleField(b, posU, p.U)
	b = appendDoubleField(b, posV, p.V)
	b = appendDoubleField(b, posW, p.W)
	return b
}

func unmarshalPosition(b []byte) (status.Position, error) {
	var p status.Position
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case posX:
			v, n, err := consumeDouble(b)
			p.X = v
			return n, err
		case posY:
			v, n, err := consumeDouble(b)
			p.Y = v
			return n, err
		case posZ:
			v, n, err := consumeDouble(b)
			p.Z = v
			return n, err
		case posA:
			v, n, err := consumeDouble(b)
			p.A = v
			return n, err
		case posB:
			v, n, err := consumeDouble(b)
			p.B = v
			return n, err
		case posC:
			v, n, err := consumeDouble(b)
			p.C = v
			return n, err
		case posU:
			v, n, err := consumeDouble(b)
			p.U = v
			return n, err
		case posV:
			v, n, err := consumeDouble(b)
			p.V = v
			return n, err
		case posW:
			v, n, err := consumeDouble(b)
			p.W = v
			return n, err
		}
		return 0, nil
	})
	return p, err
}

// ---- tool table / IO / G-code / M-code / setting / axis records --------

const (
	ttIndex protowire.Number = 1 + iota
	ttID
	ttZOffset
	ttXOffset
	ttDiameter
	ttFrontAngle
	ttBackAngle
	ttOrientation
)

func marshalToolTableEntry(e status.ToolTableEntry) []byte {
	var b []byte
	b = appendVarintField(b, ttIndex, int64(e.Index))
	b = appendVarintField(b, ttID, int64(e.ID))
	b = appendDoubleField(b, ttZOffset, e.ZOffset)
	b = appendDoubleField(b, ttXOffset, e.XOffset)
	b = appendDoubleField(b, ttDiameter, e.Diameter)
	b = appendDoubleField(b, ttFrontAngle, e.FrontAngle)
	b = appendDoubleField(b, ttBackAngle, e.BackAngle)
	b = appendVarintField(b, ttOrientation, int64(e.Orientation))
	return b
}

func unmarshalToolTableEntry(b []byte) (status.ToolTableEntry, error) {
	var e status.ToolTableEntry
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case ttIndex:
			v, n, err := consumeVarint(b)
			e.Index = int(v)
			return n, err
		case ttID:
			v, n, err := consumeVarint(b)
			e.ID = int(v)
			return n, err
		case ttZOffset:
			v, n, err := consumeDouble(b)
			e.ZOffset = v
			return n, err
		case ttXOffset:
			v, n, err := consumeDouble(b)
			e.XOffset = v
			return n, err
		case ttDiameter:
			v, n, err := consumeDouble(b)
			e.Diameter = v
			return n, err
		case ttFrontAngle:
			v, n, err := consumeDouble(b)
			e.FrontAngle = v
			return n, err
		case ttBackAngle:
			v, n, err := consumeDouble(b)
			e.BackAngle = v
			return n, err
		case ttOrientation:
			v, n, err := consumeVarint(b)
			e.Orientation = int(v)
			return n, err
		}
		return 0, nil
	})
	return e, err
}

const (
	digIdx protowire.Number = 1
	digVal protowire.Number = 2
)

func marshalDigitalIO(d status.DigitalIO) []byte {
	var b []byte
	b = appendVarintField(b, digIdx, int64(d.Index))
	b = appendBoolField(b, digVal, d.Value)
	return b
}

func unmarshalDigitalIO(b []byte) (status.DigitalIO, error) {
	var d status.DigitalIO
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case digIdx:
			v, n, err := consumeVarint(b)
			d.Index = int(v)
			return n, err
		case digVal:
			v, n, err := consumeBool(b)
			d.Value = v
			return n, err
		}
		return 0, nil
	})
	return d, err
}

const (
	anaIdx protowire.Number = 1
	anaVal protowire.Number = 2
)

func marshalAnalogIO(a status.AnalogIO) []byte {
	var b []byte
	b = appendVarintField(b, anaIdx, int64(a.Index))
	b = appendDoubleField(b, anaVal, a.Value)
	return b
}

func unmarshalAnalogIO(b []byte) (status.AnalogIO, error) {
	var a status.AnalogIO
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case anaIdx:
			v, n, err := consumeVarint(b)
			a.Index = int(v)
			return n, err
		case anaVal:
			v, n, err := consumeDouble(b)
			a.Value = v
			return n, err
		}
		return 0, nil
	})
	return a, err
}

const (
	gcodeIdx protowire.Number = 1
	gcodeVal protowire.Number = 2
)

func marshalGCodeSlot(g status.GCodeSlot) []byte {
	var b []byte
	b = appendVarintField(b, gcodeIdx, int64(g.Index))
	b = appendVarintField(b, gcodeVal, int64(g.Value))
	return b
}

func unmarshalGCodeSlot(b []byte) (status.GCodeSlot, error) {
	var g status.GCodeSlot
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case gcodeIdx:
			v, n, err := consumeVarint(b)
			g.Index = int(v)
			return n, err
		case gcodeVal:
			v, n, err := consumeVarint(b)
			g.Value = int(v)
			return n, err
		}
		return 0, nil
	})
	return g, err
}

const (
	mcodeIdx protowire.Number = 1
	mcodeVal protowire.Number = 2
)

func marshalMCodeSlot(m status.MCodeSlot) []byte {
	var b []byte
	b = appendVarintField(b, mcodeIdx, int64(m.Index))
	b = appendVarintField(b, mcodeVal, int64(m.Value))
	return b
}

func unmarshalMCodeSlot(b []byte) (status.MCodeSlot, error) {
	var m status.MCodeSlot
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case mcodeIdx:
			v, n, err := consumeVarint(b)
			m.Index = int(v)
			return n, err
		case mcodeVal:
			v, n, err := consumeVarint(b)
			m.Value = int(v)
			return n, err
		}
		return 0, nil
	})
	return m, err
}

const (
	settingIdx protowire.Number = 1
	settingVal protowire.Number = 2
)

func marshalSettingSlot(s status.SettingSlot) []byte {
	var b []byte
	b = appendVarintField(b, settingIdx, int64(s.Index))
	b = appendDoubleField(b, settingVal, s.Value)
	return b
}

func unmarshalSettingSlot(b []byte) (status.SettingSlot, error) {
	var s status.SettingSlot
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case settingIdx:
			v, n, err := consumeVarint(b)
			s.Index = int(v)
			return n, err
		case settingVal:
			v, n, err := consumeDouble(b)
			s.Value = v
			return n, err
		}
		return 0, nil
	})
	return s, err
}

const (
	axmIndex protowire.Number = 1 + iota
	axmPosition
	axmVelocity
	axmHomed
	axmFault
	axmMinSoftLimit
	axmMaxSoftLimit
	axmMinHardLimit
	axmMaxHardLimit
	axmOverrideLimits
)

func marshalAxisMotion(a status.AxisMotion) []byte {
	var b []byte
	b = appendVarintField(b, axmIndex, int64(a.Index))
	b = appendDoubleField(b, axmPosition, a.Position)
	b = appendDoubleField(b, axmVelocity, a.Velocity)
	b = appendBoolField(b, axmHomed, a.Homed)
	b = appendBoolField(b, axmFault, a.Fault)
	b = appendBoolField(b, axmMinSoftLimit, a.MinSoftLimit)
	b = appendBoolField(b, axmMaxSoftLimit, a.MaxSoftLimit)
	b = appendBoolField(b, axmMinHardLimit, a.MinHardLimit)
	b = appendBoolField(b, axmMaxHardLimit, a.MaxHardLimit)
	b = appendBoolField(b, axmOverrideLimits, a.OverrideLimits)
	return b
}

func unmarshalAxisMotion(b []byte) (status.AxisMotion, error) {
	var a status.AxisMotion
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case axmIndex:
			v, n, err := consumeVarint(b)
			a.Index = int(v)
			return n, err
		case axmPosition:
			v, n, err := consumeDouble(b)
			a.Position = v
			return n, err
		case axmVelocity:
			v, n, err := consumeDouble(b)
			a.Velocity = v
			return n, err
		case axmHomed:
			v, n, err := consumeBool(b)
			a.Homed = v
			return n, err
		case axmFault:
			v, n, err := consumeBool(b)
			a.Fault = v
			return n, err
		case axmMinSoftLimit:
			v, n, err := consumeBool(b)
			a.MinSoftLimit = v
			return n, err
		case axmMaxSoftLimit:
			v, n, err := consumeBool(b)
			a.MaxSoftLimit = v
			return n, err
		case axmMinHardLimit:
			v, n, err := consumeBool(b)
			a.MinHardLimit = v
			return n, err
		case axmMaxHardLimit:
			v, n, err := consumeBool(b)
			a.MaxHardLimit = v
			return n, err
		case axmOverrideLimits:
			v, n, err := consumeBool(b)
			a.OverrideLimits = v
			return n, err
		}
		return 0, nil
	})
	return a, err
}

const (
	axcIndex protowire.Number = 1 + iota
	axcMinPositionLimit
	axcMaxPositionLimit
	axcMaxVelocity
	axcMaxAcceleration
	axcHome
	axcHomeOffset
	axcHomeSequence
	axcBacklash
)

func marshalAxisConfig(a status.AxisConfig) []byte {
	var b []byte
	b = appendVarintField(b, axcIndex, int64(a.Index))
	b = appendDoubleField(b, axcMinPositionLimit, a.MinPositionLimit)
	b = appendDoubleField(b, axcMaxPositionLimit, a.MaxPositionLimit)
	b = appendDoubleField(b, axcMaxVelocity, a.MaxVelocity)
	b = appendDoubleField(b, axcMaxAcceleration, a.MaxAcceleration)
	b = appendDoubleField(b, axcHome, a.Home)
	b = appendDoubleField(b, axcHomeOffset, a.HomeOffset)
	b = appendVarintField(b, axcHomeSequence, int64(a.HomeSequence))
	b = appendDoubleField(b, axcBacklash, a.Backlash)
	return b
}

func unmarshalAxisConfig(b []byte) (status.AxisConfig, error) {
	var a status.AxisConfig
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case axcIndex:
			v, n, err := consumeVarint(b)
			a.Index = int(v)
			return n, err
		case axcMinPositionLimit:
			v, n, err := consumeDouble(b)
			a.MinPositionLimit = v
			return n, err
		case axcMaxPositionLimit:
			v, n, err := consumeDouble(b)
			a.MaxPositionLimit = v
			return n, err
		case axcMaxVelocity:
			v, n, err := consumeDouble(b)
			a.MaxVelocity = v
			return n, err
		case axcMaxAcceleration:
			v, n, err := consumeDouble(b)
			a.MaxAcceleration = v
			return n, err
		case axcHome:
			v, n, err := consumeDouble(b)
			a.Home = v
			return n, err
		case axcHomeOffset:
			v, n, err := consumeDouble(b)
			a.HomeOffset = v
			return n, err
		case axcHomeSequence:
			v, n, err := consumeVarint(b)
			a.HomeSequence = int(v)
			return n, err
		case axcBacklash:
			v, n, err := consumeDouble(b)
			a.Backlash = v
			return n, err
		}
		return 0, nil
	})
	return a, err
}

// ---- IO channel ----------------------------------------------------------

const (
	ioEstop protowire.Number = 1 + iota
	ioFlood
	ioLube
	ioLubeLevel
	ioMist
	ioPocketPrepped
	ioToolInSpindle
	ioToolTable
	ioDin
	ioDout
	ioAin
	ioAout
)

func marshalIO(io status.IO) []byte {
	var b []byte
	b = appendBoolField(b, ioEstop, io.Estop)
	b = appendBoolField(b, ioFlood, io.Flood)
	b = appendBoolField(b, ioLube, io.Lube)
	b = appendVarintField(b, ioLubeLevel, int64(io.LubeLevel))
	b = appendBoolField(b, ioMist, io.Mist)
	b = appendVarintField(b, ioPocketPrepped, int64(io.PocketPrepped))
	b = appendVarintField(b, ioToolInSpindle, int64(io.ToolInSpindle))
	for _, e := range io.ToolTable {
		b = appendRepeatedMessageField(b, ioToolTable, marshalToolTableEntry(e))
	}
	for _, d := range io.Din {
		b = appendRepeatedMessageField(b, ioDin, marshalDigitalIO(d))
	}
	for _, d := range io.Dout {
		b = appendRepeatedMessageField(b, ioDout, marshalDigitalIO(d))
	}
	for _, a := range io.Ain {
		b = appendRepeatedMessageField(b, ioAin, marshalAnalogIO(a))
	}
	for _, a := range io.Aout {
		b = appendRepeatedMessageField(b, ioAout, marshalAnalogIO(a))
	}
	return b
}

func unmarshalIO(b []byte) (status.IO, error) {
	var io status.IO
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case ioEstop:
			v, n, err := consumeBool(b)
			io.Estop = v
			return n, err
		case ioFlood:
			v, n, err := consumeBool(b)
			io.Flood = v
			return n, err
		case ioLube:
			v, n, err := consumeBool(b)
			io.Lube = v
			return n, err
		case ioLubeLevel:
			v, n, err := consumeVarint(b)
			io.LubeLevel = int(v)
			return n, err
		case ioMist:
			v, n, err := consumeBool(b)
			io.Mist = v
			return n, err
		case ioPocketPrepped:
			v, n, err := consumeVarint(b)
			io.PocketPrepped = int(v)
			return n, err
		case ioToolInSpindle:
			v, n, err := consumeVarint(b)
			io.ToolInSpindle = int(v)
			return n, err
		case ioToolTable:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e, err := unmarshalToolTableEntry(raw)
			if err != nil {
				return 0, err
			}
			io.ToolTable = append(io.ToolTable, e)
			return n, nil
		case ioDin:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			d, err := unmarshalDigitalIO(raw)
			if err != nil {
				return 0, err
			}
			io.Din = append(io.Din, d)
			return n, nil
		case ioDout:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			d, err := unmarshalDigitalIO(raw)
			if err != nil {
				return 0, err
			}
			io.Dout = append(io.Dout, d)
			return n, nil
		case ioAin:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			a, err := unmarshalAnalogIO(raw)
			if err != nil {
				return 0, err
			}
			io.Ain = append(io.Ain, a)
			return n, nil
		case ioAout:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			a, err := unmarshalAnalogIO(raw)
			if err != nil {
				return 0, err
			}
			io.Aout = append(io.Aout, a)
			return n, nil
		}
		return 0, nil
	})
	return io, err
}

// ---- Task channel ---------------------------------------------------------

const (
	taskMode protowire.Number = 1 + iota
	taskState
	taskExecState
	taskInterpState
	taskCallLevel
	taskCurrentLine
	taskReadLine
	taskFile
	taskCommand
	taskPaused
	taskOptionalStop
	taskBlockDelete
	taskInputTimeout
)

func marshalTask(t status.Task) []byte {
	var b []byte
	b = appendVarintField(b, taskMode, int64(t.TaskMode))
	b = appendVarintField(b, taskState, int64(t.TaskState))
	b = appendVarintField(b, taskExecState, int64(t.ExecState))
	b = appendVarintField(b, taskInterpState, int64(t.InterpState))
	b = appendVarintField(b, taskCallLevel, int64(t.CallLevel))
	b = appendVarintField(b, taskCurrentLine, int64(t.CurrentLine))
	b = appendVarintField(b, taskReadLine, int64(t.ReadLine))
	b = appendStringField(b, taskFile, t.File)
	b = appendStringField(b, taskCommand, t.Command)
	b = appendBoolField(b, taskPaused, t.TaskPaused)
	b = appendBoolField(b, taskOptionalStop, t.OptionalStop)
	b = appendBoolField(b, taskBlockDelete, t.BlockDelete)
	b = appendBoolField(b, taskInputTimeout, t.InputTimeout)
	return b
}

func unmarshalTask(b []byte) (status.Task, error) {
	var t status.Task
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case taskMode:
			v, n, err := consumeVarint(b)
			t.TaskMode = int(v)
			return n, err
		case taskState:
			v, n, err := consumeVarint(b)
			t.TaskState = int(v)
			return n, err
		case taskExecState:
			v, n, err := consumeVarint(b)
			t.ExecState = int(v)
			return n, err
		case taskInterpState:
			v, n, err := consumeVarint(b)
			t.InterpState = int(v)
			return n, err
		case taskCallLevel:
			v, n, err := consumeVarint(b)
			t.CallLevel = int(v)
			return n, err
		case taskCurrentLine:
			v, n, err := consumeVarint(b)
			t.CurrentLine = int(v)
			return n, err
		case taskReadLine:
			v, n, err := consumeVarint(b)
			t.ReadLine = int(v)
			return n, err
		case taskFile:
			v, n, err := consumeString(b)
			t.File = v
			return n, err
		case taskCommand:
			v, n, err := consumeString(b)
			t.Command = v
			return n, err
		case taskPaused:
			v, n, err := consumeBool(b)
			t.TaskPaused = v
			return n, err
		case taskOptionalStop:
			v, n, err := consumeBool(b)
			t.OptionalStop = v
			return n, err
		case taskBlockDelete:
			v, n, err := consumeBool(b)
			t.BlockDelete = v
			return n, err
		case taskInputTimeout:
			v, n, err := consumeBool(b)
			t.InputTimeout = v
			return n, err
		}
		return 0, nil
	})
	return t, err
}

// ---- Interp channel ---------------------------------------------------

const (
	interpGCodes protowire.Number = 1 + iota
	interpMCodes
	interpSettings
	interpOrigin
)

func marshalInterp(ip status.Interp) []byte {
	var b []byte
	for _, g := range ip.GCodes {
		b = appendRepeatedMessageField(b, interpGCodes, marshalGCodeSlot(g))
	}
	for _, m := range ip.MCodes {
		b = appendRepeatedMessageField(b, interpMCodes, marshalMCodeSlot(m))
	}
	for _, s := range ip.Settings {
		b = appendRepeatedMessageField(b, interpSettings, marshalSettingSlot(s))
	}
	b = appendBytesField(b, interpOrigin, marshalPosition(ip.Origin))
	return b
}

func unmarshalInterp(b []byte) (status.Interp, error) {
	var ip status.Interp
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case interpGCodes:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			g, err := unmarshalGCodeSlot(raw)
			if err != nil {
				return 0, err
			}
			ip.GCodes = append(ip.GCodes, g)
			return n, nil
		case interpMCodes:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			m, err := unmarshalMCodeSlot(raw)
			if err != nil {
				return 0, err
			}
			ip.MCodes = append(ip.MCodes, m)
			return n, nil
		case interpSettings:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			s, err := unmarshalSettingSlot(raw)
			if err != nil {
				return 0, err
			}
			ip.Settings = append(ip.Settings, s)
			return n, nil
		case interpOrigin:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			p, err := unmarshalPosition(raw)
			if err != nil {
				return 0, err
			}
			ip.Origin = p
			return n, nil
		}
		return 0, nil
	})
	return ip, err
}

// ---- Motion channel -----------------------------------------------------

const (
	motEnabled protowire.Number = 1 + iota
	motInPos
	motFeedrate
	motTrajMode
	motPosition
	motActualPosition
	motVelocity
	motAcceleration
	motQueue
	motActiveQueue
	motFeedHoldEnabled
	motFeedOverrideEnabled
	motSpindleOverrideEnabled
	motAdaptiveFeedEnabled
	motSpindleEnabled
	motSpindleSpeed
	motSpindleBrake
	motSpindleDirection
	motAxes
	motAxis
)

func marshalMotion(m status.Motion) []byte {
	var b []byte
	b = appendBoolField(b, motEnabled, m.Enabled)
	b = appendBoolField(b, motInPos, m.InPos)
	b = appendDoubleField(b, motFeedrate, m.Feedrate)
	b = appendVarintField(b, motTrajMode, int64(m.TrajMode))
	b = appendBytesField(b, motPosition, marshalPosition(m.Position))
	b = appendBytesField(b, motActualPosition, marshalPosition(m.ActualPosition))
	b = appendDoubleField(b, motVelocity, m.Velocity)
	b = appendDoubleField(b, motAcceleration, m.Acceleration)
	b = appendVarintField(b, motQueue, int64(m.Queue))
	b = appendVarintField(b, motActiveQueue, int64(m.ActiveQueue))
	b = appendBoolField(b, motFeedHoldEnabled, m.FeedHoldEnabled)
	b = appendBoolField(b, motFeedOverrideEnabled, m.FeedOverrideEnabled)
	b = appendBoolField(b, motSpindleOverrideEnabled, m.SpindleOverrideEnabled)
	b = appendBoolField(b, motAdaptiveFeedEnabled, m.AdaptiveFeedEnabled)
	b = appendBoolField(b, motSpindleEnabled, m.SpindleEnabled)
	b = appendDoubleField(b, motSpindleSpeed, m.SpindleSpeed)
	b = appendBoolField(b, motSpindleBrake, m.SpindleBrake)
	b = appendVarintField(b, motSpindleDirection, int64(m.SpindleDirection))
	b = appendVarintField(b, motAxes, int64(m.Axes))
	for _, a := range m.Axis {
		b = appendRepeatedMessageField(b, motAxis, marshalAxisMotion(a))
	}
	return b
}

func unmarshalMotion(b []byte) (status.Motion, error) {
	var m status.Motion
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case motEnabled:
			v, n, err := consumeBool(b)
			m.Enabled = v
			return n, err
		case motInPos:
			v, n, err := consumeBool(b)
			m.InPos = v
			return n, err
		case motFeedrate:
			v, n, err := consumeDouble(b)
			m.Feedrate = v
			return n, err
		case motTrajMode:
			v, n, err := consumeVarint(b)
			m.TrajMode = int(v)
			return n, err
		case motPosition:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			p, err := unmarshalPosition(raw)
			if err != nil {
				return 0, err
			}
			m.Position = p
			return n, nil
		case motActualPosition:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			p, err := unmarshalPosition(raw)
			if err != nil {
				return 0, err
			}
			m.ActualPosition = p
			return n, nil
		case motVelocity:
			v, n, err := consumeDouble(b)
			m.Velocity = v
			return n, err
		case motAcceleration:
			v, n, err := consumeDouble(b)
			m.Acceleration = v
			return n, err
		case motQueue:
			v, n, err := consumeVarint(b)
			m.Queue = int(v)
			return n, err
		case motActiveQueue:
			v, n, err := consumeVarint(b)
			m.ActiveQueue = int(v)
			return n, err
		case motFeedHoldEnabled:
			v, n, err := consumeBool(b)
			m.FeedHoldEnabled = v
			return n, err
		case motFeedOverrideEnabled:
			v, n, err := consumeBool(b)
			m.FeedOverrideEnabled = v
			return n, err
		case motSpindleOverrideEnabled:
			v, n, err := consumeBool(b)
			m.SpindleOverrideEnabled = v
			return n, err
		case motAdaptiveFeedEnabled:
			v, n, err := consumeBool(b)
			m.AdaptiveFeedEnabled = v
			return n, err
		case motSpindleEnabled:
			v, n, err := consumeBool(b)
			m.SpindleEnabled = v
			return n, err
		case motSpindleSpeed:
			v, n, err := consumeDouble(b)
			m.SpindleSpeed = v
			return n, err
		case motSpindleBrake:
			v, n, err := consumeBool(b)
			m.SpindleBrake = v
			return n, err
		case motSpindleDirection:
			v, n, err := consumeVarint(b)
			m.SpindleDirection = int(v)
			return n, err
		case motAxes:
			v, n, err := consumeVarint(b)
			m.Axes = int(v)
			return n, err
		case motAxis:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			a, err := unmarshalAxisMotion(raw)
			if err != nil {
				return 0, err
			}
			m.Axis = append(m.Axis, a)
			return n, nil
		}
		return 0, nil
	})
	return m, err
}

// ---- Config channel -----------------------------------------------------

const (
	cfgAxes protowire.Number = 1 + iota
	cfgAxis
	cfgTrajMaxVelocity
	cfgTrajMaxAcceleration
	cfgDefaultVelocity
	cfgDefaultAcceleration
	cfgFeedOverrideMax
	cfgSpindleOverrideMax
	cfgIncrements
	cfgGrids
	cfgLathe
	cfgGeometry
	cfgArcDivision
	cfgNoForceHoming
	cfgProgramExtensions
	cfgPositionOffset
	cfgPositionFeedback
)

func marshalConfig(c status.Config) []byte {
	var b []byte
	b = appendVarintField(b, cfgAxes, int64(c.Axes))
	for _, a := range c.Axis {
		b = appendRepeatedMessageField(b, cfgAxis, marshalAxisConfig(a))
	}
	b = appendDoubleField(b, cfgTrajMaxVelocity, c.TrajMaxVelocity)
	b = appendDoubleField(b, cfgTrajMaxAcceleration, c.TrajMaxAcceleration)
	b = appendDoubleField(b, cfgDefaultVelocity, c.DefaultVelocity)
	b = appendDoubleField(b, cfgDefaultAcceleration, c.DefaultAcceleration)
	b = appendDoubleField(b, cfgFeedOverrideMax, c.FeedOverrideMax)
	b = appendDoubleField(b, cfgSpindleOverrideMax, c.SpindleOverrideMax)
	b = appendStringField(b, cfgIncrements, c.Increments)
	b = appendStringField(b, cfgGrids, c.Grids)
	b = appendBoolField(b, cfgLathe, c.Lathe)
	b = appendStringField(b, cfgGeometry, c.Geometry)
	b = appendVarintField(b, cfgArcDivision, int64(c.ArcDivision))
	b = appendBoolField(b, cfgNoForceHoming, c.NoForceHoming)
	for _, ext := range c.ProgramExtensions {
		b = protowire.AppendTag(b, cfgProgramExtensions, protowire.BytesType)
		b = protowire.AppendString(b, ext)
	}
	b = appendVarintField(b, cfgPositionOffset, int64(c.PositionOffset))
	b = appendVarintField(b, cfgPositionFeedback, int64(c.PositionFeedback))
	return b
}

func unmarshalConfig(b []byte) (status.Config, error) {
	var c status.Config
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case cfgAxes:
			v, n, err := consumeVarint(b)
			c.Axes = int(v)
			return n, err
		case cfgAxis:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			a, err := unmarshalAxisConfig(raw)
			if err != nil {
				return 0, err
			}
			c.Axis = append(c.Axis, a)
			return n, nil
		case cfgTrajMaxVelocity:
			v, n, err := consumeDouble(b)
			c.TrajMaxVelocity = v
			return n, err
		case cfgTrajMaxAcceleration:
			v, n, err := consumeDouble(b)
			c.TrajMaxAcceleration = v
			return n, err
		case cfgDefaultVelocity:
			v, n, err := consumeDouble(b)
			c.DefaultVelocity = v
			return n, err
		case cfgDefaultAcceleration:
			v, n, err := consumeDouble(b)
			c.DefaultAcceleration = v
			return n, err
		case cfgFeedOverrideMax:
			v, n, err := consumeDouble(b)
			c.FeedOverrideMax = v
			return n, err
		case cfgSpindleOverrideMax:
			v, n, err := consumeDouble(b)
			c.SpindleOverrideMax = v
			return n, err
		case cfgIncrements:
			v, n, err := consumeString(b)
			c.Increments = v
			return n, err
		case cfgGrids:
			v, n, err := consumeString(b)
			c.Grids = v
			return n, err
		case cfgLathe:
			v, n, err := consumeBool(b)
			c.Lathe = v
			return n, err
		case cfgGeometry:
			v, n, err := consumeString(b)
			c.Geometry = v
			return n, err
		case cfgArcDivision:
			v, n, err := consumeVarint(b)
			c.ArcDivision = int(v)
			return n, err
		case cfgNoForceHoming:
			v, n, err := consumeBool(b)
			c.NoForceHoming = v
			return n, err
		case cfgProgramExtensions:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			c.ProgramExtensions = append(c.ProgramExtensions, v)
			return n, nil
		case cfgPositionOffset:
			v, n, err := consumeVarint(b)
			c.PositionOffset = int(v)
			return n, err
		case cfgPositionFeedback:
			v, n, err := consumeVarint(b)
			c.PositionFeedback = int(v)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return status.Config{}, fmt.Errorf("wire: unmarshal config: %w", err)
	}
	return c, nil
}
