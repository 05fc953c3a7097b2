package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/machinekit/mkwrapper-go/internal/status"
)

// MessageType enumerates every envelope kind carried by the three sockets:
// status/error publications, command requests, and command replies.
type MessageType int32

const (
	MTPing MessageType = 1 + iota
	MTPingAcknowledge
	MTError
	MTStatFullUpdate
	MTStatIncrementalUpdate
	MTErrorNML
	MTTextNML
	MTDisplayNML
	MTErrorOperator
	MTTextOperator
	MTDisplayOperator
)

// Command kinds, per the table in spec.md §4.E.
const (
	MTTaskAbort MessageType = 100 + iota
	MTPlanPause
	MTPlanResume
	MTPlanStep
	MTPlanRun
	MTPlanOpen
	MTPlanInit
	MTPlanExecute
	MTPlanSetBlockDelete
	MTPlanSetOptionalStop
	MTSetDebug
	MTTrajSetScale
	MTTrajSetMaxVelocity
	MTTrajSetFHEnable
	MTTrajSetFOEnable
	MTTrajSetSOEnable
	MTTrajSetSpindleScale
	MTTrajSetMode
	MTTrajSetTeleopEnable
	MTTrajSetTeleopVector
	MTMotionAdaptive
	MTMotionSetAOut
	MTMotionSetDOut
	MTAxisHome
	MTAxisUnhome
	MTAxisAbort
	MTAxisJog
	MTAxisIncrJog
	MTAxisOverrideLimits
	MTAxisSetMaxPositionLimit
	MTAxisSetMinPositionLimit
	MTCoolantFloodOn
	MTCoolantFloodOff
	MTCoolantMistOn
	MTCoolantMistOff
	MTSpindleOn
	MTSpindleIncrease
	MTSpindleDecrease
	MTSpindleConstant
	MTSpindleOff
	MTBrakeEngage
	MTBrakeRelease
	MTTaskSetMode
	MTTaskSetState
	MTToolLoadToolTable
	MTToolSetOffset
)

// ProtocolParams is the {keepalive_timer_ms} block attached to full-update
// and first post-subscribe messages (spec.md §3).
type ProtocolParams struct {
	KeepaliveTimerMs int64
}

// Envelope is the wire message exchanged on all three sockets.
type Envelope struct {
	Type   MessageType
	PParams *ProtocolParams
	Note   []string

	StatusIO     *status.IO
	StatusTask   *status.Task
	StatusInterp *status.Interp
	StatusMotion *status.Motion
	StatusConfig *status.Config

	CommandParams *CommandParams
}

const (
	fieldType          protowire.Number = 1
	fieldPParams       protowire.Number = 2
	fieldNote          protowire.Number = 3
	fieldStatusIO      protowire.Number = 4
	fieldStatusTask    protowire.Number = 5
	fieldStatusInterp  protowire.Number = 6
	fieldStatusMotion  protowire.Number = 7
	fieldStatusConfig  protowire.Number = 8
	fieldCommandParams protowire.Number = 9
)

const fieldPParamsKeepalive protowire.Number = 1

// Marshal serializes an envelope to its wire form.
func Marshal(e Envelope) ([]byte, error) {
	var b []byte
	b = appendVarintField(b, fieldType, int64(e.Type))

	if e.PParams != nil {
		var pp []byte
		pp = appendVarintField(pp, fieldPParamsKeepalive, e.PParams.KeepaliveTimerMs)
		b = appendBytesField(b, fieldPParams, pp)
	}

	for _, n := range e.Note {
		b = protowire.AppendTag(b, fieldNote, protowire.BytesType)
		b = protowire.AppendString(b, n)
	}

	if e.StatusIO != nil {
		b = appendBytesField(b, fieldStatusIO, marshalIO(*e.StatusIO))
	}
	if e.StatusTask != nil {
		b = appendBytesField(b, fieldStatusTask, marshalTask(*e.StatusTask))
	}
	if e.StatusInterp != nil {
		b = appendBytesField(b, fieldStatusInterp, marshalInterp(*e.StatusInterp))
	}
	if e.StatusMotion != nil {
		b = appendBytesField(b, fieldStatusMotion, marshalMotion(*e.StatusMotion))
	}
	if e.StatusConfig != nil {
		b = appendBytesField(b, fieldStatusConfig, marshalConfig(*e.StatusConfig))
	}
	if e.CommandParams != nil {
		b = appendBytesField(b, fieldCommandParams, marshalCommandParams(*e.CommandParams))
	}

	return b, nil
}

// Unmarshal decodes a wire-form envelope.
func Unmarshal(b []byte) (Envelope, error) {
	var e Envelope
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldType:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			e.Type = MessageType(v)
			return n, nil
		case fieldPParams:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			pp := &ProtocolParams{}
			err = consumeFields(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
				if num == fieldPParamsKeepalive {
					v, n, err := consumeVarint(b)
					if err != nil {
						return 0, err
					}
					pp.KeepaliveTimerMs = v
					return n, nil
				}
				return 0, nil
			})
			if err != nil {
				return 0, err
			}
			e.PParams = pp
			return n, nil
		case fieldNote:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			e.Note = append(e.Note, v)
			return n, nil
		case fieldStatusIO:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			io, err := unmarshalIO(raw)
			if err != nil {
				return 0, err
			}
			e.StatusIO = &io
			return n, nil
		case fieldStatusTask:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			t, err := unmarshalTask(raw)
			if err != nil {
				return 0, err
			}
			e.StatusTask = &t
			return n, nil
		case fieldStatusInterp:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			v, err := unmarshalInterp(raw)
			if err != nil {
				return 0, err
			}
			e.StatusInterp = &v
			return n, nil
		case fieldStatusMotion:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			v, err := unmarshalMotion(raw)
			if err != nil {
				return 0, err
			}
			e.StatusMotion = &v
			return n, nil
		case fieldStatusConfig:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			v, err := unmarshalConfig(raw)
			if err != nil {
				return 0, err
			}
			e.StatusConfig = &v
			return n, nil
		case fieldCommandParams:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			v, err := unmarshalCommandParams(raw)
			if err != nil {
				return 0, err
			}
			e.CommandParams = &v
			return n, nil
		}
		return 0, nil
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("wire: unmarshal envelope: %w", err)
	}
	return e, nil
}
