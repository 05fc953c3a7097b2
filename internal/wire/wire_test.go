package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinekit/mkwrapper-go/internal/status"
)

func TestEnvelopeRoundTripPing(t *testing.T) {
	in := Envelope{Type: MTPing}
	b, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, MTPing, out.Type)
	assert.Nil(t, out.PParams)
}

func TestEnvelopeRoundTripFullUpdateWithPParams(t *testing.T) {
	in := Envelope{
		Type:    MTStatFullUpdate,
		PParams: &ProtocolParams{KeepaliveTimerMs: 2000},
		StatusIO: &status.IO{
			Estop: true,
			ToolTable: []status.ToolTableEntry{
				{Index: 0, ID: 3, ZOffset: 1.5, Orientation: 2},
				{Index: 1, ID: status.ToolTableSentinelID},
			},
			Din: []status.DigitalIO{{Index: 0, Value: true}},
		},
	}
	b, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, MTStatFullUpdate, out.Type)
	require.NotNil(t, out.PParams)
	assert.Equal(t, int64(2000), out.PParams.KeepaliveTimerMs)

	require.NotNil(t, out.StatusIO)
	assert.True(t, out.StatusIO.Estop)
	require.Len(t, out.StatusIO.ToolTable, 2)
	assert.Equal(t, 3, out.StatusIO.ToolTable[0].ID)
	assert.InDelta(t, 1.5, out.StatusIO.ToolTable[0].ZOffset, 1e-9)
	assert.Equal(t, status.ToolTableSentinelID, out.StatusIO.ToolTable[1].ID)
	require.Len(t, out.StatusIO.Din, 1)
	assert.True(t, out.StatusIO.Din[0].Value)
}

func TestEnvelopeRoundTripErrorNote(t *testing.T) {
	in := Envelope{Type: MTErrorNML, Note: []string{"servo fault on X"}}
	b, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, MTErrorNML, out.Type)
	assert.Equal(t, []string{"servo fault on X"}, out.Note)
}

func TestCommandParamsRoundTripPresenceBitmask(t *testing.T) {
	in := Envelope{
		Type: MTToolSetOffset,
		CommandParams: &CommandParams{
			Present:      FieldToolIndex | FieldToolZOffset,
			ToolIndex:    1,
			ToolZOffset:  0, // legitimate zero value, must still round-trip as present
		},
	}
	b, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(b)
	require.NoError(t, err)
	require.NotNil(t, out.CommandParams)
	assert.True(t, out.CommandParams.Present.Has(FieldToolIndex))
	assert.True(t, out.CommandParams.Present.Has(FieldToolZOffset))
	assert.False(t, out.CommandParams.Present.Has(FieldToolXOffset))
	assert.Equal(t, 1, out.CommandParams.ToolIndex)
	assert.Equal(t, 0.0, out.CommandParams.ToolZOffset)
}

func TestCommandParamsAbsentFieldNotReportedPresent(t *testing.T) {
	in := Envelope{
		Type: MTPlanRun,
		CommandParams: &CommandParams{
			Present:    FieldLineNumber,
			LineNumber: 42,
		},
	}
	b, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(b)
	require.NoError(t, err)
	require.NotNil(t, out.CommandParams)
	assert.Equal(t, 42, out.CommandParams.LineNumber)
	assert.False(t, out.CommandParams.Present.Has(FieldVelocity))
}

func TestMalformedEnvelopeReturnsError(t *testing.T) {
	_, err := Unmarshal([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	assert.Error(t, err)
}
