package command

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinekit/mkwrapper-go/internal/runtime"
	"github.com/machinekit/mkwrapper-go/internal/wire"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestHandlePingRepliesWithAck(t *testing.T) {
	sim := runtime.NewSimulator(testLogger())
	d := New(sim, "/programs", testLogger())

	req, err := wire.Marshal(wire.Envelope{Type: wire.MTPing})
	require.NoError(t, err)

	resp := d.Handle(req)
	env, err := wire.Unmarshal(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.MTPingAcknowledge, env.Type)
}

func TestHandleMalformedRequestRepliesError(t *testing.T) {
	sim := runtime.NewSimulator(testLogger())
	d := New(sim, "/programs", testLogger())

	resp := d.Handle([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	env, err := wire.Unmarshal(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.MTError, env.Type)
}

func TestHandleUnknownCommandRepliesError(t *testing.T) {
	sim := runtime.NewSimulator(testLogger())
	d := New(sim, "/programs", testLogger())

	req, err := wire.Marshal(wire.Envelope{Type: wire.MessageType(9999)})
	require.NoError(t, err)

	resp := d.Handle(req)
	env, err := wire.Unmarshal(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.MTError, env.Type)
	assert.Equal(t, []string{"unknown command"}, env.Note)
}

func TestHandleMissingRequiredParamsRepliesError(t *testing.T) {
	sim := runtime.NewSimulator(testLogger())
	d := New(sim, "/programs", testLogger())

	// MTPlanRun requires FieldLineNumber; send it with no params at all.
	req, err := wire.Marshal(wire.Envelope{Type: wire.MTPlanRun})
	require.NoError(t, err)

	resp := d.Handle(req)
	env, err := wire.Unmarshal(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.MTError, env.Type)
	assert.Equal(t, []string{"wrong parameters"}, env.Note)
}

func TestHandleSuccessfulCommandRepliesWithEmptyEnvelope(t *testing.T) {
	sim := runtime.NewSimulator(testLogger())
	d := New(sim, "/programs", testLogger())

	req, err := wire.Marshal(wire.Envelope{
		Type:          wire.MTPlanRun,
		CommandParams: &wire.CommandParams{Present: wire.FieldLineNumber, LineNumber: 10},
	})
	require.NoError(t, err)

	resp := d.Handle(req)
	env, err := wire.Unmarshal(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.MessageType(0), env.Type)
	assert.Nil(t, env.Note)

	fresh, err := sim.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, fresh.Task.CurrentLine)
}

func TestHandleToolSetOffsetAcceptsLegitimateZeroOffset(t *testing.T) {
	sim := runtime.NewSimulator(testLogger())
	d := New(sim, "/programs", testLogger())

	req, err := wire.Marshal(wire.Envelope{
		Type: wire.MTToolSetOffset,
		CommandParams: &wire.CommandParams{
			Present: wire.FieldToolIndex | wire.FieldToolZOffset | wire.FieldToolXOffset |
				wire.FieldToolDiameter | wire.FieldToolFrontAngle | wire.FieldToolBackAngle |
				wire.FieldToolOrientation,
			ToolIndex: 0, ToolZOffset: 0, ToolXOffset: 0, ToolDiameter: 0,
			ToolFrontAngle: 0, ToolBackAngle: 0, ToolOrientation: 0,
		},
	})
	require.NoError(t, err)

	resp := d.Handle(req)
	env, err := wire.Unmarshal(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.MessageType(0), env.Type, "a fully-present zero-valued offset must not be rejected as missing parameters")
}
