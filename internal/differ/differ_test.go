package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/machinekit/mkwrapper-go/internal/status"
)

func TestDiffIOFirstRunReportsZeroBaseline(t *testing.T) {
	d := New(status.StaticConfig{})
	fresh := status.IO{Estop: false, Flood: false}
	delta, modified := d.DiffIO(fresh)
	// First run: baseline starts at the zero value, which matches fresh
	// exactly here, so nothing changed.
	assert.False(t, modified)
	assert.Equal(t, status.IO{}, delta)
}

func TestDiffIOReportsOnlyChangedScalarFields(t *testing.T) {
	d := New(status.StaticConfig{})
	d.DiffIO(status.IO{})

	delta, modified := d.DiffIO(status.IO{Estop: true, Flood: false})
	assert.True(t, modified)
	assert.True(t, delta.Estop)
	assert.False(t, delta.Flood)
}

func TestDiffIOFloatToleranceSuppressesJitter(t *testing.T) {
	d := New(status.StaticConfig{})
	d.DiffIO(status.IO{Ain: []status.AnalogIO{{Index: 0, Value: 1.0}}})

	_, modified := d.DiffIO(status.IO{Ain: []status.AnalogIO{{Index: 0, Value: 1.0 + status.Tolerance/2}}})
	assert.False(t, modified, "a change within tolerance must not be reported")

	delta, modified := d.DiffIO(status.IO{Ain: []status.AnalogIO{{Index: 0, Value: 2.0}}})
	assert.True(t, modified)
	if assert.Len(t, delta.Ain, 1) {
		assert.Equal(t, 0, delta.Ain[0].Index)
		assert.InDelta(t, 2.0, delta.Ain[0].Value, 1e-9)
	}
}

func TestDiffIOToolTableSentinelNeverDiffed(t *testing.T) {
	d := New(status.StaticConfig{})
	sentinel := status.ToolTableEntry{Index: 0, ID: status.ToolTableSentinelID}
	d.DiffIO(status.IO{ToolTable: []status.ToolTableEntry{sentinel}})

	// Changing a field of a still-sentinel slot must never surface as a delta.
	sentinel.ZOffset = 42
	_, modified := d.DiffIO(status.IO{ToolTable: []status.ToolTableEntry{sentinel}})
	assert.False(t, modified)
}

func TestDiffIOIndexedOnlyChangedSlotReported(t *testing.T) {
	d := New(status.StaticConfig{})
	d.DiffIO(status.IO{
		Din: []status.DigitalIO{{Index: 0, Value: false}, {Index: 1, Value: false}},
	})

	delta, modified := d.DiffIO(status.IO{
		Din: []status.DigitalIO{{Index: 0, Value: false}, {Index: 1, Value: true}},
	})
	assert.True(t, modified)
	if assert.Len(t, delta.Din, 1) {
		assert.Equal(t, 1, delta.Din[0].Index)
		assert.True(t, delta.Din[0].Value)
	}
}

func TestDiffConfigSeedsStaticFieldsOnce(t *testing.T) {
	static := status.StaticConfig{DefaultVelocity: 5, Geometry: "XYZ"}
	d := New(static)

	delta, modified := d.DiffConfig(status.Config{})
	assert.True(t, modified)
	assert.Equal(t, 5.0, delta.DefaultVelocity)
	assert.Equal(t, "XYZ", delta.Geometry)

	// Static fields are seeded once; they do not reappear as "changed" on
	// subsequent cycles even though they are never re-read from fresh.
	_, modified = d.DiffConfig(status.Config{})
	assert.False(t, modified)
}
