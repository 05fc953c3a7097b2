package fileservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerIPGateEnforcesLimit(t *testing.T) {
	g := newPerIPGate(2)

	assert.True(t, g.acquire("10.0.0.1"))
	assert.True(t, g.acquire("10.0.0.1"))
	assert.False(t, g.acquire("10.0.0.1"), "a third connection from the same address must be refused")

	// A different address is unaffected by the first address's count.
	assert.True(t, g.acquire("10.0.0.2"))
}

func TestPerIPGateReleaseFreesASlot(t *testing.T) {
	g := newPerIPGate(1)

	assert.True(t, g.acquire("10.0.0.1"))
	assert.False(t, g.acquire("10.0.0.1"))

	g.release("10.0.0.1")
	assert.True(t, g.acquire("10.0.0.1"), "releasing a slot must let a new connection through")
}

func TestPerIPGateReleaseNeverGoesNegative(t *testing.T) {
	g := newPerIPGate(1)
	g.release("10.0.0.1") // releasing with no prior acquire must not panic or underflow
	assert.True(t, g.acquire("10.0.0.1"))
}
