package netselect

import (
	"io"
	"net"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestIPFromAddrHandlesIPNet(t *testing.T) {
	addr := &net.IPNet{IP: net.ParseIP("192.168.1.5"), Mask: net.CIDRMask(24, 32)}
	ip := ipFromAddr(addr)
	assert.Equal(t, "192.168.1.5", ip.String())
}

func TestIPFromAddrHandlesIPAddr(t *testing.T) {
	addr := &net.IPAddr{IP: net.ParseIP("10.0.0.9")}
	ip := ipFromAddr(addr)
	assert.Equal(t, "10.0.0.9", ip.String())
}

func TestIPFromAddrReturnsNilForUnknownType(t *testing.T) {
	addr := &net.UnixAddr{Name: "/tmp/sock", Net: "unix"}
	ip := ipFromAddr(addr)
	assert.Nil(t, ip)
}

func TestSelectReturnsErrorWhenNoPrefixMatches(t *testing.T) {
	// A prefix that cannot match any real interface name on any test
	// runner exercises the "none of interfaces has a usable address" path
	// without depending on the host's actual network configuration.
	_, _, err := Select([]string{"no-such-prefix-zzz"}, testLogger())
	assert.Error(t, err)
}
