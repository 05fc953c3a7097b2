// Package netselect picks the bound IPv4 address sockets announce and
// listen on, given an ordered list of interface-name prefixes. It is
// adapted from the teacher's internal/netutil private/public IP
// classifier: the same "inspect net.Interfaces, classify addresses"
// approach, repurposed from DNS-dialer logging into an interface-prefix
// fallback search (spec.md SUPPLEMENTED FEATURES).
package netselect

import (
	"fmt"
	"net"
	"strings"

	"github.com/sirupsen/logrus"
)

// Select returns the first non-loopback IPv4 address bound to an interface
// whose name has one of prefixes as a prefix, tried in order. If prefixes
// is empty, every interface is considered in whatever order the OS
// reports them.
func Select(prefixes []string, logger *logrus.Logger) (net.IP, string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, "", fmt.Errorf("netselect: list interfaces: %w", err)
	}

	if len(prefixes) == 0 {
		if ip, name, ok := firstUsableIPv4(ifaces, ""); ok {
			return ip, name, nil
		}
		return nil, "", fmt.Errorf("netselect: no usable IPv4 interface found")
	}

	for _, prefix := range prefixes {
		if ip, name, ok := firstUsableIPv4(ifaces, prefix); ok {
			logger.WithFields(logrus.Fields{"interface": name, "address": ip, "prefix": prefix}).
				Info("netselect: bound interface")
			return ip, name, nil
		}
		logger.WithField("prefix", prefix).Debug("netselect: no usable interface, trying next prefix")
	}

	return nil, "", fmt.Errorf("netselect: none of interfaces %v has a usable IPv4 address", prefixes)
}

func firstUsableIPv4(ifaces []net.Interface, prefix string) (net.IP, string, bool) {
	for _, iface := range ifaces {
		if prefix != "" && !strings.HasPrefix(iface.Name, prefix) {
			continue
		}
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ip := ipFromAddr(addr)
			if ip == nil || ip.IsLoopback() {
				continue
			}
			v4 := ip.To4()
			if v4 == nil {
				continue
			}
			return v4, iface.Name, true
		}
	}
	return nil, "", false
}

func ipFromAddr(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPNet:
		return a.IP
	case *net.IPAddr:
		return a.IP
	default:
		return nil
	}
}
