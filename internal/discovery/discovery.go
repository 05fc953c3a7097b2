// Package discovery implements the service announcer (spec.md §4.G): it
// registers the status, error, command, and file endpoints with the local
// mDNS daemon under service type _machinekit._tcp, one role subtype per
// endpoint, each carrying a dsn/uuid/service/instance TXT record.
package discovery

import (
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/hashicorp/mdns"
	"github.com/sirupsen/logrus"
)

const serviceType = "_machinekit._tcp"

// Endpoint is one of the four announced roles.
type Endpoint struct {
	Role string // "status", "error", "command", "file"
	IP   net.IP
	Port int
}

// Announcer owns the live mDNS servers for every registered endpoint and
// withdraws them all on Close.
type Announcer struct {
	mkUUID  string
	logger  *logrus.Logger
	servers []*mdns.Server
}

// New returns an Announcer identified by mkUUID (the machine-config
// MKUUID).
func New(mkUUID string, logger *logrus.Logger) *Announcer {
	return &Announcer{mkUUID: mkUUID, logger: logger}
}

// Announce registers one mDNS service per endpoint under
// _<role>._sub._machinekit._tcp, each with its own per-instance UUID.
func (a *Announcer) Announce(instanceName string, endpoints []Endpoint) error {
	for _, ep := range endpoints {
		instanceUUID := uuid.NewString()
		txt := []string{
			fmt.Sprintf("dsn=tcp://%s:%d", ep.IP, ep.Port),
			fmt.Sprintf("uuid=%s", a.mkUUID),
			fmt.Sprintf("service=%s", ep.Role),
			fmt.Sprintf("instance=%s", instanceUUID),
		}

		subtype := fmt.Sprintf("_%s._sub.%s", ep.Role, serviceType)
		svc, err := mdns.NewMDNSService(
			fmt.Sprintf("%s-%s", instanceName, ep.Role),
			subtype,
			"",
			"",
			ep.Port,
			[]net.IP{ep.IP},
			txt,
		)
		if err != nil {
			return fmt.Errorf("discovery: build %s service record: %w", ep.Role, err)
		}

		server, err := mdns.NewServer(&mdns.Config{Zone: svc})
		if err != nil {
			return fmt.Errorf("discovery: announce %s: %w", ep.Role, err)
		}
		a.servers = append(a.servers, server)
		a.logger.WithFields(logrus.Fields{"role": ep.Role, "port": ep.Port, "ip": ep.IP}).
			Info("discovery: announced endpoint")
	}
	return nil
}

// Close withdraws every registered service (spec.md §5: "service
// announcements are withdrawn before socket close").
func (a *Announcer) Close() error {
	var firstErr error
	for _, s := range a.servers {
		if err := s.Shutdown(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("discovery: shutdown: %w", err)
		}
	}
	return firstErr
}
