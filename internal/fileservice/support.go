package fileservice

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/goftp/server"
	"github.com/sirupsen/logrus"
)

// perIPGate enforces the per-IP connection cap goftp/server's ServerOpts
// has no native field for (only a global MaxConns); it wraps the raw
// listener and refuses an Accept once an address already holds limit
// connections.
type perIPGate struct {
	limit int

	mu     sync.Mutex
	counts map[string]int
}

func newPerIPGate(limit int) *perIPGate {
	return &perIPGate{limit: limit, counts: make(map[string]int)}
}

func (g *perIPGate) wrap(ln net.Listener) net.Listener {
	return &gatedListener{gate: g, Listener: ln}
}

func (g *perIPGate) acquire(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.counts[ip] >= g.limit {
		return false
	}
	g.counts[ip]++
	return true
}

func (g *perIPGate) release(ip string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counts[ip]--
	if g.counts[ip] <= 0 {
		delete(g.counts, ip)
	}
}

type gatedListener struct {
	net.Listener
	gate *perIPGate
}

func (l *gatedListener) Accept() (net.Conn, error) {
	for {
		conn, err := l.Listener.Accept()
		if err != nil {
			return nil, err
		}
		host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
		if err != nil {
			host = conn.RemoteAddr().String()
		}
		if !l.gate.acquire(host) {
			conn.Close()
			continue
		}
		return &gatedConn{Conn: conn, gate: l.gate, host: host}, nil
	}
}

type gatedConn struct {
	net.Conn
	gate     *perIPGate
	host     string
	released bool
	mu       sync.Mutex
}

func (c *gatedConn) Close() error {
	c.mu.Lock()
	if !c.released {
		c.released = true
		c.gate.release(c.host)
	}
	c.mu.Unlock()
	return c.Conn.Close()
}

// notifier hooks goftp/server's transfer lifecycle: it records every
// successfully-started upload in the session roster, and on a failed
// (incomplete) upload deletes the partial file immediately.
type notifier struct {
	server.NullNotifier
	svc *Service
}

func (n *notifier) BeforePutFile(ctx *server.Context, dstPath string) {
	n.svc.mu.Lock()
	n.svc.uploads[dstPath] = true
	n.svc.mu.Unlock()
}

func (n *notifier) AfterFilePut(ctx *server.Context, dstPath string, size int64, err error) {
	if err == nil {
		return
	}
	if rmErr := removeFile(n.svc.cfg.RootDir, dstPath); rmErr != nil {
		n.svc.logger.WithError(rmErr).WithField("path", dstPath).Warn("fileservice: failed to delete incomplete upload")
		return
	}
	n.svc.mu.Lock()
	delete(n.svc.uploads, dstPath)
	n.svc.mu.Unlock()
}

func (n *notifier) AfterFileDeleted(ctx *server.Context, dstPath string, err error) {
	if err != nil {
		return
	}
	n.svc.mu.Lock()
	delete(n.svc.uploads, dstPath)
	n.svc.mu.Unlock()
}

func removeFile(root, dstPath string) error {
	full := filepath.Join(root, dstPath)
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("fileservice: remove %q: %w", full, err)
	}
	return nil
}

// ftpLogAdapter forwards goftp/server's internal logging to logrus.
type ftpLogAdapter struct {
	logger *logrus.Logger
}

func (a *ftpLogAdapter) Print(sessionID string, message interface{}) {
	a.logger.WithField("session", sessionID).Debug(message)
}

func (a *ftpLogAdapter) Printf(sessionID string, format string, v ...interface{}) {
	a.logger.WithField("session", sessionID).Debugf(format, v...)
}

func (a *ftpLogAdapter) PrintCommand(sessionID string, command, params string) {
	a.logger.WithField("session", sessionID).Debugf("> %s %s", command, params)
}

func (a *ftpLogAdapter) PrintResponse(sessionID string, code int, message string) {
	a.logger.WithField("session", sessionID).Debugf("< %d %s", code, message)
}
