// Package fileservice implements the file service (spec.md §4.H): an
// FTP-compatible server rooted at the program directory, anonymous
// read/write, bounded by a global and a per-IP connection limit, deleting
// incomplete uploads and cleaning up every file uploaded during the
// session on shutdown.
package fileservice

import (
	"fmt"
	"net"
	"sync"

	filedriver "github.com/goftp/file-driver"
	"github.com/goftp/server"
	"github.com/sirupsen/logrus"
)

// Config configures the file service.
type Config struct {
	RootDir            string
	Port               int
	MaxConnections     int
	MaxConnectionsPerIP int
}

// Service owns the FTP server, its per-IP connection gate, and the
// upload-cleanup roster (spec.md SUPPLEMENTED FEATURES).
type Service struct {
	cfg    Config
	logger *logrus.Logger
	srv    *server.Server
	gate   *perIPGate
	ln     net.Listener

	mu      sync.Mutex
	uploads map[string]bool // files created this session; unlinked on Close
}

// New builds a Service bound to cfg.Port, serving cfg.RootDir.
func New(cfg Config, logger *logrus.Logger) (*Service, error) {
	s := &Service{
		cfg:     cfg,
		logger:  logger,
		uploads: make(map[string]bool),
	}
	s.gate = newPerIPGate(cfg.MaxConnectionsPerIP)

	factory := &filedriver.FileDriverFactory{
		RootPath: cfg.RootDir,
		Perm:     server.NewSimplePerm("ftp", "ftp"),
	}

	opts := &server.ServerOpts{
		Factory:  factory,
		Port:     cfg.Port,
		Auth:     anonymousAuth{},
		MaxConns: cfg.MaxConnections,
		Logger:   &ftpLogAdapter{logger: logger},
		Notifier: &notifier{svc: s},
	}
	s.srv = server.NewServer(opts)
	return s, nil
}

// Listen opens the listening socket, so its bound port is known (for
// discovery announcement) before Run starts blocking.
func (s *Service) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("fileservice: listen: %w", err)
	}
	s.ln = ln
	return nil
}

// Port returns the actual bound port; valid only after Listen succeeds.
func (s *Service) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Run blocks serving FTP connections through the per-IP gate until the
// server is closed. Matches goftp/server's ListenAndServe blocking
// contract; the gate wraps the raw listener Listen already opened.
func (s *Service) Run() error {
	if err := s.srv.Serve(s.gate.wrap(s.ln)); err != nil {
		return fmt.Errorf("fileservice: serve: %w", err)
	}
	return nil
}

// Close shuts the server down and unlinks every file uploaded during the
// session (spec.md SUPPLEMENTED FEATURES: "on process termination, files
// uploaded during the session are deleted" — distinct from the
// incomplete-upload deletion the notifier does per-transfer).
func (s *Service) Close() error {
	s.mu.Lock()
	paths := make([]string, 0, len(s.uploads))
	for p := range s.uploads {
		paths = append(paths, p)
	}
	s.mu.Unlock()

	for _, p := range paths {
		if err := removeFile(s.cfg.RootDir, p); err != nil {
			s.logger.WithError(err).WithField("path", p).Warn("fileservice: cleanup failed")
		}
	}
	return s.srv.Shutdown()
}

type anonymousAuth struct{}

func (anonymousAuth) CheckPasswd(string, string) (bool, error) { return true, nil }
