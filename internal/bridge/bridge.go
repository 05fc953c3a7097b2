// Package bridge wires the three concurrency contexts of spec.md §5
// together: the socket-poll context (subscribe/unsubscribe + command
// handling), the control-loop context (poller.Poller), and the
// file-service context. Run blocks until ctx is cancelled, exactly like
// the teacher's internal/app/app.go Run.
package bridge

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/pebbe/zmq4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/machinekit/mkwrapper-go/internal/command"
	"github.com/machinekit/mkwrapper-go/internal/config"
	"github.com/machinekit/mkwrapper-go/internal/differ"
	"github.com/machinekit/mkwrapper-go/internal/discovery"
	"github.com/machinekit/mkwrapper-go/internal/fileservice"
	"github.com/machinekit/mkwrapper-go/internal/poller"
	"github.com/machinekit/mkwrapper-go/internal/publish"
	"github.com/machinekit/mkwrapper-go/internal/runtime"
	"github.com/machinekit/mkwrapper-go/internal/subscribe"
)

// Run binds the status/error/command sockets on ip and the file service on
// every local address (its port is announced with ip), announces all four
// via discovery, then blocks running the three
// concurrency contexts until parentCtx is cancelled.
func Run(
	parentCtx context.Context,
	cfg *config.Config,
	machineCfg *config.MachineConfig,
	ip net.IP,
	commander runtime.Commander,
	statPoller runtime.StatPoller,
	logger *logrus.Logger,
) error {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	statusSock, statusPort, err := bindXPub(ip)
	if err != nil {
		return fmt.Errorf("bridge: bind status socket: %w", err)
	}
	defer statusSock.Close()

	errorSock, errorPort, err := bindXPub(ip)
	if err != nil {
		return fmt.Errorf("bridge: bind error socket: %w", err)
	}
	defer errorSock.Close()

	commandSock, commandPort, err := bindRep(ip)
	if err != nil {
		return fmt.Errorf("bridge: bind command socket: %w", err)
	}
	defer commandSock.Close()

	tracker := subscribe.New()
	chDiffer := differ.New(cfg.Static)
	statusPub := publish.NewStatusPublisher(statusSock, tracker, logger)
	errorPub := publish.NewErrorPublisher(errorSock, tracker, logger)
	dispatcher := command.New(commander, cfg.ProgramDirectory, logger)
	ctrlLoop := poller.New(statPoller, tracker, chDiffer, statusPub, errorPub, cfg.CycleTime, cfg.PingInterval, logger)

	fileSvc, err := fileservice.New(fileservice.Config{
		RootDir:             cfg.ProgramDirectory,
		Port:                0,
		MaxConnections:      config.FileServiceMaxConnections,
		MaxConnectionsPerIP: config.FileServiceMaxConnectionsPerIP,
	}, logger)
	if err != nil {
		return fmt.Errorf("bridge: init file service: %w", err)
	}
	if err := fileSvc.Listen(); err != nil {
		return fmt.Errorf("bridge: listen file service: %w", err)
	}

	announcer := discovery.New(machineCfg.MKUUID, logger)
	if err := announcer.Announce(cfg.ServiceName, []discovery.Endpoint{
		{Role: "status", IP: ip, Port: statusPort},
		{Role: "error", IP: ip, Port: errorPort},
		{Role: "command", IP: ip, Port: commandPort},
		{Role: "file", IP: ip, Port: fileSvc.Port()},
	}); err != nil {
		return fmt.Errorf("bridge: announce endpoints: %w", err)
	}
	defer func() {
		if err := announcer.Close(); err != nil {
			logger.WithError(err).Warn("bridge: announcer shutdown failed")
		}
	}()

	grp, ctx := errgroup.WithContext(ctx)

	// Socket-poll context (spec.md §5, context 1).
	grp.Go(func() error {
		return pollSockets(ctx, statusSock, errorSock, commandSock, tracker, dispatcher, logger)
	})

	// Control-loop context (spec.md §5, context 2).
	grp.Go(func() error {
		return ctrlLoop.Run(ctx)
	})

	// File-service context (spec.md §5, context 3).
	grp.Go(func() error {
		if err := fileSvc.Run(); err != nil {
			return fmt.Errorf("bridge: file service: %w", err)
		}
		return nil
	})
	grp.Go(func() error {
		<-ctx.Done()
		return fileSvc.Close()
	})

	if err := grp.Wait(); err != nil && err != context.Canceled {
		return fmt.Errorf("bridge: %w", err)
	}
	return nil
}

func bindXPub(ip net.IP) (*zmq4.Socket, int, error) {
	sock, err := zmq4.NewSocket(zmq4.XPUB)
	if err != nil {
		return nil, 0, err
	}
	if err := sock.SetXpubVerbose(true); err != nil {
		sock.Close()
		return nil, 0, fmt.Errorf("set xpub verbose: %w", err)
	}
	port, err := bind(sock, ip)
	if err != nil {
		sock.Close()
		return nil, 0, err
	}
	return sock, port, nil
}

func bindRep(ip net.IP) (*zmq4.Socket, int, error) {
	sock, err := zmq4.NewSocket(zmq4.REP)
	if err != nil {
		return nil, 0, err
	}
	port, err := bind(sock, ip)
	if err != nil {
		sock.Close()
		return nil, 0, err
	}
	return sock, port, nil
}

func bind(sock *zmq4.Socket, ip net.IP) (int, error) {
	if err := sock.Bind(fmt.Sprintf("tcp://%s:*", ip)); err != nil {
		return 0, fmt.Errorf("bind: %w", err)
	}
	endpoint, err := sock.GetLastEndpoint()
	if err != nil {
		return 0, fmt.Errorf("get bound endpoint: %w", err)
	}
	// endpoint has the form "tcp://ip:port"; the port is whatever follows
	// the last colon.
	idx := strings.LastIndex(endpoint, ":")
	if idx < 0 {
		return 0, fmt.Errorf("unexpected endpoint %q", endpoint)
	}
	var port int
	if _, err := fmt.Sscanf(endpoint[idx+1:], "%d", &port); err != nil {
		return 0, fmt.Errorf("parse port from %q: %w", endpoint, err)
	}
	return port, nil
}

func pollSockets(
	ctx context.Context,
	statusSock, errorSock, commandSock *zmq4.Socket,
	tracker *subscribe.Tracker,
	dispatcher *command.Dispatcher,
	logger *logrus.Logger,
) error {
	poller := zmq4.NewPoller()
	poller.Add(statusSock, zmq4.POLLIN)
	poller.Add(errorSock, zmq4.POLLIN)
	poller.Add(commandSock, zmq4.POLLIN)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		polled, err := poller.Poll(200 * time.Millisecond)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.WithError(err).Warn("bridge: socket poll failed")
			continue
		}
		for _, p := range polled {
			switch sock := p.Socket; sock {
			case statusSock, errorSock:
				handleSubscription(sock, tracker, logger)
			case commandSock:
				handleCommand(sock, dispatcher, logger)
			}
		}
	}
}

func handleSubscription(sock *zmq4.Socket, tracker *subscribe.Tracker, logger *logrus.Logger) {
	frame, err := sock.RecvBytes(zmq4.DONTWAIT)
	if err != nil {
		return
	}
	ev, ok := subscribe.ParseEvent(frame)
	if !ok {
		return
	}
	tracker.Handle(ev)
	logger.WithFields(logrus.Fields{"topic": ev.Topic, "subscribe": ev.Subscribe}).Debug("bridge: subscription event")
}

func handleCommand(sock *zmq4.Socket, dispatcher *command.Dispatcher, logger *logrus.Logger) {
	req, err := sock.RecvBytes(0)
	if err != nil {
		logger.WithError(err).Warn("bridge: command recv failed")
		return
	}
	resp := dispatcher.Handle(req)
	if _, err := sock.SendBytes(resp, 0); err != nil {
		logger.WithError(err).Warn("bridge: command reply send failed")
	}
}
