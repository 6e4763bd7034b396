// File: server.go
// Title: Transport Server
// Description: Hosts an instrument behind the configured line transports.
//              Start brings up the enabled listeners (TCP and/or WebSocket)
//              and returns; Stop closes them and waits for active sessions
//              to drain.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial transport server

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/stonerlab/goscpi/pkg/core/config"
	"github.com/stonerlab/goscpi/pkg/core/health"
	"github.com/stonerlab/goscpi/pkg/core/logging"
	"github.com/stonerlab/goscpi/pkg/scpi"
)

// Options configures a transport server
type Options struct {
	Instrument *scpi.Instrument
	Config     config.ServerConfig

	// Health, when set, is mounted as /healthz on the WebSocket HTTP server
	Health *health.Registry

	Logger *logging.Logger
}

// Server exposes one instrument over the enabled transports
type Server struct {
	inst   *scpi.Instrument
	cfg    config.ServerConfig
	health *health.Registry
	logger *logging.Logger

	mu       sync.Mutex
	listener net.Listener
	httpSrv  *http.Server
	wg       sync.WaitGroup
}

// New creates a transport server for the instrument
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default().WithName("server")
	}
	return &Server{
		inst:   opts.Instrument,
		cfg:    opts.Config,
		health: opts.Health,
		logger: logger,
	}
}

// Start brings up the enabled transports. At least one transport must be
// enabled.
func (s *Server) Start(ctx context.Context) error {
	if !s.cfg.TCP.Enabled && !s.cfg.WebSocket.Enabled {
		return errors.New("no transport enabled")
	}
	if s.cfg.TCP.Enabled {
		if err := s.startTCP(ctx); err != nil {
			return err
		}
	}
	if s.cfg.WebSocket.Enabled {
		if err := s.startWebSocket(ctx); err != nil {
			s.closeListeners(ctx)
			return err
		}
	}
	return nil
}

// Stop closes the listeners and waits for running sessions to finish
func (s *Server) Stop(ctx context.Context) error {
	err := s.closeListeners(ctx)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

// TCPAddr returns the bound TCP address, for tests and logs
func (s *Server) TCPAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) closeListeners(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	httpSrv := s.httpSrv
	s.mu.Unlock()

	var err error
	if listener != nil {
		err = listener.Close()
	}
	if httpSrv != nil {
		if shutdownErr := httpSrv.Shutdown(ctx); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}
	return err
}
