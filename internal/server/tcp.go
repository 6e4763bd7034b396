// File: tcp.go
// Title: TCP Line Transport
// Description: Raw TCP listener in the style of a SCPI-over-socket port
//              (conventionally 5025). Each accepted connection gets its own
//              instrument session; lines in, response lines out. The
//              listener stops when the server is shut down.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial TCP transport

package server

import (
	"context"
	"errors"
	"net"

	"github.com/stonerlab/goscpi/pkg/core/logging"
)

func (s *Server) startTCP(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.TCP.Address)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("TCP transport listening", logging.Fields{
		"address": listener.Addr().String(),
	})

	s.wg.Add(1)
	go s.acceptLoop(ctx, listener)
	return nil
}

func (s *Server) acceptLoop(ctx context.Context, listener net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept failed", logging.Fields{"error": err.Error()})
			continue
		}
		s.wg.Add(1)
		go s.serveConn(ctx, conn)
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.logger.Info("connection opened", logging.Fields{"remote": remote})

	session := s.inst.NewSession(conn)
	defer session.Close()

	if err := session.Run(ctx, conn); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, context.Canceled) {
		s.logger.Warn("session ended with error", logging.Fields{
			"remote": remote,
			"error":  err.Error(),
		})
	}
	s.logger.Info("connection closed", logging.Fields{"remote": remote})
}
