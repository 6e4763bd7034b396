// File: websocket.go
// Title: WebSocket Line Transport
// Description: WebSocket endpoint carrying the same line protocol as the
//              TCP transport: each text message is one input line, each
//              response line is sent as one text message. One instrument
//              session per socket.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial WebSocket transport

package server

import (
	"bytes"
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/stonerlab/goscpi/pkg/core/logging"
)

// WebSocket upgrader with permissive settings for local development
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

func (s *Server) startWebSocket(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.WebSocket.Path, func(w http.ResponseWriter, r *http.Request) {
		s.serveWebSocket(ctx, w, r)
	})
	if s.health != nil {
		mux.Handle("/healthz", s.health.Handler())
	}

	httpSrv := &http.Server{
		Addr:    s.cfg.WebSocket.Address,
		Handler: mux,
	}
	s.mu.Lock()
	s.httpSrv = httpSrv
	s.mu.Unlock()

	s.logger.Info("WebSocket transport listening", logging.Fields{
		"address": s.cfg.WebSocket.Address,
		"path":    s.cfg.WebSocket.Path,
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("WebSocket server failed", logging.Fields{"error": err.Error()})
		}
	}()
	return nil
}

func (s *Server) serveWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", logging.Fields{"error": err.Error()})
		return
	}
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.logger.Info("WebSocket connection established", logging.Fields{"remote": remote})

	session := s.inst.NewSession(&wsWriter{conn: conn})
	defer session.Close()

	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket read error", logging.Fields{"remote": remote, "error": err.Error()})
			} else {
				s.logger.Info("WebSocket connection closed", logging.Fields{"remote": remote})
			}
			return
		}
		if err := session.Execute(ctx, string(data)); err != nil {
			return
		}
	}
}

// wsWriter adapts a websocket connection to the session's io.Writer: each
// write is one response line, sent as one text message without the
// trailing newline. Gorilla permits a single concurrent writer, so writes
// are serialized.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteMessage(websocket.TextMessage, bytes.TrimRight(p, "\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}
