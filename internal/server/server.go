// Package server accepts TCP connections and answers each one with a single
// static page, one goroutine per connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"golang.org/x/net/netutil"

	"github.com/f4ah6o/static-server-go/internal/config"
	"github.com/f4ah6o/static-server-go/internal/protocol"
)

// Server is the connection acceptor.
type Server struct {
	cfg     config.Config
	handler *Handler
	log     *slog.Logger
}

// New creates a Server for cfg. cfg is copied.
func New(cfg config.Config, log *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		handler: NewHandler(cfg.RootFolder, cfg.ReadTimeout, cfg.WriteTimeout, log),
		log:     log,
	}
}

// Listen binds the listening socket on localhost. When MaxConnections is
// set the listener stops accepting while that many connections are open.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is cancelled, handing each one
// to its own goroutine. Accept errors are logged and the loop goes on.
// Serve closes ln and returns nil once ctx is done; in-flight connections
// are not waited for.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			// same backoff as net/http.Server.Serve
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > time.Second {
				delay = time.Second
			}
			s.log.Error("accept failed", "err", err, "retry_in", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0
		go s.serveConn(conn)
	}
}

// ListenAndServe binds the socket and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) serveConn(conn net.Conn) {
	remote := "unknown"
	if addr := conn.RemoteAddr(); addr != nil {
		remote = addr.String()
	}

	err := s.handler.ServeConn(conn)
	switch {
	case err == nil:
	case errors.Is(err, protocol.ErrMalformedRequestLine):
		s.log.Warn("closing connection with malformed request", "remote", remote, "err", err)
	default:
		s.log.Warn("connection failed", "remote", remote, "err", err)
	}
}
