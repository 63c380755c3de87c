package server

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/f4ah6o/static-server-go/internal/pages"
	"github.com/f4ah6o/static-server-go/internal/protocol"
)

// Handler serves exactly one request per connection. It holds only
// read-only values, so a single Handler is shared by all connections.
type Handler struct {
	pages        *pages.Resolver
	log          *slog.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewHandler creates a Handler serving pages from root.
// Zero timeouts leave the connection without deadlines.
func NewHandler(root string, readTimeout, writeTimeout time.Duration, log *slog.Logger) *Handler {
	return &Handler{
		pages:        pages.NewResolver(root),
		log:          log,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// ServeConn reads one request from conn, writes the response and closes
// conn. The handler takes ownership of conn.
//
// A malformed request line yields an error wrapping
// protocol.ErrMalformedRequestLine and nothing is written back.
func (h *Handler) ServeConn(conn net.Conn) error {
	defer conn.Close()

	if h.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(h.readTimeout)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
	}
	req, err := protocol.ReadRequest(conn)
	if err != nil {
		return err
	}

	res := h.respond(req)

	if h.writeTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}
	if _, err := res.WriteTo(conn); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	if res.Status == protocol.StatusMethodNotAllowed {
		h.log.Info(fmt.Sprintf("%s %s HTTP/1.1 %d", req.Method, req.Path, res.Status.Code))
	} else {
		h.log.Info(fmt.Sprintf("%s %s %s %s", req.Method, req.Path, protocol.Token, res.Status.FullMessage()))
	}
	return nil
}

func (h *Handler) respond(req *protocol.Request) *protocol.Response {
	if req.Method != "GET" {
		return protocol.NewMethodNotAllowed()
	}

	page := h.pages.Load(req.Path)
	if !page.Found {
		h.log.Debug("no page for path", "path", req.Path)
		return protocol.NewPageResponse(protocol.StatusNotFound, page.Contents)
	}
	h.log.Debug("resolved page", "path", req.Path, "file", page.File)
	return protocol.NewPageResponse(protocol.StatusOK, page.Contents)
}
