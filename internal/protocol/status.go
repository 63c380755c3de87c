// Package protocol implements the small slice of HTTP/1.1 the static server
// speaks: reading a request line from a connection and encoding responses.
package protocol

import "fmt"

// Token is the protocol label written at the start of every status line.
// It is emitted as-is and is not a standard HTTP version identifier.
const Token = "HTTP1/1"

// Status is one of the fixed response statuses used by the server.
type Status struct {
	// Code is the numeric HTTP status code.
	Code int
	// Reason is the reason phrase written after the code.
	Reason string
}

// The only statuses the server ever answers with.
var (
	StatusOK               = Status{Code: 200, Reason: "OK"}
	StatusNotFound         = Status{Code: 404, Reason: "NOT FOUND"}
	StatusMethodNotAllowed = Status{Code: 405, Reason: "NOT ALLOWED"}
)

// FullMessage returns the code and reason joined by a space, e.g. "200 OK".
func (s Status) FullMessage() string {
	return fmt.Sprintf("%d %s", s.Code, s.Reason)
}

func (s Status) String() string {
	return s.FullMessage()
}
