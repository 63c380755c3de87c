package protocol

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// MaxRequestSize is the number of bytes read from a connection for one request.
// Only a single read is performed; anything beyond it is ignored.
const MaxRequestSize = 1024

// ErrMalformedRequestLine is returned when the request line has fewer than
// two space separated tokens.
var ErrMalformedRequestLine = errors.New("malformed request line")

// Request is the part of an HTTP request the server looks at.
type Request struct {
	Method string
	Path   string
}

// ReadRequest performs a single read of at most MaxRequestSize bytes from r
// and parses the request line out of it.
func ReadRequest(r io.Reader) (*Request, error) {
	buf := make([]byte, MaxRequestSize)
	n, err := r.Read(buf)
	if n == 0 && err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	return ParseRequest(buf[:n])
}

// ParseRequest decodes raw request bytes and extracts the method and path
// from the first line. Invalid UTF-8 is replaced, never rejected.
func ParseRequest(raw []byte) (*Request, error) {
	text := decodeLossy(raw)

	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimSuffix(line, "\r")

	fields := strings.Split(line, " ")
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}
	return &Request{Method: fields[0], Path: fields[1]}, nil
}

func decodeLossy(raw []byte) string {
	s, _, err := transform.String(runes.ReplaceIllFormed(), string(raw))
	if err != nil {
		// ReplaceIllFormed does not fail on complete input
		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}
	return s
}
