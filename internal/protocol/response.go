package protocol

import (
	"fmt"
	"io"
)

// Response is a fully buffered response.
type Response struct {
	Status Status
	Body   string

	// omitLength drops the Content-Length header, used for 405 answers.
	omitLength bool
}

// NewPageResponse returns a response carrying a page body.
func NewPageResponse(status Status, body string) *Response {
	return &Response{Status: status, Body: body}
}

// NewMethodNotAllowed returns the empty 405 response.
func NewMethodNotAllowed() *Response {
	return &Response{Status: StatusMethodNotAllowed, omitLength: true}
}

// StatusLine returns the status line without the trailing CRLF.
func (r *Response) StatusLine() string {
	return Token + " " + r.Status.FullMessage()
}

// Bytes encodes the whole response.
func (r *Response) Bytes() []byte {
	if r.omitLength {
		return []byte(fmt.Sprintf("%s\r\n\r\n%s", r.StatusLine(), r.Body))
	}
	return []byte(fmt.Sprintf("%s\r\nContent-Length: %d\r\n\r\n%s",
		r.StatusLine(), len(r.Body), r.Body))
}

// WriteTo writes the encoded response to w in one call.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}
