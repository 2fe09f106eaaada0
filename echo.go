package tower

import "fmt"

// EchoRequest represents a request passed to an echo service.
type EchoRequest struct {
	Text string `json:"text"`
}

// NewEchoRequest returns a request carrying text.
func NewEchoRequest(text string) EchoRequest {
	return EchoRequest{Text: text}
}

// String returns the wrapped text.
func (r EchoRequest) String() string { return r.Text }

// GoString renders the request with its text quoted, as in EchoRequest("hi").
func (r EchoRequest) GoString() string { return fmt.Sprintf("EchoRequest(%q)", r.Text) }

// EchoResponse represents a response returned from an echo service.
type EchoResponse struct {
	Text string `json:"text"`
}

// String returns the wrapped text.
func (r EchoResponse) String() string { return r.Text }

// GoString renders the response with its text quoted, as in EchoResponse("hi").
func (r EchoResponse) GoString() string { return fmt.Sprintf("EchoResponse(%q)", r.Text) }

// EchoService is the service contract of an echo service.
type EchoService = Service[EchoRequest, EchoResponse]
