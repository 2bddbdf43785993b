package domain

// RelayRequest is the body accepted by the relay and forwarded upstream.
type RelayRequest struct {
	Message string `json:"message"`
}

// RelayResponse is the body returned by the relay. Response is a pointer so
// that a missing field can be told apart from an empty one.
type RelayResponse struct {
	Response *string `json:"response,omitempty"`
	Error    string  `json:"error,omitempty"`
}
