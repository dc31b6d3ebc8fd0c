package service

import "errors"

var (
	// ErrEmptyInput is returned when an operation receives blank or
	// whitespace-only text. No gateway call is made.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrGateway is returned when the gateway call itself fails: network
	// failure, non-success status, or a stream that could not be opened.
	ErrGateway = errors.New("gateway request failed")

	// ErrMalformedResponse is returned when the gateway succeeded but the
	// payload is not valid JSON or does not satisfy the required fields.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrSessionNotFound is returned when the chat session does not exist.
	ErrSessionNotFound = errors.New("chat session not found")

	// ErrAnalysisNotFound is returned when the analysis record does not exist.
	ErrAnalysisNotFound = errors.New("analysis not found")

	// ErrTurnInFlight is returned when a send is issued while a prior
	// stream for the same session is still open.
	ErrTurnInFlight = errors.New("a message is already streaming for this session")
)
