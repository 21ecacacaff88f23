package workbench

import "errors"

var (
	// ErrPrecondition is returned by Begin when a chained action is invoked
	// while the displayed artifact has the wrong kind. Nothing is dispatched.
	ErrPrecondition = errors.New("displayed artifact does not allow this action")

	// ErrTransport wraps failures where no successful response arrived
	ErrTransport = errors.New("transport failure")

	// ErrMalformed wraps structured responses that could not be decoded
	ErrMalformed = errors.New("malformed response")

	// ErrNoExample is returned when loadExample is invoked without a selection
	ErrNoExample = errors.New("no example selected")

	// ErrUnknownAction is returned for actions without an endpoint
	ErrUnknownAction = errors.New("unknown action")
)
