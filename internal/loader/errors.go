package loader

import "errors"

var (
	// ErrPreconditionNotMet means a required identifier was missing or held the
	// sentinel; no request was issued.
	ErrPreconditionNotMet = errors.New("loader: precondition not met")
	// ErrEmptyResult means the request succeeded but the response lacked the
	// expected fields.
	ErrEmptyResult = errors.New("loader: empty result")
	// ErrTransport means the request failed at the network or server level.
	ErrTransport = errors.New("loader: transport failure")
)
