package session

import "errors"

// notLoadedError signals a Generate or stats call against a session with no
// live model.
type notLoadedError struct{}

func (notLoadedError) Error() string { return "no model loaded" }

// ErrNotLoaded constructs a notLoadedError.
func ErrNotLoaded() error { return notLoadedError{} }

// IsNotLoaded reports whether err means the session has no model.
func IsNotLoaded(err error) bool {
	var e notLoadedError
	return errors.As(err, &e)
}

// alreadyLoadedError signals a second Load on a live session. Callers that
// want replacement must Close first.
type alreadyLoadedError struct{ path string }

func (e alreadyLoadedError) Error() string { return "model already loaded: " + e.path }

// ErrAlreadyLoaded constructs an alreadyLoadedError.
func ErrAlreadyLoaded(path string) error { return alreadyLoadedError{path: path} }

// IsAlreadyLoaded reports whether err came from loading over a live session.
func IsAlreadyLoaded(err error) bool {
	var e alreadyLoadedError
	return errors.As(err, &e)
}

// invalidParamsError reports a load parameter that fails validation.
type invalidParamsError struct{ msg string }

func (e invalidParamsError) Error() string { return "invalid load params: " + e.msg }

// ErrInvalidParams constructs an invalidParamsError.
func ErrInvalidParams(msg string) error { return invalidParamsError{msg: msg} }

// IsInvalidParams reports whether err is a load parameter validation failure.
func IsInvalidParams(err error) bool {
	var e invalidParamsError
	return errors.As(err, &e)
}
