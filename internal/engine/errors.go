package engine

import (
	"errors"
	"strconv"
)

// backendUnavailableError signals that no native backend is linked into this
// binary, so callers can degrade to 503 instead of 500.
type backendUnavailableError struct{ msg string }

func (e backendUnavailableError) Error() string { return e.msg }

// ErrBackendUnavailable constructs a backendUnavailableError.
func ErrBackendUnavailable(msg string) error { return backendUnavailableError{msg: msg} }

// IsBackendUnavailable reports whether err indicates a missing native backend.
// It sees through fmt.Errorf %w wrapping.
func IsBackendUnavailable(err error) bool {
	var e backendUnavailableError
	return errors.As(err, &e)
}

// tokenizeError reports a failed tokenization. The backend returns the
// negated required token count when the output buffer is too small.
type tokenizeError struct{ count int32 }

func (e tokenizeError) Error() string {
	return "tokenize failed (status " + strconv.Itoa(int(e.count)) + ")"
}

// ErrTokenizeFailed constructs a tokenizeError from the backend status.
func ErrTokenizeFailed(count int32) error { return tokenizeError{count: count} }

// IsTokenizeFailed reports whether err came from a failed tokenization.
func IsTokenizeFailed(err error) bool {
	var e tokenizeError
	return errors.As(err, &e)
}

// decodeError reports a non-zero decode status from the backend.
type decodeError struct{ status int32 }

func (e decodeError) Error() string {
	return "decode failed (status " + strconv.Itoa(int(e.status)) + ")"
}

// ErrDecodeFailed constructs a decodeError from the backend status.
func ErrDecodeFailed(status int32) error { return decodeError{status: status} }

// IsDecodeFailed reports whether err is a decode failure.
func IsDecodeFailed(err error) bool {
	var e decodeError
	return errors.As(err, &e)
}
