package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated is matched by every UnauthenticatedError.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnknownRole is returned when routing an identity whose role is not one of Roles.
	ErrUnknownRole = errors.New("unknown role")
	// ErrMalformedAuthResponse means a 2xx auth payload lacked the token or the user.
	ErrMalformedAuthResponse = errors.New("auth response missing access_token or user")
)

// ValidationError reports missing or malformed caller input. It is produced
// before any request is issued.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// UnauthenticatedError is returned when the service rejected the token. The
// session has already been cleared by the time a caller sees it.
type UnauthenticatedError struct {
	Method  string
	Path    string
	Message string
}

func (e *UnauthenticatedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: unauthenticated: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: unauthenticated", e.Method, e.Path)
}

func (e *UnauthenticatedError) Is(target error) bool {
	return target == ErrUnauthenticated
}

// APIError is any non-success, non-401 answer from the service.
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// NetworkError wraps a transport-level failure: DNS, refused connection,
// timeout or a cancelled context.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
