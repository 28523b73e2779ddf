package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the session, gateway, capture and query layers.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRequestFailed      = errors.New("request failed")
	ErrNetwork            = errors.New("network error")
	ErrDeviceUnavailable  = errors.New("camera device unavailable")
	ErrQueryFailed        = errors.New("query failed")
)

// RequestError describes a non-success backend response.
type RequestError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *RequestError) Unwrap() error { return ErrRequestFailed }
