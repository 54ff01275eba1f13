package coc

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies a failed read
type FetchErrorKind string

const (
	KindTimeout            FetchErrorKind = "timeout"
	KindNotFound           FetchErrorKind = "not_found"
	KindServiceUnavailable FetchErrorKind = "service_unavailable"
	KindUnknown            FetchErrorKind = "unknown"
)

// Sentinels matched through errors.Is against a *FetchError
var (
	ErrTimeout            = errors.New("clan api timeout")
	ErrNotFound           = errors.New("clan api resource not found")
	ErrServiceUnavailable = errors.New("clan api unavailable")
	ErrUnknown            = errors.New("clan api error")
)

// Config validation errors
var (
	ErrNilConfig  = errors.New("config cannot be nil")
	ErrEmptyToken = errors.New("api token cannot be empty")
	ErrEmptyTag   = errors.New("tag cannot be empty")
)

// FetchError is returned for every failed API read
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("clan api %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("clan api %s (status %d)", e.Kind, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets callers match on the kind sentinels
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrServiceUnavailable:
		return e.Kind == KindServiceUnavailable
	case ErrUnknown:
		return e.Kind == KindUnknown
	}
	return false
}

// KindOf returns the kind of a fetch error, KindUnknown for anything else
func KindOf(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
