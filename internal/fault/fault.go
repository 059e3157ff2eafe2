// Package fault carries the failure taxonomy for the analysis pipeline.
// Every component-level failure is tagged with a Kind so the HTTP layer
// can map it to a status code and error envelope without string matching.
package fault

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"          // input transcript missing
	KindInvalidInput Kind = "invalid_format"     // transcript not parseable JSON
	KindUpstream     Kind = "upstream_error"     // model call failed: network, auth, rate limit
	KindMalformed    Kind = "malformed_response" // model output not valid JSON or missing fields
	KindIO           Kind = "io_error"           // export write failed
	KindNotAvailable Kind = "not_available"      // no prior analysis to fetch
	KindUnknown      Kind = "unknown"
)

// Error is a kind-tagged error. The message is safe to return to API clients.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Unwrap() error { return e.err }

// KindOf returns the Kind attached to err, or KindUnknown if err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.kind
	}
	return KindUnknown
}
