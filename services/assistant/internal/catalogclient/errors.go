package catalogclient

import (
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"

	"github.com/luxelife/boutique/pkg/httpclient"
)

// Kind classifies why a catalog call failed.
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindUnreachable Kind = "unreachable"
	KindCircuitOpen Kind = "circuit_open"
	KindRejected    Kind = "rejected"
	KindUpstream    Kind = "upstream"
	KindMalformed   Kind = "malformed"
)

// Error is returned for every failed catalog call.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or KindUnreachable when err did not come
// from this package.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnreachable
}

// classifyTransport maps an error from the HTTP doer to a Kind.
func classifyTransport(op string, err error) *Error {
	var statusErr *httpclient.StatusError
	switch {
	case errors.Is(err, httpclient.ErrCircuitOpen), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &Error{Kind: KindCircuitOpen, Op: op, Err: err}
	case errors.As(err, &statusErr):
		return &Error{Kind: KindUpstream, Op: op, Err: err}
	case httpclient.IsTimeout(err):
		return &Error{Kind: KindTimeout, Op: op, Err: err}
	default:
		return &Error{Kind: KindUnreachable, Op: op, Err: err}
	}
}
