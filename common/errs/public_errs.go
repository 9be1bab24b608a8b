package errs

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/withstack"
)

// PublicError carries a message that is safe to return to API callers.
// The HTTP error handler responds 400 with the message and code.
type PublicError struct {
	err     error
	message string
	code    string // optional, e.g. "InvalidTiers"
}

func (p PublicError) Error() string {
	return p.err.Error()
}

func (p PublicError) Message() string {
	return p.message
}

func (p PublicError) Code() string {
	return p.code
}

func (p PublicError) Unwrap() error {
	return p.err
}

func NewPublicError(message string) error {
	return withstack.WithStackDepth(&PublicError{err: errors.New(message), message: message}, 1)
}

func NewPublicErrorWithCode(message string, code string) error {
	return withstack.WithStackDepth(&PublicError{err: errors.New(message), message: message, code: code}, 1)
}

// WithPublicMessage exposes err's message, prefixed when prefix is set, to API callers.
func WithPublicMessage(err error, prefix string) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if prefix != "" {
		message = fmt.Sprintf("%s: %s", prefix, message)
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: message}, 1)
}
