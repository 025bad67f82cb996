package command

import (
	"fmt"
	"time"
)

// Error is a command-level failure meant for the caller's eyes: bad input,
// a denied gate, a busy channel. The pipeline renders it as a failure-styled
// reply instead of logging it as an internal error.
type Error struct {
	Message string

	// Footer, when set, is appended as the embed footer of the reply.
	Footer string

	// DeleteAfter, when positive, makes the bot delete its own error
	// message after the delay. Deletion failures are ignored.
	DeleteAfter time.Duration
}

func (e *Error) Error() string { return e.Message }

// Errorf builds a command-level error.
func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// WithFooter sets the reply footer.
func (e *Error) WithFooter(footer string) *Error {
	e.Footer = footer
	return e
}

// SelfDeleting makes the reply delete itself after d.
func (e *Error) SelfDeleting(d time.Duration) *Error {
	e.DeleteAfter = d
	return e
}
