// Package errors defines the error kinds the rotation daemon distinguishes.
// Every failure is tagged with a Kind so callers can mechanically decide
// between aborting and logging-and-continuing, without string matching.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a rotation failure.
type Kind int

const (
	// KindUnknown is the zero value for errors raised outside this package.
	KindUnknown Kind = iota

	// KindNotFound indicates a configured credential directory does not exist.
	KindNotFound

	// KindEmptyCredentialSet indicates a directory yielded zero usable files.
	KindEmptyCredentialSet

	// KindMalformedCredential indicates a credential file failed to parse.
	KindMalformedCredential

	// KindRecoveryLookupFailed indicates the live-state query for a remote
	// failed or returned unusable text. Recovered locally.
	KindRecoveryLookupFailed

	// KindSwapCommandFailed indicates a per-remote swap exited nonzero.
	// Recovered locally, retried next pass.
	KindSwapCommandFailed

	// KindResultParseFailed indicates the swap success payload did not have
	// the expected shape. Fatal: the external tool's contract changed.
	KindResultParseFailed

	// KindNotificationDispatchFailed indicates the alerting command failed.
	// Logged only, never escalated.
	KindNotificationDispatchFailed
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindEmptyCredentialSet:
		return "EmptyCredentialSet"
	case KindMalformedCredential:
		return "MalformedCredential"
	case KindRecoveryLookupFailed:
		return "RecoveryLookupFailed"
	case KindSwapCommandFailed:
		return "SwapCommandFailed"
	case KindResultParseFailed:
		return "ResultParseFailed"
	case KindNotificationDispatchFailed:
		return "NotificationDispatchFailed"
	default:
		return "Unknown"
	}
}

// Error is a kinded rotation error with optional remediation context.
type Error struct {
	Kind       Kind
	Message    string
	Suggestion string
	Err        error
}

func (e *Error) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Err != nil && e.Message != "" {
		parts = append(parts, ": "+e.Err.Error())
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kinded error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a kinded error around an underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithSuggestion returns a copy of the error carrying a remediation hint.
func (e *Error) WithSuggestion(suggestion string) *Error {
	clone := *e
	clone.Suggestion = suggestion
	return &clone
}

// KindOf extracts the Kind from an error chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsFatalStartup reports whether the error must abort startup. These are the
// conditions under which rotation cannot safely begin for any group.
func IsFatalStartup(err error) bool {
	switch KindOf(err) {
	case KindNotFound, KindEmptyCredentialSet, KindMalformedCredential:
		return true
	default:
		return false
	}
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}
