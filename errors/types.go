package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Environment errors
	ErrCodeTmuxNotFound   ErrorCode = "TMUX_NOT_FOUND"
	ErrCodeNotInsideTmux  ErrorCode = "NOT_INSIDE_TMUX"
	ErrCodeCommandFailed  ErrorCode = "COMMAND_FAILED"
	ErrCodeCommandMissing ErrorCode = "COMMAND_NOT_FOUND"

	// Malformed input
	ErrCodeScriptNotFound     ErrorCode = "SCRIPT_NOT_FOUND"
	ErrCodeScriptMalformed    ErrorCode = "SCRIPT_MALFORMED"
	ErrCodeInvalidSessionName ErrorCode = "INVALID_SESSION_NAME"
	ErrCodeNoSavedSessions    ErrorCode = "NO_SAVED_SESSIONS"

	// Conflict resolution
	ErrCodeSelfKill  ErrorCode = "SELF_KILL"
	ErrCodeCancelled ErrorCode = "CANCELLED"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// SessionError represents a structured error with context
type SessionError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *SessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SessionError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *SessionError) WithDetail(key string, value interface{}) *SessionError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns a detail as a string, or "" when it is absent.
func (e *SessionError) Detail(key string) string {
	v, ok := e.Details[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// ToJSON converts the error to JSON
func (e *SessionError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new SessionError
func New(code ErrorCode, message string) *SessionError {
	return &SessionError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SessionError
func Wrap(err error, code ErrorCode, message string) *SessionError {
	return &SessionError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the outermost SessionError in the chain, if any.
func As(err error) (*SessionError, bool) {
	for err != nil {
		if sessErr, ok := err.(*SessionError); ok {
			return sessErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Is checks if an error is a specific SessionError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	sessErr, ok := err.(*SessionError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	if sessErr.Code == code {
		return true
	}
	return Is(sessErr.Cause, code)
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	sessErr, ok := As(err)
	if !ok {
		return ""
	}
	return sessErr.Code
}
