// Package apperrors defines application-level error types.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHostNotAttached is matched by every HostNotAttachedError via errors.Is.
var ErrHostNotAttached = errors.New("host not attached")

// InvalidArgumentError indicates a request or event was malformed.
type InvalidArgumentError struct {
	Cause    error
	Argument string
	Message  string
}

func (e *InvalidArgumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid argument %s: %s: %v", e.Argument, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Message)
}

func (e *InvalidArgumentError) Unwrap() error {
	return e.Cause
}

// NewInvalidArgumentError creates a new invalid argument error.
func NewInvalidArgumentError(argument, message string, cause error) *InvalidArgumentError {
	return &InvalidArgumentError{
		Argument: argument,
		Message:  message,
		Cause:    cause,
	}
}

// ProtocolViolationError indicates a prompt result arrived for a key nobody waits on.
type ProtocolViolationError struct {
	Key   string
	Index int
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("protocol violation: result for %q at index %d has no pending request", e.Key, e.Index)
}

// NewProtocolViolationError creates a new protocol violation error.
func NewProtocolViolationError(key string, index int) *ProtocolViolationError {
	return &ProtocolViolationError{
		Key:   key,
		Index: index,
	}
}

// HostNotAttachedError indicates an oracle or prompt call had no host to talk to.
type HostNotAttachedError struct {
	Cause     error
	Operation string
	Keys      []string
}

func (e *HostNotAttachedError) Error() string {
	msg := fmt.Sprintf("host not attached: %s", e.Operation)
	if len(e.Keys) > 0 {
		msg += " [" + strings.Join(e.Keys, ", ") + "]"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *HostNotAttachedError) Unwrap() error {
	return e.Cause
}

// Is makes every HostNotAttachedError match ErrHostNotAttached.
func (e *HostNotAttachedError) Is(target error) bool {
	return target == ErrHostNotAttached
}

// NewHostNotAttachedError creates a new host-not-attached error.
func NewHostNotAttachedError(operation string, keys []string, cause error) *HostNotAttachedError {
	return &HostNotAttachedError{
		Operation: operation,
		Keys:      keys,
		Cause:     cause,
	}
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}
