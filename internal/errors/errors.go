// Package errors provides centralized error definitions and error handling
// utilities for the watchdog. It defines domain-specific errors for the
// console, process inventory, and notification subsystems, error constructors
// with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - SnapshotError: errors while reading a target process's console
//   - InventoryError: errors while enumerating candidate processes
//   - DispatchError: errors while delivering a desktop notification
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid input or configuration
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewSnapshotError("attach refused", errors.ErrAttachDenied).WithPID(4120)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrAttachDenied) { ... }
//
//	var snapErr *errors.SnapshotError
//	if errors.As(err, &snapErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require terminating the watchdog loop.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Console-related sentinel errors
var (
	// ErrConsoleUnavailable indicates the console subsystem cannot be used at
	// all on this platform or host. This is fatal to the watchdog loop.
	ErrConsoleUnavailable = New("console subsystem unavailable")
	// ErrAttachDenied indicates the target process refused console attachment,
	// typically due to permissions or the target having no console.
	ErrAttachDenied = New("console attach denied")
	// ErrProcessGone indicates the target process vanished mid-read.
	ErrProcessGone = New("target process gone")
	// ErrNoConsoleWindow indicates the target has a console but no window handle.
	ErrNoConsoleWindow = New("no console window")
)

// Inventory-related sentinel errors
var (
	// ErrInventoryUnavailable indicates no process inventory exists on this
	// platform. It is fatal to the watchdog loop; transient enumeration
	// failures are reported as retryable InventoryErrors instead.
	ErrInventoryUnavailable = New("process inventory unavailable")
)

// Notification-related sentinel errors
var (
	// ErrDispatchFailed indicates the desktop notification could not be shown.
	// Dispatch failures are non-fatal and never retried for the same transition.
	ErrDispatchFailed = New("notification dispatch failed")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// WatchdogError is the base interface for all watchdog errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type WatchdogError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on a later polling cycle.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// SnapshotError represents a failure to read a target process's console.
// Snapshot failures are recovered locally: the instance's state is frozen
// for the cycle and the read is naturally retried next cycle.
//
// Example:
//
//	err := errors.NewSnapshotError("attach refused", errors.ErrAttachDenied).WithPID(4120)
type SnapshotError struct {
	baseError
	PID int
}

// NewSnapshotError creates a new SnapshotError.
func NewSnapshotError(message string, cause error) *SnapshotError {
	return &SnapshotError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityDebug,
			retryable:  true,
			userFacing: false,
		},
	}
}

// WithPID adds the target process ID to the error context.
func (e *SnapshotError) WithPID(pid int) *SnapshotError {
	e.PID = pid
	return e
}

// WithSeverity sets the error severity.
func (e *SnapshotError) WithSeverity(s Severity) *SnapshotError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *SnapshotError) Error() string {
	prefix := "snapshot error"
	if e.PID != 0 {
		prefix = fmt.Sprintf("snapshot error [pid=%d]", e.PID)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SnapshotError) Is(target error) bool {
	if _, ok := target.(*SnapshotError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// InventoryError represents a failure to enumerate candidate processes.
// An inventory failure on the first cycle is fatal; later failures skip
// the cycle and are retried.
type InventoryError struct {
	baseError
}

// NewInventoryError creates a new InventoryError.
func NewInventoryError(message string, cause error) *InventoryError {
	return &InventoryError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
	}
}

// WithSeverity sets the error severity.
func (e *InventoryError) WithSeverity(s Severity) *InventoryError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *InventoryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("inventory error: %s: %v", e.message, e.cause)
	}
	return fmt.Sprintf("inventory error: %s", e.message)
}

// Is checks if this error matches the target.
func (e *InventoryError) Is(target error) bool {
	if _, ok := target.(*InventoryError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// DispatchError represents a failure to deliver a desktop notification.
// Dispatch failures never block the registry: the notified state still
// advances so the same transition is not re-attempted every cycle.
type DispatchError struct {
	baseError
	Handle uintptr
}

// NewDispatchError creates a new DispatchError.
func NewDispatchError(message string, cause error) *DispatchError {
	return &DispatchError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: false,
		},
	}
}

// WithHandle adds the console window handle to the error context.
func (e *DispatchError) WithHandle(h uintptr) *DispatchError {
	e.Handle = h
	return e
}

// Error returns the formatted error message.
func (e *DispatchError) Error() string {
	prefix := "dispatch error"
	if e.Handle != 0 {
		prefix = fmt.Sprintf("dispatch error [handle=%#x]", e.Handle)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *DispatchError) Is(target error) bool {
	if _, ok := target.(*DispatchError); ok {
		return true
	}
	if errors.Is(target, ErrDispatchFailed) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or configuration.
//
// Example:
//
//	err := errors.NewValidationError("poll interval must be positive")
//	err = err.WithField("watch.poll_interval_seconds").WithValue(-1)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on a later polling cycle. Transient snapshot failures
// (attach denied, process vanished) are retryable; dispatch failures and
// validation errors are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var werr WatchdogError
	if As(err, &werr) {
		return werr.IsRetryable()
	}

	// Bare attach/vanish sentinels are retryable next cycle.
	if Is(err, ErrAttachDenied) || Is(err, ErrProcessGone) {
		return true
	}

	return false
}

// IsFatal returns true if the error means the watchdog loop cannot make
// progress and should terminate rather than spin.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, ErrConsoleUnavailable) || Is(err, ErrInventoryUnavailable) {
		return true
	}
	var werr WatchdogError
	if As(err, &werr) {
		return werr.Severity() == SeverityCritical
	}
	return false
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var werr WatchdogError
	if As(err, &werr) {
		return werr.IsUserFacing()
	}

	var validation *ValidationError
	return As(err, &validation)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement WatchdogError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var werr WatchdogError
	if As(err, &werr) {
		return werr.Severity()
	}

	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to read console buffer")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to snapshot pid %d", pid)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
