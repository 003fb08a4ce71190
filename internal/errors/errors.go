package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned when a requested resource doesn't exist
var ErrNotFound = errors.New("resource not found")

// ErrInvalidInput is returned when the provided input is invalid
var ErrInvalidInput = errors.New("invalid input")

// ErrCommandFailed is returned when the control command exits non-zero or times out
var ErrCommandFailed = errors.New("command failed")

// ErrTimeout is returned when the control command was killed at its deadline.
// Errors carrying it also match ErrCommandFailed.
var ErrTimeout = errors.New("command timed out")

// ErrInternal is returned for unexpected internal errors
var ErrInternal = errors.New("internal error")

// LogErrorAndReturn logs an error with structured context and returns it
func LogErrorAndReturn(logger *slog.Logger, err error, message string, args ...any) error {
	// Don't modify nil errors
	if err == nil {
		return nil
	}

	logger.Error(message, append([]any{"error", err}, args...)...)
	return err
}

// WrapErrorf wraps an error with additional context using fmt.Errorf
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// IsNotFound returns true if the error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput returns true if the error is or wraps ErrInvalidInput
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCommandFailed returns true if the error is or wraps ErrCommandFailed
func IsCommandFailed(err error) bool {
	return errors.Is(err, ErrCommandFailed)
}

// IsTimeout returns true if the error is or wraps ErrTimeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// NotFoundf returns a formatted ErrNotFound error
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidInputf returns a formatted ErrInvalidInput error
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// CommandFailedf returns a formatted ErrCommandFailed error
func CommandFailedf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrCommandFailed)...)
}

// Internalf returns a formatted ErrInternal error
func Internalf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInternal)...)
}

// Timeoutf returns a formatted error wrapping both ErrTimeout and ErrCommandFailed
func Timeoutf(format string, args ...any) error {
	return fmt.Errorf(format+": %w (%w)", append(args, ErrTimeout, ErrCommandFailed)...)
}
