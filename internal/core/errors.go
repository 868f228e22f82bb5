// Package core defines the fundamental types and errors for the Basera thinking core.
package core

import (
	"errors"
	"fmt"
)

// Core errors that can occur across the system
var (
	// Layer errors
	ErrUnknownLayer     = errors.New("unknown layer type")
	ErrLayerUnavailable = errors.New("layer is not available")

	// Storage errors
	ErrStoreClosed     = errors.New("knowledge store is closed")
	ErrRecordNotFound  = errors.New("record not found")
	ErrMigrationFailed = errors.New("migration failed")

	// Orchestrator errors
	ErrCoreShutdown = errors.New("core has been shut down")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)

// ProcessorErrorKind classifies failures at the layer-processor boundary.
type ProcessorErrorKind string

const (
	ProcessorTransient ProcessorErrorKind = "transient"
	ProcessorInvalid   ProcessorErrorKind = "invalid"
	ProcessorInternal  ProcessorErrorKind = "internal"
)

// ProcessorError is returned by layer processors instead of crashing the
// caller. It is always caught at the layer boundary and folded into the
// round's LayerResult.
type ProcessorError struct {
	Kind ProcessorErrorKind
	Err  error
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("processor %s error: %v", e.Kind, e.Err)
}

func (e *ProcessorError) Unwrap() error { return e.Err }

// Transientf builds a retryable processor error.
func Transientf(format string, args ...any) *ProcessorError {
	return &ProcessorError{Kind: ProcessorTransient, Err: fmt.Errorf(format, args...)}
}

// Invalidf builds a processor error for unusable input.
func Invalidf(format string, args ...any) *ProcessorError {
	return &ProcessorError{Kind: ProcessorInvalid, Err: fmt.Errorf(format, args...)}
}

// Internalf builds a processor error for bugs and unexpected failures.
func Internalf(format string, args ...any) *ProcessorError {
	return &ProcessorError{Kind: ProcessorInternal, Err: fmt.Errorf(format, args...)}
}

// ProcessorKind extracts the classification from an error chain. Errors that
// carry no classification are treated as internal.
func ProcessorKind(err error) ProcessorErrorKind {
	var pe *ProcessorError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ProcessorInternal
}

// StoreErrorKind classifies failures at the knowledge-store boundary.
type StoreErrorKind string

const (
	StoreNotFound    StoreErrorKind = "not_found"
	StoreWriteFailed StoreErrorKind = "write_failed"
	StoreCorrupt     StoreErrorKind = "corrupt"
)

// StoreError wraps a knowledge-store failure with its classification.
// Write failures mark the affected layer's round contribution as errored but
// never abort sibling layers.
type StoreError struct {
	Kind StoreErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s error: %v", e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// WriteFailedf builds a store write failure.
func WriteFailedf(format string, args ...any) *StoreError {
	return &StoreError{Kind: StoreWriteFailed, Err: fmt.Errorf(format, args...)}
}

// Corruptf builds a store corruption error.
func Corruptf(format string, args ...any) *StoreError {
	return &StoreError{Kind: StoreCorrupt, Err: fmt.Errorf(format, args...)}
}

// NotFoundf builds a store lookup miss.
func NotFoundf(format string, args ...any) *StoreError {
	return &StoreError{Kind: StoreNotFound, Err: fmt.Errorf(format, args...)}
}
