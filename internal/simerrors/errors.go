// Package simerrors classifies the simulator's error kinds: configuration
// errors, data errors, internal invariant violations, and I/O errors, each
// carrying the exit code its caller should use.
package simerrors

import "fmt"

// ConfigError wraps a configuration problem: missing required flag,
// nonpositive numeric, unknown policy name. Exit code 1.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError wraps err as a ConfigError.
func NewConfigError(err error) *ConfigError { return &ConfigError{Err: err} }

// DataError wraps a missing or unparsable distribution file. Exit code 1.
type DataError struct {
	Path string
	Err  error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error at %s: %v", e.Path, e.Err)
}
func (e *DataError) Unwrap() error { return e.Err }

// NewDataError wraps err with the offending path.
func NewDataError(path string, err error) *DataError {
	return &DataError{Path: path, Err: err}
}

// IOError wraps a failure writing the batch's CSV output. The caller
// retries once before giving up; a second failure is fatal, exit 2.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("i/o error writing %s: %v", e.Path, e.Err)
}
func (e *IOError) Unwrap() error { return e.Err }

// NewIOError wraps err with the offending path.
func NewIOError(path string, err error) *IOError {
	return &IOError{Path: path, Err: err}
}

// Invariant is a fatal internal invariant violation: capacity overflow, an
// orphaned state entry, or an unreachable DAG vertex. (A single task whose
// requirement exceeds node capacity is a ConfigError, not an Invariant.)
// The batch worker that encounters
// one aborts its simulation and, in turn, the whole batch.
type Invariant struct {
	Component string
	Reason    string
}

func (e *Invariant) Error() string {
	return fmt.Sprintf("internal invariant violation in %s: %s", e.Component, e.Reason)
}

// NewInvariant builds an Invariant violation error.
func NewInvariant(component, reason string) *Invariant {
	return &Invariant{Component: component, Reason: reason}
}
