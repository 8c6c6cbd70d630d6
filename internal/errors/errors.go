// Package errors defines the error kinds of the naclypt streaming
// authenticated-encryption pipeline, and the exit code each maps to.
//
// Authentication failure is deliberately absent from this list: per the
// design, a wrong passphrase or tampered ciphertext is signaled by a
// zero-filled plaintext output, not by an error. Of the problems a
// ciphertext itself can have, only structural ones (bad magic, truncated
// header, truncated chunk, non-zero-where-zero) are reported as errors
// here.
package errors

import (
	"errors"
	"fmt"

	"github.com/go-naclypt/naclypt/internal/constants"
)

// Sentinel errors for the header codec.
var (
	// ErrBadMagic indicates the obfuscated primitive tag did not match.
	ErrBadMagic = errors.New("bad magic (maybe bad build)")

	// ErrTruncatedHeader indicates the stream ended before a full header
	// (tag, KDF params, salt) could be read.
	ErrTruncatedHeader = errors.New("truncated header")

	// ErrParamOutOfRange indicates a KDF parameter violates its documented
	// range or invariant.
	ErrParamOutOfRange = errors.New("KDF parameter out of range")
)

// Sentinel errors for the streaming codec.
var (
	// ErrTruncatedChunk indicates a decrypt-side read produced fewer
	// octets than the minimum a valid chunk requires.
	ErrTruncatedChunk = errors.New("truncated final chunk")

	// ErrNonZeroPadding indicates a decrypt-side chunk that was expected
	// to carry an all-zero ciphertext prefix (because it continues the
	// current nonce epoch) carried a non-zero octet instead.
	ErrNonZeroPadding = errors.New("non-zero octet where zero was expected")
)

// Sentinel errors for the random source.
var (
	// ErrRandomDeviceInvalid indicates the opened random source failed
	// its identity check (wrong device type or major/minor numbers).
	ErrRandomDeviceInvalid = errors.New("random device failed validation")

	// ErrRandomShortRead indicates the random source could not supply the
	// requested number of octets.
	ErrRandomShortRead = errors.New("random source failed to provide")
)

// Sentinel errors for the environment.
var (
	ErrNotRegularFile = errors.New("input is not a regular file")
	ErrMemoryLock     = errors.New("failed to lock process memory")
	ErrAllocation     = errors.New("failed to allocate buffers")
)

// ErrKDFFailed wraps an underlying KDF library error.
var ErrKDFFailed = errors.New("key derivation failed")

// StageError associates an error with the pipeline stage that produced it
// and the exit code the CLI should use for it.
type StageError struct {
	Stage string
	Err   error
	code  int
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Code returns the process exit code associated with this error.
func (e *StageError) Code() int { return e.code }

// Wrap builds a StageError for the given stage name, underlying error, and
// exit code. Passing a nil err returns nil, so call sites can write
// `if err := errors.Wrap(...); err != nil { return err }` uniformly.
func Wrap(stage string, err error, code int) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err, code: code}
}

// Usage wraps a usage error (exit 2): bad argv, out-of-range parameter at
// encrypt time.
func Usage(stage string, err error) error {
	return Wrap(stage, err, constants.ExitUsage)
}

// Environment wraps an environment error (exit 3): missing/invalid random
// device, stat failure, non-regular input. Allocation and mlock failures
// have their own wrappers and exit codes (Allocation, MemoryLock).
func Environment(stage string, err error) error {
	return Wrap(stage, err, constants.ExitEnvironment)
}

// Format wraps a format error (exit 1): bad magic, truncated header.
func Format(stage string, err error) error {
	return Wrap(stage, err, constants.ExitIOOrFormat)
}

// Structural wraps a structural ciphertext error found during decrypt
// (exit 11): short final chunk, non-zero-where-zero.
func Structural(stage string, err error) error {
	return Wrap(stage, err, constants.ExitCiphertextInvalid)
}

// IO wraps a generic I/O error (exit 1): short write, failure reading or
// writing the stream.
func IO(stage string, err error) error {
	return Wrap(stage, err, constants.ExitIOOrFormat)
}

// Allocation wraps a buffer-allocation error (exit 4).
func Allocation(stage string, err error) error {
	return Wrap(stage, err, constants.ExitAllocation)
}

// MemoryLock wraps an mlock failure (exit 5).
func MemoryLock(stage string, err error) error {
	return Wrap(stage, err, constants.ExitMemoryLock)
}

// KDF wraps a KDF failure (exit 6).
func KDF(stage string, err error) error {
	return Wrap(stage, err, constants.ExitKDF)
}

// ExitCode extracts the process exit code carried by err, defaulting to 1
// (generic I/O/format failure) if err does not carry one.
func ExitCode(err error) int {
	var se *StageError
	if As(err, &se) {
		return se.Code()
	}
	return constants.ExitIOOrFormat
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
