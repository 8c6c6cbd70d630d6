package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-naclypt/naclypt/internal/constants"
)

func TestWrapNilIsNil(t *testing.T) {
	if Wrap("stage", nil, constants.ExitUsage) != nil {
		t.Error("Wrap(stage, nil, code) should return nil")
	}
}

func TestStageErrorMessageAndUnwrap(t *testing.T) {
	base := ErrBadMagic
	wrapped := Wrap("header", base, constants.ExitIOOrFormat)

	msg := wrapped.Error()
	if !strings.Contains(msg, "header") {
		t.Errorf("Error string missing stage: %q", msg)
	}
	if !strings.Contains(msg, base.Error()) {
		t.Errorf("Error string missing wrapped error: %q", msg)
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match base sentinel with errors.Is")
	}
}

func TestExitCodeHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"Usage", Usage("cli", ErrNotRegularFile), constants.ExitUsage},
		{"Environment", Environment("env", ErrMemoryLock), constants.ExitEnvironment},
		{"Format", Format("header", ErrTruncatedHeader), constants.ExitIOOrFormat},
		{"Structural", Structural("chunk", ErrTruncatedChunk), constants.ExitCiphertextInvalid},
		{"IO", IO("write", ErrTruncatedHeader), constants.ExitIOOrFormat},
		{"Allocation", Allocation("buffers", ErrAllocation), constants.ExitAllocation},
		{"MemoryLock", MemoryLock("mlock", ErrMemoryLock), constants.ExitMemoryLock},
		{"KDF", KDF("derive", ErrKDFFailed), constants.ExitKDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.code {
				t.Errorf("ExitCode() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestExitCodeOfPlainErrorDefaultsToIOOrFormat(t *testing.T) {
	plain := errors.New("something went wrong")
	if got := ExitCode(plain); got != constants.ExitIOOrFormat {
		t.Errorf("ExitCode(plain error) = %d, want %d", got, constants.ExitIOOrFormat)
	}
}

func TestIsAndAs(t *testing.T) {
	wrapped := Format("header", ErrBadMagic)
	if !Is(wrapped, ErrBadMagic) {
		t.Error("Is() should find the wrapped sentinel")
	}

	var se *StageError
	if !As(wrapped, &se) {
		t.Error("As() should extract the *StageError")
	}
	if se.Stage != "header" {
		t.Errorf("Stage = %q, want %q", se.Stage, "header")
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrBadMagic, ErrTruncatedHeader, ErrParamOutOfRange,
		ErrTruncatedChunk, ErrNonZeroPadding,
		ErrRandomDeviceInvalid, ErrRandomShortRead,
		ErrNotRegularFile, ErrMemoryLock, ErrAllocation, ErrKDFFailed,
	}
	seen := make(map[string]bool, len(sentinels))
	for _, err := range sentinels {
		if err == nil {
			t.Fatal("found nil sentinel error")
		}
		msg := err.Error()
		if seen[msg] {
			t.Errorf("duplicate sentinel error message: %q", msg)
		}
		seen[msg] = true
	}
}
