package constants

import "testing"

func TestSecretboxSizes(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"ZeroBytes", ZeroBytes, 32},
		{"BoxZeroBytes", BoxZeroBytes, 16},
		{"NonceBytes", NonceBytes, 24},
		{"KeyBytes", KeyBytes, 32},
		{"NonceRandoms", NonceRandoms, BoxZeroBytes},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestBufLenIsPositiveAndExceedsZeroBytes(t *testing.T) {
	if BufLen <= ZeroBytes {
		t.Errorf("BufLen (%d) must exceed ZeroBytes (%d)", BufLen, ZeroBytes)
	}
}

func TestScryptParameterRanges(t *testing.T) {
	if ScryptLogNMin >= ScryptLogNMax {
		t.Errorf("ScryptLogNMin (%d) must be < ScryptLogNMax (%d)", ScryptLogNMin, ScryptLogNMax)
	}
	if ScryptRMin < 1 || ScryptPMin < 1 {
		t.Error("ScryptRMin and ScryptPMin must be at least 1")
	}
	if ScryptRPMax != 1<<30 {
		t.Errorf("ScryptRPMax = %d, want %d", ScryptRPMax, 1<<30)
	}
}

func TestArgon2ParameterRanges(t *testing.T) {
	if Argon2LogMMin >= Argon2LogMMax {
		t.Errorf("Argon2LogMMin (%d) must be < Argon2LogMMax (%d)", Argon2LogMMin, Argon2LogMMax)
	}
	if Argon2TMin < 1 || Argon2PMin < 1 {
		t.Error("Argon2TMin and Argon2PMin must be at least 1")
	}
	if Argon2PMax != 1<<24 {
		t.Errorf("Argon2PMax = %d, want %d", Argon2PMax, 1<<24)
	}
	if Argon2MinKiBPerLane != 8 {
		t.Errorf("Argon2MinKiBPerLane = %d, want 8", Argon2MinKiBPerLane)
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	codes := []int{
		ExitSuccess, ExitIOOrFormat, ExitUsage, ExitEnvironment,
		ExitAllocation, ExitMemoryLock, ExitKDF, ExitCiphertextInvalid,
	}
	seen := make(map[int]bool, len(codes))
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate exit code: %d", c)
		}
		seen[c] = true
	}
}

func TestMaxPassphraseLenIsPositive(t *testing.T) {
	if MaxPassphraseLen <= 0 {
		t.Error("MaxPassphraseLen must be positive")
	}
}
