package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-naclypt/naclypt/internal/constants"
	naclerrors "github.com/go-naclypt/naclypt/internal/errors"
	"github.com/go-naclypt/naclypt/pkg/crand"
	"github.com/go-naclypt/naclypt/pkg/kdf"
	"github.com/go-naclypt/naclypt/pkg/obslog"
	"github.com/go-naclypt/naclypt/pkg/obsmetrics"
	"github.com/go-naclypt/naclypt/pkg/securemem"
	"github.com/go-naclypt/naclypt/pkg/streamcrypt"
	"github.com/go-naclypt/naclypt/pkg/wireformat"
)

// runCipher implements the encrypt/decrypt CLI contract and returns the
// process exit code.
func runCipher(args []string) int {
	if err := securemem.LockAll(); err != nil {
		fmt.Fprintln(os.Stderr, "naclypt:", err)
		return naclerrors.ExitCode(err)
	}

	decrypting := len(args) == 2 && args[1] == "-d"
	if !decrypting && len(args) != 4 {
		fmt.Fprintf(os.Stderr, "Usage: naclypt infile %s\n       naclypt infile -d\n", paramUsage())
		return constants.ExitUsage
	}

	input, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "naclypt: couldn't open input file:", err)
		return constants.ExitIOOrFormat
	}
	defer input.Close()

	st, err := input.Stat()
	if err != nil {
		fmt.Fprintln(os.Stderr, "naclypt: couldn't stat input file:", err)
		return constants.ExitEnvironment
	}
	if !st.Mode().IsRegular() {
		fmt.Fprintln(os.Stderr, "naclypt:", naclerrors.ErrNotRegularFile)
		return constants.ExitEnvironment
	}

	out := bufio.NewWriterSize(os.Stdout, constants.BufLen)

	var (
		params kdf.Params
		salt   [constants.KeyBytes]byte
		rnd    *crand.Source
	)

	if !decrypting {
		p1, p2, p3, perr := parseParams(args[1], args[2], args[3])
		if perr != nil {
			fmt.Fprintln(os.Stderr, "naclypt:", perr)
			return constants.ExitUsage
		}
		params = kdf.Params{P1: p1, P2: p2, P3: p3}
		if verr := kdf.Validate(params); verr != nil {
			fmt.Fprintln(os.Stderr, "naclypt:", verr)
			return constants.ExitUsage
		}

		rnd, err = crand.Open()
		if err != nil {
			fmt.Fprintln(os.Stderr, "naclypt:", err)
			return naclerrors.ExitCode(err)
		}
		defer rnd.Close()

		if err := rnd.Fill(salt[:]); err != nil {
			fmt.Fprintln(os.Stderr, "naclypt:", err)
			return naclerrors.ExitCode(err)
		}

		if err := wireformat.WriteHeader(out, wireformat.Header{Params: params, Salt: salt}); err != nil {
			fmt.Fprintln(os.Stderr, "naclypt:", err)
			return naclerrors.ExitCode(err)
		}
	} else {
		h, rerr := wireformat.ReadHeader(input)
		if rerr != nil {
			fmt.Fprintln(os.Stderr, "naclypt:", rerr)
			return naclerrors.ExitCode(rerr)
		}
		params, salt = h.Params, h.Salt
	}

	passphrase := readPassphrase()
	derivationStart := time.Now()
	_, endSpan := obsmetrics.GlobalTracer().StartSpan(context.Background(), "kdf.derive")
	key, err := kdf.Derive(passphrase, salt[:], params)
	endSpan(err)
	obsmetrics.Global().RecordKDFCall(time.Since(derivationStart), err)
	if err != nil {
		fmt.Fprintln(os.Stderr, "naclypt:", err)
		return constants.ExitKDF
	}
	defer securemem.Zero(key[:])

	if decrypting {
		err = streamcrypt.Decrypt(out, input, &key)
	} else {
		err = streamcrypt.Encrypt(out, input, &key, rnd)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "naclypt:", err)
		return naclerrors.ExitCode(err)
	}

	if err := out.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, "naclypt: couldn't write to stdout:", err)
		return constants.ExitIOOrFormat
	}
	return constants.ExitSuccess
}

// parseParams parses the three positional KDF parameters, returning a
// usage error (never a range error — that's Validate's job) on anything
// that isn't a well-formed unsigned decimal integer of the right width.
func parseParams(a, b, c string) (p1 uint8, p2, p3 uint32, err error) {
	v1, err := strconv.ParseUint(a, 10, 8)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid parameter %q: %w", a, err)
	}
	v2, err := strconv.ParseUint(b, 10, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid parameter %q: %w", b, err)
	}
	v3, err := strconv.ParseUint(c, 10, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid parameter %q: %w", c, err)
	}
	return uint8(v1), uint32(v2), uint32(v3), nil
}

// readPassphrase reads up to MaxPassphraseLen octets from standard
// input, warning (not erroring) if the limit was reached.
func readPassphrase() []byte {
	buf := make([]byte, constants.MaxPassphraseLen)
	n := streamcrypt.ReadFull(os.Stdin, buf)
	if n == constants.MaxPassphraseLen {
		obslog.Global().Warn("passphrase truncated", obslog.Fields{"limit": constants.MaxPassphraseLen})
	}
	return buf[:n]
}
