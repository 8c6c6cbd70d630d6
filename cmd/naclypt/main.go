// Command naclypt is a streaming, authenticated file-encryption tool. It
// reads a passphrase from standard input and a regular file given on the
// command line, and writes a self-describing ciphertext stream to
// standard output that the same binary can later decrypt with the same
// passphrase.
package main

import (
	"fmt"
	"os"

	"github.com/go-naclypt/naclypt/internal/constants"
	"github.com/go-naclypt/naclypt/pkg/kdf"
	"github.com/go-naclypt/naclypt/pkg/obsmetrics"
	pkgversion "github.com/go-naclypt/naclypt/pkg/version"
)

// Build-time variables (set via -ldflags).
var (
	version   = ""        // -ldflags "-X main.version=x.y.z"
	buildTime = "unknown" // -ldflags "-X main.buildTime=..."
	gitCommit = "unknown" // -ldflags "-X main.gitCommit=..."
)

func main() {
	obsmetrics.SetGlobalTracer(obsmetrics.NewOTelTracer("naclypt"))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(constants.ExitUsage)
	}

	switch os.Args[1] {
	case "selftest":
		os.Exit(selftestCommand())
	case "bench":
		benchCommand(os.Args[2:])
	case "version":
		printVersion()
	case "help", "--help", "-h":
		printUsage()
	default:
		os.Exit(runCipher(os.Args[1:]))
	}
}

func paramUsage() string {
	if kdf.Name == "scrypt" {
		return "<logN> <r> <p>"
	}
	return "<logM> <t> <parallelism>"
}

func printUsage() {
	fmt.Printf(`naclypt - streaming authenticated file encryption (%s build)

USAGE:
    naclypt <infile> %s
        Encrypts infile to standard output, with a passphrase read from
        standard input.

    naclypt <infile> -d
        Decrypts infile to standard output, with a passphrase read from
        standard input. Parameters are recovered from the header.

    naclypt selftest
        Runs the power-on self-test for the primitives compiled into
        this build and exits nonzero on failure.

    naclypt bench
        Benchmarks streaming throughput with synthetic data.

    naclypt version
        Prints version information.

Does authenticated encryption: confidentiality, integrity, and
authenticity. The passphrase is stretched using %s. The decryptor's
output will be all zeroes if the wrong passphrase is given.
`, kdf.Name, paramUsage(), kdf.Name)
}

func printVersion() {
	v := version
	if v == "" {
		v = pkgversion.String()
	}
	fmt.Printf("naclypt %s (%s)\n", v, kdf.Name)
	if buildTime != "unknown" {
		fmt.Printf("Built: %s\n", buildTime)
	}
	if gitCommit != "unknown" {
		fmt.Printf("Commit: %s\n", gitCommit)
	}
}
