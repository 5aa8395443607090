// Command gt1z compresses, decompresses, and verifies GT1/GT1Z program
// images from the command line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lb3361/gt1z"
	"github.com/lb3361/gt1z/internal/gtconfig"
	"go.uber.org/zap"
)

// UsageError reports a command-line misuse; never returned by the
// gt1z package itself.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gt1z [-d] [-t] [-f] [-r] [-D] <input> [<output>]")
	fmt.Fprintln(os.Stderr, "  -d  decompress (input is .gt1z, output is .gt1)")
	fmt.Fprintln(os.Stderr, "  -t  verify (input is .gt1z, output is .gt1, neither is written)")
	fmt.Fprintln(os.Stderr, "  -f  overwrite the output file if it already exists")
	fmt.Fprintln(os.Stderr, "  -r  warn if the result would not be position-independent")
	fmt.Fprintln(os.Stderr, "  -D  increase diagnostic verbosity (repeatable)")
	fmt.Fprintln(os.Stderr, "with no <output>, the name is derived from <input> by swapping the .gt1/.gt1z suffix")
}

func main() {
	decompress := flag.Bool("d", false, "decompress")
	verify := flag.Bool("t", false, "verify a compressed file against its source")
	force := flag.Bool("f", false, "overwrite an existing output file")
	warnReloc := flag.Bool("r", false, "warn if not relocatable")
	verbosity := 0
	flag.Func("D", "increase verbosity", func(string) error {
		verbosity++
		return nil
	})
	flag.Usage = usage
	flag.Parse()

	if err := run(flag.Args(), *decompress, *verify, *force, *warnReloc, verbosity); err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, "gt1z:", err)
			usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "gt1z:", err)
		os.Exit(1)
	}
}

func run(args []string, decompress, verify, force, warnReloc bool, verbosity int) error {
	if len(args) < 1 || len(args) > 2 {
		return &UsageError{"expected one or two filename arguments"}
	}

	logger, err := newLogger(verbosity)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logger.Sync() //nolint:errcheck
	opts := gt1z.Options{Log: logger}

	in := args[0]
	out := ""
	if len(args) == 2 {
		out = args[1]
	}

	switch {
	case verify:
		return runVerify(in, out, opts)
	case decompress:
		return runDecompress(in, out, force, opts)
	default:
		return runCompress(in, out, force, warnReloc, opts)
	}
}

// newLogger picks the base severity from GT1Z_LOG_LEVEL (gtconfig),
// then steps it up one level per repeated -D flag.
func newLogger(verbosity int) (*zap.SugaredLogger, error) {
	step := logLevelStep(gtconfig.LogLevel()) + verbosity
	cfg := zap.NewDevelopmentConfig()
	switch {
	case step >= 2:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case step == 1:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// logLevelStep maps a GT1Z_LOG_LEVEL name to the same 0/1/2
// (warn/info/debug) scale as the -D flag count.
func logLevelStep(level string) int {
	switch level {
	case "debug":
		return 2
	case "info":
		return 1
	default:
		return 0
	}
}

func runCompress(in, out string, force, warnReloc bool, opts gt1z.Options) error {
	out = deriveOutput(in, out, ".gt1", ".gt1z")
	src, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}
	compressed, relocatable, err := gt1z.Compress(src, opts)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", in, err)
	}
	if warnReloc && !relocatable {
		fmt.Fprintf(os.Stderr, "gt1z: %s is not relocatable\n", in)
	}
	return writeOutput(out, compressed, force)
}

func runDecompress(in, out string, force bool, opts gt1z.Options) error {
	out = deriveOutput(in, out, ".gt1z", ".gt1")
	src, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}
	decompressed, _, err := gt1z.Decompress(src, opts)
	if err != nil {
		return fmt.Errorf("decompressing %s: %w", in, err)
	}
	return writeOutput(out, decompressed, force)
}

func runVerify(in, out string, opts gt1z.Options) error {
	gt1zName := in
	gt1Name := out
	if gt1Name == "" {
		gt1Name = deriveOutput(in, "", ".gt1z", ".gt1")
	}

	compressedSrc, err := os.ReadFile(gt1zName)
	if err != nil {
		return fmt.Errorf("reading %s: %w", gt1zName, err)
	}
	referenceSrc, err := os.ReadFile(gt1Name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", gt1Name, err)
	}

	ok, err := gt1z.Verify(compressedSrc, referenceSrc, opts)
	if err != nil && !errors.Is(err, gt1z.ErrVerifyMismatch) {
		return fmt.Errorf("verifying %s against %s: %w", gt1zName, gt1Name, err)
	}
	if !ok {
		return fmt.Errorf("%s does not decompress back to %s", gt1zName, gt1Name)
	}
	fmt.Printf("%s matches %s\n", gt1zName, gt1Name)
	return nil
}

// deriveOutput computes the output filename when the user did not
// provide one: swap fromSuffix for toSuffix, or append toSuffix if in
// doesn't end in fromSuffix.
func deriveOutput(in, out, fromSuffix, toSuffix string) string {
	if out != "" {
		return out
	}
	if strings.HasSuffix(in, fromSuffix) {
		return strings.TrimSuffix(in, fromSuffix) + toSuffix
	}
	return in + toSuffix
}

func writeOutput(out string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("%s already exists (use -f to overwrite)", out)
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}
