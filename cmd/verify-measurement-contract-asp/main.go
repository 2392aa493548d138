// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

// Command verify-measurement-contract-asp reads a measurement contract
// over a pipe, verifies every subcontract's signature, and writes a
// PASS/FAIL token to an output pipe.
//
// Usage: verify-measurement-contract-asp <fd_in> <fd_out> <workdir> <nonce> <cacert> <akpubkey> <verify_tpm>
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/copland-phrase/copland/internal/copland/verifier"
	"github.com/copland-phrase/copland/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
)

const usage = "Usage: verify-measurement-contract-asp <fd_in> <fd_out> <workdir> <nonce> <cacert> <akpubkey> <verify_tpm>"

func main() {
	logging.SetDefault("verify-measurement-contract-asp", version, "text")

	code, err := run(os.Args[1:])
	if err != nil {
		slog.Error("asp failed", "error", err, "commit", commit)
	}
	os.Exit(code)
}

// run parses the ASP's positional argv contract (a configurable set of
// flags may precede it; see verifier.RegisterFlags), verifies the
// contract it reads from fd_in, and writes the PASS/FAIL token to
// fd_out. It returns the process exit code and, for unsuccessful exits,
// the error that drove it, matching the original's "exit code 0 on
// success, negative errno-style otherwise" at the shell level while
// keeping this function's signature idiomatic Go.
func run(argv []string) (int, error) {
	fs := pflag.NewFlagSet("verify-measurement-contract-asp", pflag.ContinueOnError)
	verifier.RegisterFlags(fs)
	if err := fs.Parse(argv); err != nil {
		return -1, fmt.Errorf("%s: %w", usage, err)
	}

	positional := fs.Args()
	if len(positional) != 7 {
		return -1, fmt.Errorf("%s", usage)
	}

	fdIn, err := parseFD(positional[0])
	if err != nil {
		return -1, fmt.Errorf("fd_in: %w", err)
	}
	fdOut, err := parseFD(positional[1])
	if err != nil {
		return -1, fmt.Errorf("fd_out: %w", err)
	}
	workdir := positional[2]
	nonce := positional[3]
	cacert := positional[4]
	akpubkey := positional[5]

	verifyTPM, err := parseVerifyTPM(positional[6])
	if err != nil {
		return -1, fmt.Errorf("%s: %w", usage, err)
	}

	cfg, err := verifier.LoadConfig(fs)
	if err != nil {
		return -1, err
	}

	in := os.NewFile(uintptr(fdIn), "fd_in")
	out := os.NewFile(uintptr(fdOut), "fd_out")
	defer in.Close()
	defer out.Close()

	ctx := context.Background()
	contractBytes, err := verifier.ReadSizePrefixed(ctx, in, cfg.MaxContractSize, cfg.ReadTimeout)
	if err != nil {
		return -1, fmt.Errorf("read contract: %w", err)
	}

	params := verifier.VerifyParams{
		Workdir:   workdir,
		Nonce:     nonce,
		CACert:    cacert,
		AKPubKey:  akpubkey,
		VerifyTPM: verifyTPM,
	}

	v := verifier.NewVerifier(verifier.StructuralVerifier(), slog.Default())
	verdict := v.Verify(ctx, contractBytes, params)

	if err := verifier.WriteToken(out, verdict); err != nil {
		return -1, fmt.Errorf("write verdict: %w", err)
	}

	slog.Info("contract verified", "verdict", verdict.String())
	return 0, nil
}

// parseFD parses a positional file-descriptor argument, rejecting
// negative values the way the original's strtol + bounds check does.
func parseFD(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid file descriptor %q", s)
	}
	return int(n), nil
}

// parseVerifyTPM parses the trailing "0"/"1" argument.
func parseVerifyTPM(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("verify_tpm must be 0 or 1, got %q", s)
	}
}
