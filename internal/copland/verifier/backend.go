// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package verifier

import (
	"context"
	"encoding/hex"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

// Scheme selects which signature-verification backend a subcontract is
// checked against.
type Scheme int

const (
	// SchemeOpenSSL verifies a detached signature with an X.509 chain
	// rooted at the scenario's CA certificate.
	SchemeOpenSSL Scheme = iota
	// SchemeTPM verifies a TPM quote-style signature against the
	// scenario's AK public key.
	SchemeTPM
)

func (s Scheme) String() string {
	if s == SchemeTPM {
		return "tpm"
	}
	return "openssl"
}

// VerifyParams carries the per-scenario material a SignatureVerifier
// needs, threaded straight from the ASP's argv.
type VerifyParams struct {
	Workdir   string
	Nonce     string
	CACert    string
	AKPubKey  string
	VerifyTPM bool
}

// Scheme returns the backend VerifyParams.VerifyTPM selects.
func (p VerifyParams) Scheme() Scheme {
	if p.VerifyTPM {
		return SchemeTPM
	}
	return SchemeOpenSSL
}

// CredDir is the per-scenario credential scratch directory subcontract
// verification reads from, matching the original's "workdir/cred".
func (p VerifyParams) CredDir() string {
	return filepath.Join(p.Workdir, "cred")
}

// SignatureVerifier checks one subcontract's signature. The real
// primitive (TPM quote verification or an X.509/OpenSSL detached
// signature check) is treated as an external collaborator — this
// package only defines the seam and calls it per subcontract in
// document order.
type SignatureVerifier interface {
	VerifySubcontract(ctx context.Context, index int, subcontract []byte, params VerifyParams) error
}

// SignatureVerifierFunc adapts a plain function to SignatureVerifier.
type SignatureVerifierFunc func(ctx context.Context, index int, subcontract []byte, params VerifyParams) error

// VerifySubcontract implements SignatureVerifier.
func (f SignatureVerifierFunc) VerifySubcontract(ctx context.Context, index int, subcontract []byte, params VerifyParams) error {
	return f(ctx, index, subcontract, params)
}

// nonceDigest returns a one-way digest of a scenario nonce suitable for
// structured log attributes and metric labels — the raw nonce is
// sensitive scenario material and must never appear in logs. Uses the
// same argon2 primitive as a password hasher would, adapted here to a
// log-safe fingerprint rather than a storable credential hash.
func nonceDigest(nonce string) string {
	sum := argon2.IDKey([]byte(nonce), []byte("copland-verifier-nonce"), 1, 8*1024, 1, 8)
	return hex.EncodeToString(sum)
}
