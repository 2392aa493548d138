// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package verifier

import (
	"context"
	"log/slog"
	"time"
)

// Verdict is the outcome of verifying a measurement contract.
type Verdict bool

const (
	// Fail is the verdict for any malformed contract, wrong root type,
	// empty subcontract set, or any subcontract signature failure.
	Fail Verdict = false
	// Pass is the verdict when every subcontract verifies.
	Pass Verdict = true
)

func (v Verdict) String() string {
	if v == Pass {
		return "pass"
	}
	return "fail"
}

// Verifier validates measurement contracts against an injected
// signature backend. It never returns a Go error for a verification
// failure: any subcontract failure is a FAIL verdict, never a process
// error. I/O failures reading or writing the contract itself are
// reported separately by ReadSizePrefixed/WriteToken.
type Verifier struct {
	Backend SignatureVerifier
	Logger  *slog.Logger
}

// NewVerifier builds a Verifier. A nil logger falls back to slog.Default().
func NewVerifier(backend SignatureVerifier, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{Backend: backend, Logger: logger}
}

// Verify parses contractXML and verifies every subcontract against
// params, returning a PASS/FAIL verdict. It records the
// contracts-verified counter and the verification-duration histogram.
func (v *Verifier) Verify(ctx context.Context, contractXML []byte, params VerifyParams) Verdict {
	start := time.Now()
	verdict := v.verify(ctx, contractXML, params)
	observeVerification(verdict, time.Since(start))
	return verdict
}

func (v *Verifier) verify(ctx context.Context, data []byte, params VerifyParams) Verdict {
	contract, err := parseContract(data)
	if err != nil {
		v.Logger.Warn("contract failed to parse", "error", err)
		return Fail
	}

	if len(contract.Subcontracts) == 0 {
		v.Logger.Warn("contract has no subcontracts")
		return Fail
	}

	for i, sub := range contract.Subcontracts {
		if err := v.Backend.VerifySubcontract(ctx, i, sub, params); err != nil {
			v.Logger.Warn("subcontract failed signature verification",
				"index", i, "scheme", params.Scheme().String(),
				"nonce_digest", nonceDigest(params.Nonce), "error", err)
			return Fail
		}
	}
	return Pass
}
