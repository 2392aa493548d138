// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package verifier

import (
	"context"
	"encoding/xml"

	"github.com/copland-phrase/copland/internal/copland/coplerr"
)

// structuralSubcontract is the minimal shape a subcontract must have for
// StructuralVerifier to accept it: a non-empty signature element, and —
// when a nonce element is present — a nonce matching the scenario's.
type structuralSubcontract struct {
	Signature string `xml:"signature"`
	Nonce     string `xml:"nonce"`
}

// StructuralVerifier is a stand-in SignatureVerifier checking only that
// a subcontract carries a non-empty signature element and an agreeing
// nonce where present. It does not perform cryptographic verification:
// the real primitive (TPM quote or X.509 chain check) is treated as an
// external collaborator. Deployed ASPs must inject a real
// SignatureVerifier; this exists so the binary runs end-to-end without
// one wired in, and so tests can exercise the Verifier/contract
// plumbing without a cryptographic dependency.
func StructuralVerifier() SignatureVerifier {
	return SignatureVerifierFunc(func(_ context.Context, index int, subcontract []byte, params VerifyParams) error {
		var s structuralSubcontract
		if err := xml.Unmarshal(subcontract, &s); err != nil {
			return coplerr.Malformed("subcontract", err.Error())
		}
		if s.Signature == "" {
			return coplerr.SignatureFail(index, nil)
		}
		if s.Nonce != "" && s.Nonce != params.Nonce {
			return coplerr.SignatureFail(index, nil)
		}
		return nil
	})
}
