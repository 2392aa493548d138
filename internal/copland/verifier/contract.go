// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

// Package verifier implements the contract verifier: it reads a
// size-prefixed measurement contract XML blob, validates its root type
// and subcontract structure, and verifies each subcontract through an
// injected signature backend, producing a PASS/FAIL verdict token.
package verifier

import (
	"encoding/xml"
	"strings"

	"github.com/copland-phrase/copland/internal/copland/coplerr"
)

// measurementContractType is the required (case-insensitive) root
// "type" attribute value.
const measurementContractType = "measurement"

type contractXML struct {
	XMLName      xml.Name         `xml:"contract"`
	Type         string           `xml:"type,attr"`
	Subcontracts []subcontractXML `xml:"subcontract"`
}

type subcontractXML struct {
	Raw []byte `xml:",innerxml"`
}

// Contract is the validated shape of a measurement contract: its
// subcontracts in document order, each carrying the raw bytes a
// SignatureVerifier checks. Each entry is a <subcontract> element
// rebuilt from its inner XML; attributes on the element are not kept.
type Contract struct {
	Type         string
	Subcontracts [][]byte
}

// parseContract parses data into a Contract and checks that its root
// "type" attribute is "measurement" case-insensitively. It does not
// reject an empty subcontract set — that is a verification-time FAIL,
// not a parse error.
func parseContract(data []byte) (*Contract, error) {
	var doc contractXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, coplerr.Malformed("contract", "not well-formed XML: "+err.Error())
	}
	if !strings.EqualFold(doc.Type, measurementContractType) {
		return nil, coplerr.Malformed("contract", `root "type" attribute is not "measurement"`)
	}

	c := &Contract{Type: doc.Type, Subcontracts: make([][]byte, len(doc.Subcontracts))}
	for i, s := range doc.Subcontracts {
		c.Subcontracts[i] = []byte("<subcontract>" + string(s.Raw) + "</subcontract>")
	}
	return c, nil
}
