// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

// Package phrase models Copland phrases: named attestation requests with
// typed arguments, and the template/actual distinction a catalogue entry
// and a runtime request each play.
package phrase

import (
	"github.com/google/uuid"
)

// ArgKind discriminates the payload carried by a PhraseArg.
type ArgKind int

const (
	// ArgInteger marks a signed 32-bit integer payload.
	ArgInteger ArgKind = iota
	// ArgPlace marks a non-negative integer stored as decimal text.
	ArgPlace
	// ArgString marks a text payload (a regex bound in a template, a
	// literal value in an actual phrase).
	ArgString
)

func (k ArgKind) String() string {
	switch k {
	case ArgInteger:
		return "integer"
	case ArgPlace:
		return "place"
	case ArgString:
		return "string"
	default:
		return "unknown"
	}
}

// PhraseArg is a single named, typed argument. Kind and payload are
// inseparable: callers build one through the constructor for its kind
// rather than a struct literal, so a PhraseArg is never in a state where
// Kind disagrees with which field holds the value.
type PhraseArg struct {
	Name     string
	Kind     ArgKind
	IntValue int32
	Text     string
}

// NewIntegerArg builds an INTEGER-kind argument.
func NewIntegerArg(name string, value int32) PhraseArg {
	if name == "" {
		panic("phrase.NewIntegerArg: empty name")
	}
	return PhraseArg{Name: name, Kind: ArgInteger, IntValue: value}
}

// NewPlaceArg builds a PLACE-kind argument. text is the original decimal
// encoding and is kept verbatim (leading zeros included) for round-trip
// fidelity. The constructor does not validate text; Parse accepts only
// decimal values in [0, 2^31) for a PLACE argument.
func NewPlaceArg(name string, text string) PhraseArg {
	if name == "" {
		panic("phrase.NewPlaceArg: empty name")
	}
	return PhraseArg{Name: name, Kind: ArgPlace, Text: text}
}

// NewStringArg builds a STRING-kind argument. In a BASE phrase text is a
// POSIX-extended regular expression; in an ACTUAL phrase it is the
// literal value.
func NewStringArg(name string, text string) PhraseArg {
	if name == "" {
		panic("phrase.NewStringArg: empty name")
	}
	return PhraseArg{Name: name, Kind: ArgString, Text: text}
}

// Render returns the wire-format text for this argument's payload, the
// way Serialise embeds it after "name=".
func (a PhraseArg) Render() string {
	switch a.Kind {
	case ArgInteger:
		return renderInt32(a.IntValue)
	case ArgPlace, ArgString:
		return a.Text
	default:
		return ""
	}
}

// Role distinguishes a published template from a concrete request.
type Role int

const (
	// RoleBase marks a template phrase published in an APB manifest.
	RoleBase Role = iota
	// RoleActual marks a concrete, resolved request.
	RoleActual
)

func (r Role) String() string {
	if r == RoleActual {
		return "actual"
	}
	return "base"
}

// CoplandPhrase is a term plus its ordered argument list. Argument order
// in an ACTUAL phrase reflects encounter order in the wire string, not
// the owning template's declared order.
type CoplandPhrase struct {
	Term string
	Role Role
	Args []PhraseArg
}

// ArgByName returns the argument with the given name and whether it was
// found. Names are unique within a single phrase by construction.
func (p *CoplandPhrase) ArgByName(name string) (PhraseArg, bool) {
	for _, a := range p.Args {
		if a.Name == name {
			return a, true
		}
	}
	return PhraseArg{}, false
}

// DeepCopy returns an independent copy of p whose Args slice shares no
// backing array with p's, so an actual phrase handed to a caller never
// aliases a template's storage.
func (p *CoplandPhrase) DeepCopy() *CoplandPhrase {
	if p == nil {
		return nil
	}
	cp := &CoplandPhrase{Term: p.Term, Role: p.Role}
	if p.Args != nil {
		cp.Args = make([]PhraseArg, len(p.Args))
		copy(cp.Args, p.Args)
	}
	return cp
}

// PhraseSpecPair binds a BASE phrase to the measurement specification it
// implements. A zero SpecUUID means unbound, and the pair is invalid.
type PhraseSpecPair struct {
	Copl     *CoplandPhrase
	SpecUUID uuid.UUID
}

// Valid reports whether this pair is bound to a non-zero spec UUID and
// carries a non-nil BASE phrase.
func (p PhraseSpecPair) Valid() bool {
	return p.Copl != nil && p.SpecUUID != uuid.Nil
}

// PlaceIDField is the field name always implicitly readable on any
// projected place, regardless of its PlacePerms entry.
const PlaceIDField = "place_id"

// PlacePerms is the set of place-directory fields an APB may read for a
// given PLACE-kind argument name.
type PlacePerms struct {
	ID     string
	Fields map[string]struct{}
}

// NewPlacePerms builds a PlacePerms from an id and a field-name list.
func NewPlacePerms(id string, fields []string) PlacePerms {
	if id == "" {
		panic("phrase.NewPlacePerms: empty id")
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return PlacePerms{ID: id, Fields: set}
}

// Allows reports whether field is readable under these permissions:
// PlaceIDField is always allowed, everything else must be listed.
func (p PlacePerms) Allows(field string) bool {
	if field == PlaceIDField {
		return true
	}
	_, ok := p.Fields[field]
	return ok
}

// PlaceInfo maps a projected place's field names to their ordered text
// values, replacing the original's hash-table-of-lists.
type PlaceInfo map[string][]string
