// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

// Package catalogue parses APB manifests: the XML catalogue each
// Attestation Protocol Block publishes describing the phrase templates
// it can execute, the measurement specs those templates bind to, and the
// per-place field permissions the APB holds.
package catalogue

import (
	"encoding/xml"
	"io"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/copland-phrase/copland/internal/copland/coplerr"
	"github.com/copland-phrase/copland/internal/copland/phrase"
)

// SpecLookup answers whether a measurement-spec UUID is known to the
// catalogue of specs this process loads independently of the APB
// manifest itself.
type SpecLookup interface {
	Known(id uuid.UUID) bool
}

// MapSpecLookup is the simplest SpecLookup: a fixed set of known UUIDs.
type MapSpecLookup map[uuid.UUID]struct{}

// NewMapSpecLookup builds a MapSpecLookup from a list of known spec UUIDs.
func NewMapSpecLookup(ids ...uuid.UUID) MapSpecLookup {
	m := make(MapSpecLookup, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// Known implements SpecLookup.
func (m MapSpecLookup) Known(id uuid.UUID) bool {
	_, ok := m[id]
	return ok
}

// APB is the parsed result of an Attestation Protocol Block's manifest:
// its phrase templates bound to measurement specs, and its per-place
// read permissions. Valid starts true and only ever drops to false —
// it never rises once a fatal parse condition is hit.
type APB struct {
	Name             string
	Valid            bool
	PhraseSpecs      []phrase.PhraseSpecPair
	PlacePermissions []phrase.PlacePerms
	Version          *semver.Version
}

// IsValid reports whether this APB record is still eligible for
// selection; satisfies matcher.APBCatalogue.
func (a *APB) IsValid() bool {
	return a.Valid
}

// Templates returns the phrase/spec pairs this APB publishes; satisfies
// matcher.APBCatalogue.
func (a *APB) Templates() []phrase.PhraseSpecPair {
	return a.PhraseSpecs
}

// manifestXML is the document root: one or more <copland> blocks,
// optionally tagged with a supplemental version attribute. This is
// additive metadata carried over from the original APB format; a
// malformed or absent version is never fatal.
type manifestXML struct {
	XMLName  xml.Name     `xml:"apb"`
	Version  string       `xml:"apbVersion,attr"`
	Coplands []coplandXML `xml:"copland"`
}

type coplandXML struct {
	Phrases   []phraseXML  `xml:"phrase"`
	Specs     []specXML    `xml:"spec"`
	Arguments argumentsXML `xml:"arguments"`
	Places    placesXML    `xml:"places"`
}

type phraseXML struct {
	Copland string `xml:"copland,attr"`
}

type specXML struct {
	UUID string `xml:"uuid,attr"`
}

type argumentsXML struct {
	Args []argXML `xml:"arg"`
}

type argXML struct {
	Name   string `xml:"name,attr"`
	Type   string `xml:"type"`
	Values string `xml:"values"`
}

type placesXML struct {
	Places []placeXML `xml:"place"`
}

type placeXML struct {
	ID   string   `xml:"id,attr"`
	Info []string `xml:"info"`
}

// ParseManifest reads an APB manifest document and builds an APB record.
// Parsing is best-effort: individual malformed children are skipped
// with a log warning, but a missing base term or an unknown
// measurement spec UUID marks the whole record invalid and parsing
// continues so later templates in the same manifest still get a chance.
func ParseManifest(r io.Reader, name string, specs SpecLookup, logger *slog.Logger) (*APB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, coplerr.IoFailure("read manifest", err)
	}

	var doc manifestXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, coplerr.Malformed(name, "manifest is not well-formed XML: "+err.Error())
	}

	apb := &APB{Name: name, Valid: true}

	if doc.Version != "" {
		v, err := semver.NewVersion(strings.TrimSpace(doc.Version))
		if err != nil {
			logger.Warn("ignoring malformed apbVersion attribute", "apb", name, "version", doc.Version, "error", err)
		} else {
			apb.Version = v
		}
	}

	for i, block := range doc.Coplands {
		parseCoplandBlock(apb, block, i, specs, logger)
	}

	return apb, nil
}

// parseCoplandBlock handles one <copland> child, mutating apb in place
// the way the original's parse_copland dispatches over a block's
// children and accumulates into the owning APB record.
func parseCoplandBlock(apb *APB, block coplandXML, index int, specs SpecLookup, logger *slog.Logger) {
	term, ok := firstPhraseTerm(block.Phrases, apb.Name, index, logger)
	if !ok {
		apb.Valid = false
		return
	}

	specUUID := resolveSpecUUID(block.Specs, apb, index, specs, logger)

	args := parseArgs(block.Arguments.Args, apb.Name, index, logger)
	tmpl := &phrase.CoplandPhrase{Term: term, Role: phrase.RoleBase, Args: args}
	apb.PhraseSpecs = append(apb.PhraseSpecs, phrase.PhraseSpecPair{Copl: tmpl, SpecUUID: specUUID})

	apb.PlacePermissions = append(apb.PlacePermissions, parsePlacePerms(block.Places.Places)...)
}

// firstPhraseTerm returns the first <phrase copland="..."/> term,
// warning on any duplicate, and reports false if none was present.
func firstPhraseTerm(phrases []phraseXML, apbName string, blockIndex int, logger *slog.Logger) (string, bool) {
	if len(phrases) == 0 {
		logger.Warn("copland block missing base phrase term", "apb", apbName, "block", blockIndex)
		return "", false
	}
	if len(phrases) > 1 {
		logger.Warn("duplicate <phrase> element, keeping first", "apb", apbName, "block", blockIndex)
	}
	term := strings.TrimSpace(phrases[0].Copland)
	if term == "" {
		return "", false
	}
	return term, true
}

// resolveSpecUUID returns the bound measurement-spec UUID for a block,
// or uuid.Nil (leaving the pair unbound/invalid) on any parse failure,
// unknown-spec lookup, or absent <spec> element. Any such failure drops
// apb.Valid; it never rises back.
func resolveSpecUUID(specsXML []specXML, apb *APB, blockIndex int, specs SpecLookup, logger *slog.Logger) uuid.UUID {
	if len(specsXML) == 0 {
		logger.Warn("copland block missing <spec> element", "apb", apb.Name, "block", blockIndex)
		apb.Valid = false
		return uuid.Nil
	}
	if len(specsXML) > 1 {
		logger.Warn("duplicate <spec> element, keeping first", "apb", apb.Name, "block", blockIndex)
	}

	id, err := uuid.Parse(strings.TrimSpace(specsXML[0].UUID))
	if err != nil {
		logger.Warn("unparseable spec uuid", "apb", apb.Name, "block", blockIndex, "uuid", specsXML[0].UUID)
		apb.Valid = false
		return uuid.Nil
	}

	if specs != nil && !specs.Known(id) {
		logger.Warn("unknown measurement spec uuid", "apb", apb.Name, "block", blockIndex, "uuid", id)
		apb.Valid = false
		return uuid.Nil
	}
	return id
}

// parseArgs builds the template argument schema in document order.
// An <arg> with an unrecognised <type> is skipped with a warning rather
// than failing the whole block.
func parseArgs(argsXML []argXML, apbName string, blockIndex int, logger *slog.Logger) []phrase.PhraseArg {
	args := make([]phrase.PhraseArg, 0, len(argsXML))
	for _, a := range argsXML {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			logger.Warn("skipping arg with empty name", "apb", apbName, "block", blockIndex)
			continue
		}
		switch strings.ToLower(strings.TrimSpace(a.Type)) {
		case "integer":
			args = append(args, phrase.NewIntegerArg(name, 0))
		case "place":
			args = append(args, phrase.NewPlaceArg(name, ""))
		case "string":
			// <values> is reserved for future bounds; current behaviour
			// carries it as the template's regex bound when present.
			args = append(args, phrase.NewStringArg(name, strings.TrimSpace(a.Values)))
		default:
			logger.Warn("skipping arg with unrecognised type", "apb", apbName, "block", blockIndex, "name", name, "type", a.Type)
		}
	}
	return args
}

// parsePlacePerms builds one PlacePerms per <place id=...> element.
func parsePlacePerms(placesXML []placeXML) []phrase.PlacePerms {
	perms := make([]phrase.PlacePerms, 0, len(placesXML))
	for _, p := range placesXML {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			continue
		}
		fields := make([]string, 0, len(p.Info))
		for _, f := range p.Info {
			f = strings.TrimSpace(f)
			if f != "" {
				fields = append(fields, f)
			}
		}
		perms = append(perms, phrase.NewPlacePerms(id, fields))
	}
	return perms
}
