// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

// Package place implements the place projector (filtering a places
// directory XML by per-APB permissions into a per-scenario artifact)
// and the place accessor (typed reads over a projected place's fields).
package place

import (
	"encoding/xml"
	"io"

	"github.com/copland-phrase/copland/internal/copland/coplerr"
)

// PlaceIDFieldTag is the places-directory element name carrying a
// place's identifier, matched against an actual PLACE argument's value.
const PlaceIDFieldTag = "place_id"

// element is a generic XML tree node used to walk the places directory
// without knowing field names ahead of time — the directory's per-place
// fields are APB-defined, not fixed by this package.
type element struct {
	XMLName  xml.Name
	CharData string    `xml:",chardata"`
	Children []element `xml:",any"`
}

// text returns this element's character data as decoded, without
// trimming surrounding whitespace; used when it has no element children.
func (e element) text() string {
	return e.CharData
}

// hasElementChildren reports whether e has any child elements, the
// discriminant used to decide between emitting flat text and emitting
// a nested sequence of subtags.
func (e element) hasElementChildren() bool {
	return len(e.Children) > 0
}

type directoryXML struct {
	XMLName xml.Name  `xml:"places"`
	Places  []element `xml:"place"`
}

// loadDirectory parses a places directory document into its place
// elements, preserving document order.
func loadDirectory(r io.Reader) ([]element, error) {
	var doc directoryXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, coplerr.Malformed("places directory", err.Error())
	}
	return doc.Places, nil
}

// findPlaceByID does a linear scan for the <place> whose <place_id>
// text equals id.
func findPlaceByID(places []element, id string) (element, bool) {
	for _, p := range places {
		for _, child := range p.Children {
			if child.XMLName.Local == PlaceIDFieldTag && child.text() == id {
				return p, true
			}
		}
	}
	return element{}, false
}
