// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package place

import (
	"io"
	"strconv"

	"github.com/copland-phrase/copland/internal/copland/coplerr"
	"github.com/copland-phrase/copland/internal/copland/phrase"
)

// LoadPlaceInfo parses a projected places document and returns the
// phrase.PlaceInfo for the <place> whose id field equals id. Duplicate
// field keys under the same place are an error; a place not present in
// r is coplerr.NotFound.
func LoadPlaceInfo(r io.Reader, id string) (phrase.PlaceInfo, error) {
	places, err := loadDirectory(r)
	if err != nil {
		return nil, err
	}

	found, ok := findPlaceByID(places, id)
	if !ok {
		return nil, coplerr.NotFound("place", id)
	}
	return buildPlaceInfo(found)
}

// buildPlaceInfo builds a PlaceInfo from a single <place> subtree: for
// each direct child element, the key is its tag, and the value is the
// ordered text of its element children if it has any, else the single
// text of the element itself.
func buildPlaceInfo(place element) (phrase.PlaceInfo, error) {
	info := make(phrase.PlaceInfo, len(place.Children))
	for _, c := range place.Children {
		key := c.XMLName.Local
		if _, dup := info[key]; dup {
			return nil, coplerr.Malformed(key, "duplicate field under the same place")
		}

		if !c.hasElementChildren() {
			info[key] = []string{c.text()}
			continue
		}
		values := make([]string, len(c.Children))
		for i, sub := range c.Children {
			values[i] = sub.text()
		}
		info[key] = values
	}
	return info, nil
}

// Accessor is a typed read API over a PlaceInfo, matching the original's
// get_string / get_int / list_length / fill_int_array family.
type Accessor struct {
	info phrase.PlaceInfo
}

// NewAccessor wraps info for typed reads.
func NewAccessor(info phrase.PlaceInfo) Accessor {
	return Accessor{info: info}
}

// GetList returns the raw ordered value sequence for field.
func (a Accessor) GetList(field string) ([]string, bool) {
	v, ok := a.info[field]
	return v, ok
}

// GetString returns the first value of field.
func (a Accessor) GetString(field string) (string, error) {
	return a.GetStringNth(field, 0)
}

// GetStringNth returns the nth value of field.
func (a Accessor) GetStringNth(field string, n int) (string, error) {
	values, ok := a.info[field]
	if !ok || n < 0 || n >= len(values) {
		return "", coplerr.NotFound("field", field)
	}
	return values[n], nil
}

// GetInt returns the first value of field parsed as a signed 32-bit
// integer, failing on a non-numeric tail.
func (a Accessor) GetInt(field string) (int32, error) {
	return a.GetIntNth(field, 0)
}

// GetIntNth returns the nth value of field parsed as a signed 32-bit
// integer.
func (a Accessor) GetIntNth(field string, n int) (int32, error) {
	s, err := a.GetStringNth(field, n)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, coplerr.TypeMismatch(field)
	}
	return int32(v), nil
}

// ListLength returns the number of values field holds, zero if absent.
func (a Accessor) ListLength(field string) int {
	return len(a.info[field])
}

// FillIntArray parses every value of field into out, which must be
// exactly ListLength(field) elements long. On any element's parse
// failure, out is left zeroed and an error is returned.
func (a Accessor) FillIntArray(field string, out []int32) error {
	values := a.info[field]
	if len(out) != len(values) {
		return coplerr.OutOfRange(field, strconv.Itoa(len(out)))
	}

	parsed := make([]int32, len(values))
	for i, s := range values {
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			zero(out)
			return coplerr.TypeMismatch(field)
		}
		parsed[i] = int32(v)
	}
	copy(out, parsed)
	return nil
}

func zero(out []int32) {
	for i := range out {
		out[i] = 0
	}
}
