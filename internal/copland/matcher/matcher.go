// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

// Package matcher resolves a requested phrase against a set of
// published templates: selecting a candidate by shape before value
// parsing, then testing bounded equivalence once an actual phrase has
// been parsed, and selecting the APB that can service it.
package matcher

import (
	"regexp"

	"github.com/copland-phrase/copland/internal/copland/coplerr"
	"github.com/copland-phrase/copland/internal/copland/phrase"
)

// FindTemplateByShape returns the first pair in pairs whose term and
// argument count (by shape, not value) match the raw request string,
// without parsing any argument values. This is how an APB is selected
// for value-resolution before Parse is attempted against its template.
func FindTemplateByShape(raw string, pairs []phrase.PhraseSpecPair) (phrase.PhraseSpecPair, bool) {
	term, argsSubstring := phrase.Split(raw)
	arity := 0
	if argsSubstring != "" {
		arity = phrase.CountArgsByEquals(argsSubstring)
	}

	for _, pair := range pairs {
		if pair.Copl == nil {
			continue
		}
		if pair.Copl.Term == term && len(pair.Copl.Args) == arity {
			return pair, true
		}
	}
	return phrase.PhraseSpecPair{}, false
}

// BoundedEquivalent reports whether actual is bounded-equivalent to
// template: same term, same arity, and at every position the same
// argument name and kind with a value that passes the template's bound.
//
// STRING bounds are POSIX-extended regular expressions compiled
// unanchored: a partial match of the actual value anywhere in the
// string passes, matching a bare regexec call. This is intentional,
// not a bug to silently tighten.
func BoundedEquivalent(actual, template *phrase.CoplandPhrase) (bool, error) {
	if actual == nil || template == nil {
		return false, coplerr.NullInput("phrase")
	}
	if actual.Term != template.Term {
		return false, nil
	}
	if len(actual.Args) != len(template.Args) {
		return false, nil
	}

	for i, a := range actual.Args {
		t := template.Args[i]
		if a.Name != t.Name || a.Kind != t.Kind {
			return false, nil
		}

		ok, err := withinBound(a, t)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// withinBound tests a single actual argument against its template
// counterpart's bound, per kind.
func withinBound(actual, template phrase.PhraseArg) (bool, error) {
	switch actual.Kind {
	case phrase.ArgString:
		re, err := regexp.CompilePOSIX(template.Text)
		if err != nil {
			return false, coplerr.RegexCompile(template.Text, err)
		}
		return re.MatchString(actual.Text), nil
	case phrase.ArgPlace:
		return actual.Text == template.Text, nil
	case phrase.ArgInteger:
		return actual.IntValue == template.IntValue, nil
	default:
		return false, coplerr.TypeMismatch(actual.Name)
	}
}

// FilterBounded returns a deep-copied subset of phrases containing every
// element bounded-equivalent to at least one bounder, preserving
// phrases' input order. No element of the result aliases phrases'
// backing storage.
func FilterBounded(phrases []*phrase.CoplandPhrase, bounders []*phrase.CoplandPhrase) ([]*phrase.CoplandPhrase, error) {
	out := make([]*phrase.CoplandPhrase, 0, len(phrases))
	for _, p := range phrases {
		matched := false
		for _, b := range bounders {
			ok, err := BoundedEquivalent(p, b)
			if err != nil {
				return nil, err
			}
			if ok {
				matched = true
				break
			}
		}
		if matched {
			out = append(out, p.DeepCopy())
		}
	}
	return out, nil
}

// APBCatalogue is the subset of a catalogue.APB this package needs to
// select among APBs without importing the catalogue package, avoiding an
// import cycle while keeping selection in terms of the same fields.
type APBCatalogue interface {
	IsValid() bool
	Templates() []phrase.PhraseSpecPair
}

// FindAPBByRawPhrase scans apbs in order and returns the first whose
// catalogue publishes a template matching raw by shape alone (term and
// argument count, via FindTemplateByShape) — no argument value is
// parsed or bound-checked. This is the cross-APB counterpart to
// FindTemplateByShape, used to locate a candidate APB/template pair
// before the raw phrase string is even parsed into values. An APB with
// IsValid() == false is never selected.
func FindAPBByRawPhrase[T APBCatalogue](raw string, apbs []T) (T, phrase.PhraseSpecPair, bool) {
	var zero T
	for _, apb := range apbs {
		if !apb.IsValid() {
			continue
		}
		if pair, ok := FindTemplateByShape(raw, apb.Templates()); ok {
			return apb, pair, true
		}
	}
	return zero, phrase.PhraseSpecPair{}, false
}

// SelectAPB scans apbs in order and returns the first whose catalogue
// contains a template bounded-equivalent to actual. An APB with
// IsValid() == false is never selected.
func SelectAPB[T APBCatalogue](actual *phrase.CoplandPhrase, apbs []T) (T, *phrase.CoplandPhrase, bool, error) {
	var zero T
	for _, apb := range apbs {
		if !apb.IsValid() {
			continue
		}
		for _, pair := range apb.Templates() {
			if pair.Copl == nil {
				continue
			}
			ok, err := BoundedEquivalent(actual, pair.Copl)
			if err != nil {
				return zero, nil, false, err
			}
			if ok {
				return apb, pair.Copl, true, nil
			}
		}
	}
	return zero, nil, false, nil
}
