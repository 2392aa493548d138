// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package phrase

import (
	"strconv"
	"strings"

	"github.com/copland-phrase/copland/internal/copland/coplerr"
)

// delimiters that may never appear inside a value token, to preserve the
// round-trip law (split(serialise(p)) must reproduce p's tokens exactly).
const (
	delimColon = ':'
	delimComma = ','
	delimEqual = '='
)

// Split divides a wire-format phrase string into its term and its raw,
// still-unparsed argument substring. Only the first colon is significant;
// any later colon is literal content of the argument substring.
func Split(s string) (term string, argsSubstring string) {
	i := strings.IndexByte(s, delimColon)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

// Parse splits s and resolves its argument list against tmpl, producing
// an ACTUAL CoplandPhrase. Arguments are kept in encounter order, not
// reordered to the template's declared order. Fails if the term does not
// match tmpl's term, if the argument count differs from tmpl's arity, if
// any argument name is unknown, or if any value fails its kind's grammar.
func Parse(s string, tmpl *CoplandPhrase) (*CoplandPhrase, error) {
	if s == "" {
		return nil, coplerr.NullInput("phrase")
	}
	if tmpl == nil {
		return nil, coplerr.NullInput("template")
	}

	term, argsSubstring := Split(s)
	if term != tmpl.Term {
		return nil, coplerr.Malformed(s, "term does not match template")
	}

	tokens := splitArgTokens(argsSubstring)
	if len(tokens) != len(tmpl.Args) {
		return nil, coplerr.Malformed(s, "argument count does not match template arity")
	}

	seen := make(map[string]struct{}, len(tokens))
	args := make([]PhraseArg, 0, len(tokens))
	for _, tok := range tokens {
		name, value, err := splitKV(tok)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, coplerr.Malformed(s, "duplicate argument name "+name)
		}
		seen[name] = struct{}{}

		templateArg, ok := tmpl.ArgByName(name)
		if !ok {
			return nil, coplerr.UnknownArg(name)
		}

		arg, err := resolveArg(templateArg, name, value)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	return &CoplandPhrase{Term: term, Role: RoleActual, Args: args}, nil
}

// resolveArg converts value into a PhraseArg of templateArg's kind.
func resolveArg(templateArg PhraseArg, name, value string) (PhraseArg, error) {
	switch templateArg.Kind {
	case ArgInteger:
		n, err := parseInt32(value)
		if err != nil {
			return PhraseArg{}, err
		}
		return NewIntegerArg(name, n), nil
	case ArgPlace:
		if _, err := parsePlace(value); err != nil {
			return PhraseArg{}, err
		}
		return NewPlaceArg(name, value), nil
	case ArgString:
		return NewStringArg(name, value), nil
	default:
		return PhraseArg{}, coplerr.TypeMismatch(name)
	}
}

// splitArgTokens splits an argument substring on "," and returns an empty
// slice for an empty substring (the no-args case).
func splitArgTokens(argsSubstring string) []string {
	if argsSubstring == "" {
		return nil
	}
	return strings.Split(argsSubstring, ",")
}

// splitKV splits a single "name=value" token on the first "=", rejecting
// an empty name, an empty value, or a value that itself contains a
// delimiter (which would break the round-trip law on re-serialisation).
func splitKV(tok string) (name, value string, err error) {
	i := strings.IndexByte(tok, delimEqual)
	if i <= 0 || i == len(tok)-1 {
		return "", "", coplerr.Malformed(tok, "argument token must be name=value with both sides non-empty")
	}
	name, value = tok[:i], tok[i+1:]
	if strings.ContainsRune(value, delimComma) || strings.ContainsRune(value, delimColon) || strings.ContainsRune(value, delimEqual) {
		return "", "", coplerr.Malformed(tok, "value contains a reserved delimiter")
	}
	if strings.ContainsRune(name, delimEqual) {
		return "", "", coplerr.Malformed(tok, "argument name contains '='")
	}
	return name, value, nil
}

// parseInt32 parses a full-string signed decimal into the int32 range,
// rejecting trailing garbage or overflow.
func parseInt32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, coplerr.OutOfRange("integer", s)
	}
	return int32(n), nil
}

// parsePlace validates s as a non-negative decimal below 2^31, returning
// the parsed value for validation only — callers keep the original text.
func parsePlace(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n >= 1<<31 {
		return 0, coplerr.OutOfRange("place", s)
	}
	return uint32(n), nil
}

func renderInt32(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}

// Serialise renders p back to wire format: the term alone if it has no
// arguments, else "term:name=value,name=value,..." in p.Args' order.
func Serialise(p *CoplandPhrase) string {
	if p == nil {
		return ""
	}
	if len(p.Args) == 0 {
		return p.Term
	}
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.Name + "=" + a.Render()
	}
	return p.Term + ":" + strings.Join(parts, ",")
}

// CountArgsByEquals counts the number of "=" occurrences in an argument
// substring, the same shape check the matcher uses to compute arity
// without fully parsing values (spec scenario: template selection by
// shape before value resolution).
func CountArgsByEquals(argsSubstring string) int {
	return strings.Count(argsSubstring, "=")
}
