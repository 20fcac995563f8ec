package router

import (
	"net/url"
	"strings"
)

type segmentKind int

const (
	segmentStatic segmentKind = iota
	segmentParam
	segmentCatchAll
)

type segment struct {
	kind      segmentKind
	value     string // literal text or param name
	optional  bool
	oneOrMore bool
}

func (s segment) String() string {
	switch s.kind {
	case segmentParam:
		if s.optional {
			return ":" + s.value + "?"
		}
		return ":" + s.value
	case segmentCatchAll:
		prefix := ""
		if s.value != "" {
			prefix = ":" + s.value
		}
		if s.oneOrMore {
			return prefix + "+"
		}
		return prefix + "*"
	default:
		if s.optional {
			return s.value + "?"
		}
		return s.value
	}
}

// MatchResult is the outcome of a successful Match.
type MatchResult struct {
	Matches bool
	// Params holds every named capture declared by the pattern.
	// Absent optional params are present with an empty value.
	Params Params
	// Prefix is the part of the path consumed by non greedy segments.
	Prefix string
	// Remainder is the part captured by a trailing greedy segment,
	// as a rooted path. Empty when the pattern has no greedy segment
	// or it captured nothing.
	Remainder string
}

// Matcher tests paths against a compiled route pattern.
// It is immutable and safe for concurrent use.
type Matcher struct {
	pattern  string
	segments []segment
	names    []string
}

// Compile turns a route pattern into a Matcher. Invalid patterns
// return a PATTERN_INVALID error.
//
// Supported tokens:
//
//	/users          literal
//	/:id            one segment, bound to "id"
//	/:tab?          optional segment (also "literal?")
//	/:rest*         zero or more trailing segments, bound to "rest"
//	/:rest+         one or more trailing segments, bound to "rest"
//	/*              zero or more trailing segments, not bound
func Compile(pattern string) (*Matcher, error) {
	if pattern == "" {
		return nil, newPatternError(pattern, "pattern is empty", -1)
	}
	if !strings.HasPrefix(pattern, "/") {
		return nil, newPatternError(pattern, "pattern must start with /", -1)
	}

	m := &Matcher{pattern: pattern}
	seen := map[string]bool{}
	sawOptional := false

	for i, raw := range splitPathSegments(pattern) {
		if raw == "" {
			return nil, newPatternError(pattern, "empty segment", i)
		}
		if len(m.segments) > 0 && m.segments[len(m.segments)-1].kind == segmentCatchAll {
			return nil, newPatternError(pattern, "greedy segment must be the last segment", i)
		}

		seg, reason := parseSegment(raw)
		if reason != "" {
			return nil, newPatternError(pattern, reason, i)
		}

		if seg.kind != segmentCatchAll {
			if sawOptional && !seg.optional {
				return nil, newPatternError(pattern, "required segment follows an optional segment", i)
			}
			sawOptional = sawOptional || seg.optional
		}

		if seg.kind != segmentStatic && seg.value != "" {
			if seen[seg.value] {
				return nil, newPatternError(pattern, "duplicate param name "+seg.value, i)
			}
			seen[seg.value] = true
			m.names = append(m.names, seg.value)
		}

		m.segments = append(m.segments, seg)
	}

	return m, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

func parseSegment(raw string) (segment, string) {
	if raw == "*" {
		return segment{kind: segmentCatchAll}, ""
	}

	if strings.HasPrefix(raw, ":") {
		name := raw[1:]
		seg := segment{kind: segmentParam}
		switch {
		case strings.HasSuffix(name, "*"):
			seg.kind = segmentCatchAll
			name = strings.TrimSuffix(name, "*")
		case strings.HasSuffix(name, "+"):
			seg.kind = segmentCatchAll
			seg.oneOrMore = true
			name = strings.TrimSuffix(name, "+")
		case strings.HasSuffix(name, "?"):
			seg.optional = true
			name = strings.TrimSuffix(name, "?")
		}
		if name == "" {
			return segment{}, "param name is empty"
		}
		if !validParamName(name) {
			return segment{}, "param name " + name + " contains invalid characters"
		}
		seg.value = name
		return seg, ""
	}

	seg := segment{kind: segmentStatic, value: raw}
	if strings.HasSuffix(raw, "?") {
		seg.optional = true
		seg.value = strings.TrimSuffix(raw, "?")
	}
	if seg.value == "" {
		return segment{}, "literal segment is empty"
	}
	if strings.ContainsAny(seg.value, ":*?") {
		return segment{}, "literal segment " + raw + " contains reserved characters"
	}
	return seg, ""
}

func validParamName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// Pattern returns the source pattern.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Names returns the declared param names in order.
func (m *Matcher) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Greedy reports whether the pattern ends with a greedy segment.
func (m *Matcher) Greedy() bool {
	return len(m.segments) > 0 && m.segments[len(m.segments)-1].kind == segmentCatchAll
}

func (m *Matcher) String() string {
	return m.pattern
}

// Match tests path, which must not include a query or fragment.
// Leading and trailing slashes are ignored on both sides and
// literals are compared case sensitively.
func (m *Matcher) Match(path string) (MatchResult, bool) {
	candidate := splitPathSegments(path)
	params := make(Params, len(m.names))
	consumed := 0

	for _, seg := range m.segments {
		switch seg.kind {
		case segmentCatchAll:
			rest := candidate[consumed:]
			if seg.oneOrMore && len(rest) == 0 {
				return MatchResult{}, false
			}
			remainder := strings.Join(rest, "/")
			if seg.value != "" {
				params[seg.value] = unescape(remainder)
			}
			result := MatchResult{
				Matches: true,
				Params:  params,
				Prefix:  rootedPath(candidate[:consumed]),
			}
			if remainder != "" {
				result.Remainder = "/" + remainder
			}
			return result, true

		case segmentParam:
			if consumed >= len(candidate) {
				if !seg.optional {
					return MatchResult{}, false
				}
				params[seg.value] = ""
				continue
			}
			params[seg.value] = unescape(candidate[consumed])
			consumed++

		default:
			if consumed < len(candidate) && candidate[consumed] == seg.value {
				consumed++
				continue
			}
			if !seg.optional {
				return MatchResult{}, false
			}
		}
	}

	if consumed != len(candidate) {
		return MatchResult{}, false
	}

	return MatchResult{
		Matches: true,
		Params:  params,
		Prefix:  rootedPath(candidate),
	}, true
}

func unescape(value string) string {
	if out, err := url.PathUnescape(value); err == nil {
		return out
	}
	return value
}

func rootedPath(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return "/" + strings.Join(parts, "/")
}
