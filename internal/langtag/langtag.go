// Package langtag implements BCP-47 tag normalization and RFC 4647
// "Lookup"-style fallback negotiation, grounded byte-for-byte on the
// language_tag.rs/negotiation.rs semantics this toolchain was distilled
// from.
package langtag

import (
	"fmt"
	"strings"

	"github.com/triesap/mf2-i18n/internal/core"
)

// Tag is a parsed, normalized BCP-47 language tag.
type Tag struct {
	original     string
	normalized   string
	matchSubtags []string
}

// Original returns the tag exactly as parsed (whitespace-trimmed).
func (t Tag) Original() string { return t.original }

// Normalized returns the normalized form: language lowercased, script
// title-cased, region uppercased, everything from the first singleton
// onward preserved but excluded from the match prefix.
func (t Tag) Normalized() string { return t.normalized }

// MatchSubtags returns the normalized subtags eligible for RFC 4647
// lookup truncation (the pre-singleton window).
func (t Tag) MatchSubtags() []string {
	out := make([]string, len(t.matchSubtags))
	copy(out, t.matchSubtags)
	return out
}

// Parse normalizes a BCP-47 tag per §4.1.
func Parse(input string) (Tag, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Tag{}, fmt.Errorf("%w: language tag is empty", core.ErrInput)
	}

	subtags := strings.Split(trimmed, "-")
	for _, part := range subtags {
		if part == "" {
			return Tag{}, fmt.Errorf("%w: language tag has empty subtag", core.ErrInput)
		}
	}

	normalizedParts := make([]string, 0, len(subtags))
	matchParts := make([]string, 0, len(subtags))
	scriptSeen := false
	regionSeen := false
	stopForMatch := false

	for idx, raw := range subtags {
		part := strings.TrimSpace(raw)

		if idx == 0 {
			if !isAlpha(part) || len(part) < 2 || len(part) > 8 {
				return Tag{}, fmt.Errorf("%w: invalid language subtag", core.ErrInput)
			}
			lower := strings.ToLower(part)
			normalizedParts = append(normalizedParts, lower)
			matchParts = append(matchParts, lower)
			continue
		}

		if len(part) == 1 {
			stopForMatch = true
			normalizedParts = append(normalizedParts, strings.ToLower(part))
			continue
		}

		var normalized string
		switch {
		case !scriptSeen && len(part) == 4 && isAlpha(part):
			scriptSeen = true
			normalized = titlecase(part)
		case !regionSeen && isRegion(part):
			regionSeen = true
			normalized = strings.ToUpper(part)
		default:
			normalized = strings.ToLower(part)
		}

		normalizedParts = append(normalizedParts, normalized)
		if !stopForMatch {
			matchParts = append(matchParts, normalized)
		}
	}

	return Tag{
		original:     trimmed,
		normalized:   strings.Join(normalizedParts, "-"),
		matchSubtags: matchParts,
	}, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return len(s) > 0
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isRegion(s string) bool {
	return (len(s) == 2 && isAlpha(s)) || (len(s) == 3 && isDigits(s))
}

func titlecase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
