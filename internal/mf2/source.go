package mf2

import (
	"strings"

	"github.com/triesap/mf2-i18n/internal/core"
)

// SourceEntry is one key/value pair recovered from a .mf2 locale source
// file; Value is MF2 source text ready for ParseMessage.
type SourceEntry struct {
	Key   string
	Value string
	Line  uint32
}

// ParseSource reads a .mf2 locale file: each entry is `key = value`,
// where value runs from the first non-space byte after `=` through
// subsequent lines until a blank line or EOF. Lines between entries
// whose trimmed content starts with `#` or `//` are comments; once
// inside a value those same prefixes are ordinary text.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/mf2_source.rs.
func ParseSource(input string) ([]SourceEntry, error) {
	var entries []SourceEntry
	var key string
	var haveKey bool
	var value strings.Builder
	var entryLine uint32

	lines := strings.Split(input, "\n")
	for idx, raw := range lines {
		lineNo := uint32(idx + 1)
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case !haveKey:
			if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
				continue
			}
			k, v, ok := strings.Cut(line, "=")
			if !ok {
				return nil, &core.Diagnostic{Code: "mf2_source", Message: "expected '=' in entry", Line: int(lineNo), Column: 1}
			}
			k = strings.TrimSpace(k)
			if k == "" {
				return nil, &core.Diagnostic{Code: "mf2_source", Message: "missing key", Line: int(lineNo), Column: 1}
			}
			if !isValidSourceKey(k) {
				return nil, &core.Diagnostic{Code: "mf2_source", Message: "invalid key", Line: int(lineNo), Column: 1}
			}
			key = k
			haveKey = true
			value.Reset()
			value.WriteString(strings.TrimLeft(v, " \t"))
			entryLine = lineNo
		case trimmed == "":
			entries = append(entries, flushSourceEntry(&key, &haveKey, &value, entryLine))
		default:
			if value.Len() > 0 {
				value.WriteByte('\n')
			}
			value.WriteString(line)
		}
	}
	if haveKey {
		entries = append(entries, flushSourceEntry(&key, &haveKey, &value, entryLine))
	}
	return entries, nil
}

func flushSourceEntry(key *string, haveKey *bool, value *strings.Builder, line uint32) SourceEntry {
	entry := SourceEntry{
		Key:   *key,
		Value: strings.TrimRight(value.String(), " \t\r\n"),
		Line:  line,
	}
	*haveKey = false
	*key = ""
	value.Reset()
	return entry
}

func isValidSourceKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		b := key[i]
		ok := (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '.' || b == '_' || b == '-'
		if !ok {
			return false
		}
	}
	return true
}
