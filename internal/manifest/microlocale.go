package manifest

import (
	"fmt"
	"strings"

	"github.com/triesap/mf2-i18n/internal/core"
)

// ParseMicroLocales reads the optional micro-locale map: blank-line
// separated records, each a `tag = value` line followed by a
// `parent = value` line (order-independent, lines trimmed). A record
// missing either key is a build error; an empty input yields an empty
// map.
//
// Uses the same flat `key = value` convention this toolchain already
// uses for .mf2 locale source files, rather than a second structured
// config format library for two fields per record.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/micro_locales.rs.
func ParseMicroLocales(input string) (map[string]string, error) {
	out := make(map[string]string)
	record := make(map[string]string)
	lineNo := 0

	flush := func() error {
		if len(record) == 0 {
			return nil
		}
		tag, hasTag := record["tag"]
		parent, hasParent := record["parent"]
		if !hasTag || !hasParent {
			return fmt.Errorf("%w: micro-locale record at line %d missing tag or parent", core.ErrInput, lineNo)
		}
		out[tag] = parent
		record = make(map[string]string)
		return nil
	}

	for _, raw := range strings.Split(input, "\n") {
		lineNo++
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}
		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			return nil, fmt.Errorf("%w: micro-locale line %d missing '='", core.ErrInput, lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		record[key] = value
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}
