package runtime

import (
	"fmt"
	"time"

	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/format"
)

// DefaultFormatBackend is the bundled core.FormatBackend: locale-aware
// number, currency, and date/time rendering plus CLDR-approximated
// plural classification. It is stateless and safe for concurrent use.
// Adapted from a locale-aware formatting/plural-ruleset package pair to
// the MF2 Value/FormatterId surface.
type DefaultFormatBackend struct {
	// Locale is consulted for number/date/currency conventions when a
	// per-call locale isn't threaded through (PluralCategory always
	// receives one explicitly from the interpreter).
	Locale string
}

// NewDefaultFormatBackend returns a backend defaulting to "en" when
// locale is empty.
func NewDefaultFormatBackend(locale string) *DefaultFormatBackend {
	if locale == "" {
		locale = "en"
	}
	return &DefaultFormatBackend{Locale: locale}
}

// Format implements core.FormatBackend.
func (b *DefaultFormatBackend) Format(formatter string, v core.Value) (string, error) {
	switch formatter {
	case "number":
		if v.Kind != core.KindNum {
			return "", fmt.Errorf("%w: formatter expects number", core.ErrInput)
		}
		return format.FormatNumber(b.Locale, v.Num, format.DefaultFormatConfig())
	case "date":
		if v.Kind != core.KindDateTime {
			return "", fmt.Errorf("%w: formatter expects datetime", core.ErrInput)
		}
		return format.FormatDate(b.Locale, fromEpoch(v.Epoch), format.DateStyleMedium)
	case "time":
		if v.Kind != core.KindDateTime {
			return "", fmt.Errorf("%w: formatter expects datetime", core.ErrInput)
		}
		return format.FormatTime(b.Locale, fromEpoch(v.Epoch), format.TimeStyleShort)
	case "datetime":
		if v.Kind != core.KindDateTime {
			return "", fmt.Errorf("%w: formatter expects datetime", core.ErrInput)
		}
		return format.FormatDateTime(b.Locale, fromEpoch(v.Epoch), format.DateStyleMedium, format.TimeStyleShort)
	case "unit":
		if v.Kind != core.KindUnit {
			return "", fmt.Errorf("%w: formatter expects unit", core.ErrInput)
		}
		number, err := format.FormatNumber(b.Locale, v.UnitValue, format.DefaultFormatConfig())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s u#%d", number, v.UnitID), nil
	case "currency":
		if v.Kind != core.KindCurrency {
			return "", fmt.Errorf("%w: formatter expects currency", core.ErrInput)
		}
		return format.FormatCurrency(b.Locale, v.CurValue, v.CurCode, format.DefaultFormatConfig())
	case "identity":
		return formatIdentity(v)
	default:
		return "", fmt.Errorf("%w: unknown formatter %q", core.ErrUnsupported, formatter)
	}
}

// PluralCategory implements core.FormatBackend. Ordinal is unreachable
// from the compiler; it falls back to the cardinal rule.
func (b *DefaultFormatBackend) PluralCategory(locale string, ruleset core.PluralRuleset, n float64) core.PluralCategory {
	return format.Category(locale, n)
}

func fromEpoch(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func formatIdentity(v core.Value) (string, error) {
	switch v.Kind {
	case core.KindStr:
		return v.Str, nil
	case core.KindNum:
		return format.FormatNumber("en", v.Num, format.FormatConfig{MinDecimals: 0, MaxDecimals: 6, UseGrouping: false})
	case core.KindBool:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	case core.KindDateTime:
		return fmt.Sprintf("%d", v.Epoch), nil
	case core.KindUnit:
		return fmt.Sprintf("%v:%d", v.UnitValue, v.UnitID), nil
	case core.KindCurrency:
		return fmt.Sprintf("%v:%s", v.CurValue, string(v.CurCode[:])), nil
	default:
		return "", fmt.Errorf("%w: identity formatting for any value", core.ErrUnsupported)
	}
}
