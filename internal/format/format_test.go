package format

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/triesap/mf2-i18n/internal/core"
)

func TestFormatNumberLocaleSeparators(t *testing.T) {
	cfg := DefaultFormatConfig()
	got, err := FormatNumber("en", 1234.5, cfg)
	if err != nil {
		t.Fatalf("en: %v", err)
	}
	if got != "1,234.5" {
		t.Errorf("en: got %q", got)
	}
	got, err = FormatNumber("de", 1234.5, cfg)
	if err != nil {
		t.Fatalf("de: %v", err)
	}
	if got != "1.234,5" {
		t.Errorf("de: got %q", got)
	}
}

func TestFormatNumberRejectsNaN(t *testing.T) {
	cfg := DefaultFormatConfig()
	if _, err := FormatNumber("en", math.NaN(), cfg); !errors.Is(err, core.ErrInput) {
		t.Errorf("got %v, want core.ErrInput", err)
	}
}

func TestFormatNumberRejectsInvertedDecimalRange(t *testing.T) {
	cfg := FormatConfig{MinDecimals: 4, MaxDecimals: 2}
	if _, err := FormatNumber("en", 1.5, cfg); !errors.Is(err, core.ErrInput) {
		t.Errorf("got %v, want core.ErrInput", err)
	}
}

func TestFormatCurrencySymbolPlacement(t *testing.T) {
	cfg := DefaultFormatConfig()
	got, err := FormatCurrency("en", 9.5, [3]byte{'U', 'S', 'D'}, cfg)
	if err != nil {
		t.Fatalf("en: %v", err)
	}
	if got != "$9.50" {
		t.Errorf("got %q", got)
	}
	got, err = FormatCurrency("de", 9.5, [3]byte{'E', 'U', 'R'}, cfg)
	if err != nil {
		t.Fatalf("de: %v", err)
	}
	if got == "" {
		t.Error("expected non-empty currency string")
	}
}

func TestFormatCurrencyRejectsNonLetterCode(t *testing.T) {
	cfg := DefaultFormatConfig()
	if _, err := FormatCurrency("en", 9.5, [3]byte{'U', '5', 0}, cfg); !errors.Is(err, core.ErrInput) {
		t.Errorf("got %v, want core.ErrInput", err)
	}
}

func TestFormatDateMedium(t *testing.T) {
	tm := time.Date(2026, time.July, 30, 0, 0, 0, 0, time.UTC)
	got, err := FormatDate("en", tm, DateStyleMedium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Jul 30, 2026" {
		t.Errorf("got %q", got)
	}
}

func TestFormatDateRejectsUnknownStyle(t *testing.T) {
	tm := time.Date(2026, time.July, 30, 0, 0, 0, 0, time.UTC)
	if _, err := FormatDate("en", tm, DateStyle(99)); !errors.Is(err, core.ErrInput) {
		t.Errorf("got %v, want core.ErrInput", err)
	}
}

func TestCategoryPluralRules(t *testing.T) {
	cases := []struct {
		locale string
		n      float64
		want   core.PluralCategory
	}{
		{"en", 1, core.PluralOne},
		{"en", 2, core.PluralOther},
		{"ar", 0, core.PluralZero},
		{"ar", 2, core.PluralTwo},
		{"pl", 2, core.PluralFew},
		{"en", 1.5, core.PluralOther},
	}
	for _, c := range cases {
		if got := Category(c.locale, c.n); got != c.want {
			t.Errorf("Category(%q, %v) = %v, want %v", c.locale, c.n, got, c.want)
		}
	}
}
