package format

import (
	"strings"
	"sync"

	"github.com/triesap/mf2-i18n/internal/core"
)

// PluralRule classifies an integral count into a CLDR plural category.
type PluralRule func(n int) core.PluralCategory

var (
	pluralRules   = make(map[string]PluralRule)
	pluralRulesMu sync.RWMutex
)

func init() {
	registerBuiltinPluralRules()
}

// RegisterPluralRule installs a custom rule for a language tag, replacing
// any builtin rule for the same key.
func RegisterPluralRule(lang string, rule PluralRule) {
	pluralRulesMu.Lock()
	defer pluralRulesMu.Unlock()
	pluralRules[strings.ToLower(lang)] = rule
}

// GetPluralRule returns the rule registered for locale, falling back to
// its base language, then to a rule that always returns Other.
func GetPluralRule(locale string) PluralRule {
	pluralRulesMu.RLock()
	defer pluralRulesMu.RUnlock()

	locale = strings.ToLower(locale)
	if rule, ok := pluralRules[locale]; ok {
		return rule
	}
	if idx := strings.Index(locale, "-"); idx != -1 {
		if rule, ok := pluralRules[locale[:idx]]; ok {
			return rule
		}
	}
	return pluralRuleOther
}

// Category classifies n for locale. Non-integral values always fall
// back to Other: the rules below are CLDR integer approximations and do
// not model fractional-digit plural forms.
func Category(locale string, n float64) core.PluralCategory {
	whole := int(n)
	if float64(whole) != n || n < 0 {
		return core.PluralOther
	}
	return GetPluralRule(locale)(whole)
}

func registerBuiltinPluralRules() {
	for _, lang := range []string{"en", "de", "es", "it", "pt", "nl", "sv", "no", "da", "fi", "el", "he", "hu", "tr"} {
		pluralRules[lang] = pluralRuleOneOther
	}

	pluralRules["fr"] = pluralRuleFrench
	pluralRules["ru"] = pluralRuleSlavic
	pluralRules["uk"] = pluralRuleSlavic
	pluralRules["be"] = pluralRuleSlavic
	pluralRules["sr"] = pluralRuleSlavic
	pluralRules["hr"] = pluralRuleSlavic
	pluralRules["bs"] = pluralRuleSlavic
	pluralRules["pl"] = pluralRulePolish
	pluralRules["cs"] = pluralRuleCzechSlovak
	pluralRules["sk"] = pluralRuleCzechSlovak
	pluralRules["ar"] = pluralRuleArabic

	for _, lang := range []string{"zh", "ja", "ko", "vi", "th", "id", "ms"} {
		pluralRules[lang] = pluralRuleOther
	}

	pluralRules["cy"] = pluralRuleWelsh
	pluralRules["ga"] = pluralRuleIrish
	pluralRules["sl"] = pluralRuleSlovenian
	pluralRules["lt"] = pluralRuleLithuanian
	pluralRules["lv"] = pluralRuleLatvian
	pluralRules["ro"] = pluralRuleRomanian
}

func pluralRuleOther(n int) core.PluralCategory { return core.PluralOther }

func pluralRuleOneOther(n int) core.PluralCategory {
	if n == 1 {
		return core.PluralOne
	}
	return core.PluralOther
}

func pluralRuleFrench(n int) core.PluralCategory {
	if n == 0 || n == 1 {
		return core.PluralOne
	}
	return core.PluralOther
}

func pluralRuleSlavic(n int) core.PluralCategory {
	mod10 := n % 10
	mod100 := n % 100

	if mod10 == 1 && mod100 != 11 {
		return core.PluralOne
	}
	if mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14) {
		return core.PluralFew
	}
	if mod10 == 0 || (mod10 >= 5 && mod10 <= 9) || (mod100 >= 11 && mod100 <= 14) {
		return core.PluralMany
	}
	return core.PluralOther
}

func pluralRulePolish(n int) core.PluralCategory {
	if n == 1 {
		return core.PluralOne
	}

	mod10 := n % 10
	mod100 := n % 100

	if mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14) {
		return core.PluralFew
	}
	if (mod10 == 0 || mod10 == 1 || (mod10 >= 5 && mod10 <= 9)) || (mod100 >= 12 && mod100 <= 14) {
		return core.PluralMany
	}
	return core.PluralOther
}

func pluralRuleCzechSlovak(n int) core.PluralCategory {
	if n == 1 {
		return core.PluralOne
	}
	if n >= 2 && n <= 4 {
		return core.PluralFew
	}
	return core.PluralOther
}

func pluralRuleArabic(n int) core.PluralCategory {
	if n == 0 {
		return core.PluralZero
	}
	if n == 1 {
		return core.PluralOne
	}
	if n == 2 {
		return core.PluralTwo
	}
	mod100 := n % 100
	if mod100 >= 3 && mod100 <= 10 {
		return core.PluralFew
	}
	if mod100 >= 11 && mod100 <= 99 {
		return core.PluralMany
	}
	return core.PluralOther
}

func pluralRuleWelsh(n int) core.PluralCategory {
	switch n {
	case 0:
		return core.PluralZero
	case 1:
		return core.PluralOne
	case 2:
		return core.PluralTwo
	case 3:
		return core.PluralFew
	case 6:
		return core.PluralMany
	default:
		return core.PluralOther
	}
}

func pluralRuleIrish(n int) core.PluralCategory {
	if n == 1 {
		return core.PluralOne
	}
	if n == 2 {
		return core.PluralTwo
	}
	if n >= 3 && n <= 6 {
		return core.PluralFew
	}
	if n >= 7 && n <= 10 {
		return core.PluralMany
	}
	return core.PluralOther
}

func pluralRuleSlovenian(n int) core.PluralCategory {
	mod100 := n % 100
	if mod100 == 1 {
		return core.PluralOne
	}
	if mod100 == 2 {
		return core.PluralTwo
	}
	if mod100 == 3 || mod100 == 4 {
		return core.PluralFew
	}
	return core.PluralOther
}

func pluralRuleLithuanian(n int) core.PluralCategory {
	mod10 := n % 10
	mod100 := n % 100

	if mod10 == 1 && (mod100 < 11 || mod100 > 19) {
		return core.PluralOne
	}
	if mod10 >= 2 && mod10 <= 9 && (mod100 < 11 || mod100 > 19) {
		return core.PluralFew
	}
	return core.PluralOther
}

func pluralRuleLatvian(n int) core.PluralCategory {
	if n == 0 {
		return core.PluralZero
	}
	if n%10 == 1 && n%100 != 11 {
		return core.PluralOne
	}
	return core.PluralOther
}

func pluralRuleRomanian(n int) core.PluralCategory {
	if n == 1 {
		return core.PluralOne
	}
	mod100 := n % 100
	if n == 0 || (mod100 >= 1 && mod100 <= 19) {
		return core.PluralFew
	}
	return core.PluralOther
}
