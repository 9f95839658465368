package core

// PluralCategory is a CLDR plural category as selected by a FormatBackend
// for SelectPlural's Category case-key fallback.
type PluralCategory uint8

const (
	PluralZero PluralCategory = iota
	PluralOne
	PluralTwo
	PluralFew
	PluralMany
	PluralOther
)

func (c PluralCategory) String() string {
	switch c {
	case PluralZero:
		return "zero"
	case PluralOne:
		return "one"
	case PluralTwo:
		return "two"
	case PluralFew:
		return "few"
	case PluralMany:
		return "many"
	default:
		return "other"
	}
}

// PluralRuleset selects which CLDR rule family a SelectPlural opcode
// consults. Only Cardinal has an execution path; Ordinal is declared for
// forward compatibility and is never produced by the compiler.
type PluralRuleset uint8

const (
	Cardinal PluralRuleset = iota
	Ordinal
)

// FormatBackend renders formatted values and classifies plural
// categories. It must be safe for concurrent use: the interpreter may be
// invoked from multiple goroutines against the same Runtime.
type FormatBackend interface {
	// Format renders v through the named formatter (e.g. "number",
	// "date", "time", "datetime", "unit", "currency", "identity") and
	// returns the string to push back onto the value stack.
	Format(formatter string, v Value) (string, error)

	// PluralCategory classifies n under the given ruleset for the
	// caller's negotiated locale. The bundled runtime.DefaultFormatBackend
	// applies approximated CLDR cardinal rules per language.
	PluralCategory(locale string, ruleset PluralRuleset, n float64) PluralCategory
}
