package mf2

import "github.com/triesap/mf2-i18n/internal/core"

// MessageSpec names the key and declared argument shapes a message must
// validate against.
type MessageSpec struct {
	Key  string
	Args []core.ArgSpec
}

func (s MessageSpec) find(name string) (core.ArgSpec, bool) {
	for _, a := range s.Args {
		if a.Name == name {
			return a, true
		}
	}
	return core.ArgSpec{}, false
}

// ValidateMessage checks a parsed Message against a MessageSpec, producing
// MF2E010/020/021/030 diagnostics per §4.2.
func ValidateMessage(message Message, spec MessageSpec) []*core.Diagnostic {
	var diags []*core.Diagnostic
	validateSegments(message.Segments, spec, &diags)
	return diags
}

func validateSegments(segments []Segment, spec MessageSpec, diags *[]*core.Diagnostic) {
	for _, seg := range segments {
		if seg.IsText {
			continue
		}
		switch seg.Expr.Kind {
		case ExprVariable:
			validateVar(seg.Expr, spec, diags)
		case ExprSelect:
			validateSelect(seg.Expr, spec, diags)
		}
	}
}

func validateVar(expr Expr, spec MessageSpec, diags *[]*core.Diagnostic) {
	arg, ok := spec.find(expr.Name)
	if !ok {
		*diags = append(*diags, diag("MF2E020", "unknown variable", spec.Key, expr.Span))
		return
	}
	if expr.Formatter == "" {
		return
	}
	if !isKnownFormatter(expr.Formatter) {
		*diags = append(*diags, diag("MF2E030", "unknown formatter", spec.Key, expr.Span))
		return
	}
	if !formatterAcceptsArg(expr.Formatter, arg.Type) {
		*diags = append(*diags, diag("MF2E021", "variable type mismatch", spec.Key, expr.Span))
	}
}

func validateSelect(expr Expr, spec MessageSpec, diags *[]*core.Diagnostic) {
	hasOther := false
	for _, c := range expr.Cases {
		if c.Key.Kind == CaseOther || c.IsDefault {
			hasOther = true
			break
		}
	}
	if !hasOther {
		*diags = append(*diags, diag("MF2E010", "missing required other case", spec.Key, expr.Span))
	}

	arg, ok := spec.find(expr.Selector)
	if !ok {
		*diags = append(*diags, diag("MF2E020", "unknown variable", spec.Key, expr.Span))
	} else {
		required := core.ArgString
		if expr.SelectKind == SelectPlural {
			required = core.ArgNumber
		}
		if arg.Type != core.ArgAny && arg.Type != required {
			*diags = append(*diags, diag("MF2E021", "variable type mismatch", spec.Key, expr.Span))
		}
	}

	for _, c := range expr.Cases {
		validateSegments(c.Value.Segments, spec, diags)
	}
}

func isKnownFormatter(name string) bool {
	switch name {
	case "number", "date", "time", "datetime", "unit", "currency", "identity":
		return true
	default:
		return false
	}
}

func formatterAcceptsArg(formatter string, t core.ArgType) bool {
	switch formatter {
	case "number":
		return t == core.ArgNumber || t == core.ArgAny
	case "date", "time", "datetime":
		return t == core.ArgDateTime || t == core.ArgAny
	case "unit":
		return t == core.ArgUnit || t == core.ArgAny
	case "currency":
		return t == core.ArgCurrency || t == core.ArgAny
	case "identity":
		return true
	default:
		return false
	}
}

func diag(code, message, file string, span Span) *core.Diagnostic {
	return &core.Diagnostic{Code: code, Message: message, File: file, Line: span.Line, Column: span.Column}
}
