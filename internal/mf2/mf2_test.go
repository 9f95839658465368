package mf2

import (
	"testing"

	"github.com/triesap/mf2-i18n/internal/core"
)

func TestLexAllTextAndExpr(t *testing.T) {
	tokens, err := LexAll("Hello { $name }")
	if err != nil {
		t.Fatalf("LexAll: %v", err)
	}
	if len(tokens) != 5 {
		t.Fatalf("len(tokens) = %d, want 5", len(tokens))
	}
	if tokens[0].Kind != TokText {
		t.Errorf("tokens[0].Kind = %v, want TokText", tokens[0].Kind)
	}
	if tokens[1].Kind != TokLBrace || tokens[2].Kind != TokDollar {
		t.Errorf("unexpected token sequence: %+v", tokens[1:3])
	}
	if tokens[3].Kind != TokIdent || tokens[3].Value != "name" {
		t.Errorf("tokens[3] = %+v, want ident(name)", tokens[3])
	}
	if tokens[4].Kind != TokRBrace {
		t.Errorf("tokens[4].Kind = %v, want TokRBrace", tokens[4].Kind)
	}
}

func TestLexAllSelectSyntax(t *testing.T) {
	tokens, err := LexAll("{ $count -> [=1]{one} *[other]{many} }")
	if err != nil {
		t.Fatalf("LexAll: %v", err)
	}
	var sawArrow, sawStar, sawBracket, sawEquals bool
	for _, tok := range tokens {
		switch tok.Kind {
		case TokArrow:
			sawArrow = true
		case TokStar:
			sawStar = true
		case TokLBracket:
			sawBracket = true
		case TokEquals:
			sawEquals = true
		}
	}
	if !sawArrow || !sawStar || !sawBracket || !sawEquals {
		t.Errorf("missing expected tokens: arrow=%v star=%v bracket=%v equals=%v", sawArrow, sawStar, sawBracket, sawEquals)
	}
}

func TestLexAllUnclosedBrace(t *testing.T) {
	if _, err := LexAll("Hello { $name"); err == nil {
		t.Error("expected error for unclosed brace")
	}
}

func TestParseVariableExpression(t *testing.T) {
	msg, err := ParseMessage("Hello { $name }")
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if len(msg.Segments) != 2 {
		t.Fatalf("len(segments) = %d, want 2", len(msg.Segments))
	}
	seg := msg.Segments[1]
	if seg.Expr.Kind != ExprVariable || seg.Expr.Name != "name" {
		t.Errorf("segment = %+v, want variable(name)", seg)
	}
}

func TestParseFormatterCall(t *testing.T) {
	msg, err := ParseMessage("{ $value :number }")
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	expr := msg.Segments[0].Expr
	if expr.Formatter != "number" {
		t.Errorf("Formatter = %q, want number", expr.Formatter)
	}
}

func TestParseSelectCases(t *testing.T) {
	msg, err := ParseMessage("{ $count -> [one] {1} *[other] {n} }")
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	expr := msg.Segments[0].Expr
	if expr.Kind != ExprSelect || expr.SelectKind != SelectPlain {
		t.Errorf("expr = %+v, want plain select", expr)
	}
	if len(expr.Cases) != 2 {
		t.Fatalf("len(cases) = %d, want 2", len(expr.Cases))
	}
	if expr.Cases[0].Key.Kind != CaseIdent {
		t.Errorf("cases[0].Key.Kind = %v, want CaseIdent", expr.Cases[0].Key.Kind)
	}
	if !expr.Cases[1].IsDefault {
		t.Error("cases[1] should be default")
	}
}

func TestParsePluralPromotionViaExactKey(t *testing.T) {
	msg, err := ParseMessage("{ $count -> [=1]{one} *[other]{many} }")
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	expr := msg.Segments[0].Expr
	if expr.SelectKind != SelectPlural {
		t.Errorf("SelectKind = %v, want SelectPlural (promoted by Exact key)", expr.SelectKind)
	}
}

func TestValidateUnknownVariable(t *testing.T) {
	msg, err := ParseMessage("{ $name }")
	if err != nil {
		t.Fatal(err)
	}
	diags := ValidateMessage(msg, MessageSpec{Key: "test"})
	if !hasCode(diags, "MF2E020") {
		t.Error("expected MF2E020 for unknown variable")
	}
}

func TestValidateMissingOtherCase(t *testing.T) {
	msg, err := ParseMessage("{ $count -> [one] {1} }")
	if err != nil {
		t.Fatal(err)
	}
	spec := MessageSpec{Key: "test", Args: []core.ArgSpec{{Name: "count", Type: core.ArgNumber}}}
	diags := ValidateMessage(msg, spec)
	if !hasCode(diags, "MF2E010") {
		t.Error("expected MF2E010 for missing other case")
	}
}

func TestValidateUnknownFormatter(t *testing.T) {
	msg, err := ParseMessage("{ $value :weird }")
	if err != nil {
		t.Fatal(err)
	}
	spec := MessageSpec{Key: "test", Args: []core.ArgSpec{{Name: "value", Type: core.ArgString}}}
	diags := ValidateMessage(msg, spec)
	if !hasCode(diags, "MF2E030") {
		t.Error("expected MF2E030 for unknown formatter")
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	msg, err := ParseMessage("{ $value :number }")
	if err != nil {
		t.Fatal(err)
	}
	spec := MessageSpec{Key: "test", Args: []core.ArgSpec{{Name: "value", Type: core.ArgString}}}
	diags := ValidateMessage(msg, spec)
	if !hasCode(diags, "MF2E021") {
		t.Error("expected MF2E021 for type mismatch")
	}
}

func TestValidateAnyMatchesEverything(t *testing.T) {
	msg, err := ParseMessage("{ $value :number }")
	if err != nil {
		t.Fatal(err)
	}
	spec := MessageSpec{Key: "test", Args: []core.ArgSpec{{Name: "value", Type: core.ArgAny}}}
	diags := ValidateMessage(msg, spec)
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics with Any arg type, got %v", diags)
	}
}

func hasCode(diags []*core.Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}
