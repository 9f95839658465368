package interp

import (
	"testing"

	"github.com/triesap/mf2-i18n/internal/bytecode"
	"github.com/triesap/mf2-i18n/internal/core"
)

type stubBackend struct{}

func (stubBackend) Format(formatter string, v core.Value) (string, error) {
	switch formatter {
	case "number":
		return "num", nil
	case "identity":
		if v.Kind == core.KindStr {
			return v.Str, nil
		}
		return "id", nil
	default:
		return formatter, nil
	}
}

func (stubBackend) PluralCategory(locale string, ruleset core.PluralRuleset, n float64) core.PluralCategory {
	return core.PluralOther
}

func TestExecuteEmitTextAndStack(t *testing.T) {
	program := bytecode.NewProgram()
	hello := program.Strings.Push("Hello ")
	nameArg := program.PushArgName("name")
	program.Opcodes = []bytecode.Opcode{
		{Kind: bytecode.OpEmitText, SIdx: hello},
		{Kind: bytecode.OpPushArg, AIdx: nameArg},
		{Kind: bytecode.OpEmitStack},
		{Kind: bytecode.OpEnd},
	}

	backend := backendEchoIdentity{}
	out, err := Execute(program, core.ArgBag{"name": core.Str("Nova")}, "en", backend)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "Hello Nova" {
		t.Errorf("out = %q, want %q", out, "Hello Nova")
	}
}

type backendEchoIdentity struct{}

func (backendEchoIdentity) Format(formatter string, v core.Value) (string, error) {
	if v.Kind == core.KindStr {
		return v.Str, nil
	}
	return v.String(), nil
}

func (backendEchoIdentity) PluralCategory(locale string, ruleset core.PluralRuleset, n float64) core.PluralCategory {
	return core.PluralOther
}

func TestExecuteCallFmt(t *testing.T) {
	program := bytecode.NewProgram()
	program.Numbers = []float64{3.5}
	program.Opcodes = []bytecode.Opcode{
		{Kind: bytecode.OpPushNum, NIdx: 0},
		{Kind: bytecode.OpCallFmt, FID: bytecode.FormatterNumber},
		{Kind: bytecode.OpEmitStack},
		{Kind: bytecode.OpEnd},
	}

	out, err := Execute(program, core.ArgBag{}, "en", stubBackend{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "num" {
		t.Errorf("out = %q, want %q", out, "num")
	}
}

func TestExecuteSelectBranch(t *testing.T) {
	program := bytecode.NewProgram()
	keyArg := program.PushArgName("key")
	keyIdx := program.Strings.Push("x")
	fooIdx := program.Strings.Push("foo")
	barIdx := program.Strings.Push("bar")
	program.CaseTables = []bytecode.CaseTable{{
		Entries: []bytecode.CaseEntry{
			{Key: bytecode.CaseKey{Kind: bytecode.CaseKeyString, SIdx: keyIdx}, Target: 1},
			{Key: bytecode.CaseKey{Kind: bytecode.CaseKeyOther}, Target: 3},
		},
	}}
	program.Opcodes = []bytecode.Opcode{
		{Kind: bytecode.OpSelect, AIdx: keyArg, Table: 0},
		{Kind: bytecode.OpEmitText, SIdx: fooIdx},
		{Kind: bytecode.OpJump, Rel: 2},
		{Kind: bytecode.OpEmitText, SIdx: barIdx},
		{Kind: bytecode.OpEnd},
	}

	out, err := Execute(program, core.ArgBag{"key": core.Str("x")}, "en", stubBackend{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "foo" {
		t.Errorf("out = %q, want %q", out, "foo")
	}
}

func TestExecutePluralBranch(t *testing.T) {
	program := bytecode.NewProgram()
	countArg := program.PushArgName("count")
	oneIdx := program.Strings.Push("one")
	otherIdx := program.Strings.Push("other")
	program.CaseTables = []bytecode.CaseTable{{
		Entries: []bytecode.CaseEntry{
			{Key: bytecode.CaseKey{Kind: bytecode.CaseKeyExact, Exact: 1}, Target: 1},
			{Key: bytecode.CaseKey{Kind: bytecode.CaseKeyOther}, Target: 3},
		},
	}}
	program.Opcodes = []bytecode.Opcode{
		{Kind: bytecode.OpSelectPlural, AIdx: countArg, Ruleset: bytecode.Cardinal, Table: 0},
		{Kind: bytecode.OpEmitText, SIdx: oneIdx},
		{Kind: bytecode.OpJump, Rel: 2},
		{Kind: bytecode.OpEmitText, SIdx: otherIdx},
		{Kind: bytecode.OpEnd},
	}

	out, err := Execute(program, core.ArgBag{"count": core.Num(2)}, "en", stubBackend{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "other" {
		t.Errorf("out = %q, want %q", out, "other")
	}
}

func TestExecuteCloningAnyIsUnsupported(t *testing.T) {
	program := bytecode.NewProgram()
	arg := program.PushArgName("v")
	program.Opcodes = []bytecode.Opcode{
		{Kind: bytecode.OpPushArg, AIdx: arg},
		{Kind: bytecode.OpEnd},
	}
	_, err := Execute(program, core.ArgBag{"v": core.Any(42)}, "en", stubBackend{})
	if err == nil {
		t.Fatal("expected error cloning an Any value")
	}
}

func TestExecuteMissingArgument(t *testing.T) {
	program := bytecode.NewProgram()
	arg := program.PushArgName("v")
	program.Opcodes = []bytecode.Opcode{
		{Kind: bytecode.OpPushArg, AIdx: arg},
		{Kind: bytecode.OpEnd},
	}
	_, err := Execute(program, core.ArgBag{}, "en", stubBackend{})
	if err == nil {
		t.Fatal("expected error for missing argument")
	}
}
