package bytecode

import (
	"testing"

	"github.com/triesap/mf2-i18n/internal/mf2"
)

func mustParse(t *testing.T, src string) mf2.Message {
	t.Helper()
	msg, err := mf2.ParseMessage(src)
	if err != nil {
		t.Fatalf("ParseMessage(%q): %v", src, err)
	}
	return msg
}

func TestCompileSimpleMessage(t *testing.T) {
	msg := mustParse(t, "Hello { $name }")
	prog := Compile(msg)
	if len(prog.Opcodes) == 0 {
		t.Fatal("expected non-empty opcodes")
	}
	if prog.Opcodes[len(prog.Opcodes)-1].Kind != OpEnd {
		t.Error("final opcode must be End")
	}
}

func TestCompileSelectMessage(t *testing.T) {
	msg := mustParse(t, "{ $count -> [one] {1} *[other] {n} }")
	prog := Compile(msg)
	if len(prog.CaseTables) != 1 {
		t.Fatalf("len(CaseTables) = %d, want 1", len(prog.CaseTables))
	}
	table := prog.CaseTables[0]
	hasOther := false
	for _, e := range table.Entries {
		if e.Key.Kind == CaseKeyOther {
			hasOther = true
		}
	}
	if !hasOther {
		t.Error("expected an Other entry in the case table")
	}
}

func TestCompileJumpTargetsAreValid(t *testing.T) {
	msg := mustParse(t, "{ $count -> [=1]{one} [=2]{two} *[other]{many} }")
	prog := Compile(msg)
	for i, op := range prog.Opcodes {
		if op.Kind != OpJump {
			continue
		}
		target := i + int(op.Rel)
		if target < 0 || target >= len(prog.Opcodes) {
			t.Errorf("Jump at %d has rel %d, target %d out of range [0,%d)", i, op.Rel, target, len(prog.Opcodes))
		}
	}
}

func TestCompilePromotesPluralOnExactKey(t *testing.T) {
	msg := mustParse(t, "{ $count -> [=1]{one} *[other]{many} }")
	prog := Compile(msg)
	found := false
	for _, op := range prog.Opcodes {
		if op.Kind == OpSelectPlural {
			found = true
		}
	}
	if !found {
		t.Error("expected SelectPlural opcode when a case uses an Exact key")
	}
}

func TestCompileArgIndicesAreStable(t *testing.T) {
	msg := mustParse(t, "{ $a } and { $b } and { $a }")
	prog := Compile(msg)
	if len(prog.ArgNames) != 2 {
		t.Fatalf("len(ArgNames) = %d, want 2 (a, b)", len(prog.ArgNames))
	}
	var aIdx, otherAIdx uint32
	count := 0
	for _, op := range prog.Opcodes {
		if op.Kind == OpPushArg {
			name, _ := prog.ArgName(op.AIdx)
			if name == "a" {
				if count == 0 {
					aIdx = op.AIdx
				} else {
					otherAIdx = op.AIdx
				}
				count++
			}
		}
	}
	if count != 2 || aIdx != otherAIdx {
		t.Errorf("expected both references to 'a' to share an arg index, got count=%d", count)
	}
}
