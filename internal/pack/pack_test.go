package pack

import (
	"testing"

	"github.com/triesap/mf2-i18n/internal/bytecode"
	"github.com/triesap/mf2-i18n/internal/core"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	program := bytecode.NewProgram()
	sidx := program.Strings.Push("hello")
	program.Opcodes = append(program.Opcodes, bytecode.Opcode{Kind: bytecode.OpEmitText, SIdx: sidx})
	program.Opcodes = append(program.Opcodes, bytecode.Opcode{Kind: bytecode.OpEnd})

	idMapHash := [32]byte{}
	for i := range idMapHash {
		idMapHash[i] = 7
	}

	data := Encode(BuildInput{
		Kind:      KindBase,
		IDMapHash: idMapHash,
		LocaleTag: "en",
		Messages: map[core.MessageId]*bytecode.Program{
			core.NewMessageId(1): program,
		},
	})

	catalog, err := Decode(data, idMapHash)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := catalog.Lookup(core.NewMessageId(1))
	if !ok {
		t.Fatal("expected message 1 to be present")
	}
	if len(got.Opcodes) != 2 {
		t.Fatalf("len(opcodes) = %d, want 2", len(got.Opcodes))
	}
	found := false
	for i := 0; i < got.Strings.Len(); i++ {
		if v, _ := got.Strings.Get(uint32(i)); v == "hello" {
			found = true
		}
	}
	if !found {
		t.Error("expected interned string \"hello\" to survive round trip")
	}
}

func TestDecodeRejectsIDMapHashMismatch(t *testing.T) {
	program := bytecode.NewProgram()
	program.Opcodes = append(program.Opcodes, bytecode.Opcode{Kind: bytecode.OpEnd})
	data := Encode(BuildInput{
		Kind:      KindBase,
		IDMapHash: [32]byte{1},
		LocaleTag: "en",
		Messages:  map[core.MessageId]*bytecode.Program{core.NewMessageId(0): program},
	})
	if _, err := Decode(data, [32]byte{2}); err == nil {
		t.Error("expected error for id map hash mismatch")
	}
}

func TestDecodeRejectsMagicMismatch(t *testing.T) {
	program := bytecode.NewProgram()
	program.Opcodes = append(program.Opcodes, bytecode.Opcode{Kind: bytecode.OpEnd})
	data := Encode(BuildInput{
		Kind:      KindBase,
		IDMapHash: [32]byte{},
		LocaleTag: "en",
		Messages:  map[core.MessageId]*bytecode.Program{core.NewMessageId(0): program},
	})
	data[0] = 'X'
	if _, _, err := ParseHeader(data); err == nil {
		t.Error("expected error for magic mismatch")
	}
}

func TestEncodeOverlayUsesSparseIndex(t *testing.T) {
	program := bytecode.NewProgram()
	program.Opcodes = append(program.Opcodes, bytecode.Opcode{Kind: bytecode.OpEnd})
	idMapHash := [32]byte{9}
	data := Encode(BuildInput{
		Kind:      KindOverlay,
		IDMapHash: idMapHash,
		LocaleTag: "fr",
		ParentTag: "en",
		Messages:  map[core.MessageId]*bytecode.Program{core.NewMessageId(1000): program},
	})
	catalog, err := Decode(data, idMapHash)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !catalog.Header().HasParent() {
		t.Error("expected parent tag to be present")
	}
	if _, ok := catalog.Lookup(core.NewMessageId(1000)); !ok {
		t.Fatal("expected message 1000 to be present via sparse index")
	}
}
