package idmap

import (
	"errors"
	"testing"

	"github.com/triesap/mf2-i18n/internal/core"
)

func TestDeriveMessageIdDeterministic(t *testing.T) {
	salt := []byte("project-salt")
	a := DeriveMessageId("home.title", salt)
	b := DeriveMessageId("home.title", salt)
	if a != b {
		t.Errorf("derive not deterministic: %v != %v", a, b)
	}
}

func TestBuildIdMapAndHashStably(t *testing.T) {
	salt := []byte("project-salt")
	m, err := Build([]string{"b", "a"}, salt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := m.Get("a"); !ok {
		t.Fatal("expected key \"a\" present")
	}
	hashA := m.Hash()
	hashB := m.Hash()
	if hashA != hashB {
		t.Error("hash not stable across calls")
	}
}

func TestInsertDetectsCollision(t *testing.T) {
	m := New()
	if err := m.Insert("home.title", core.NewMessageId(7)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	err := m.Insert("home.subtitle", core.NewMessageId(7))
	if err == nil {
		t.Fatal("expected collision error")
	}
	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected *CollisionError, got %T", err)
	}
	if !errors.Is(err, core.ErrInput) {
		t.Error("expected error to wrap core.ErrInput")
	}
}

func TestLoadJSONRoundTrips(t *testing.T) {
	m, err := Build([]string{"home.title"}, []byte("project-salt"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	id, _ := m.Get("home.title")

	data := []byte(`{"home.title": ` + id.String() + `}`)
	loaded, err := LoadJSON(data)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	got, ok := loaded.Get("home.title")
	if !ok || got != id {
		t.Errorf("loaded id = %v, ok=%v, want %v", got, ok, id)
	}
}

func TestHashOrderIndependent(t *testing.T) {
	salt := []byte("s")
	first, err := Build([]string{"a", "b", "c"}, salt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build([]string{"c", "b", "a"}, salt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if first.Hash() != second.Hash() {
		t.Error("hash depends on insertion order")
	}
}
