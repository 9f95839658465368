package extract

import (
	"errors"
	"testing"

	"github.com/triesap/mf2-i18n/internal/core"
)

func TestCollectorDeduplicatesIdenticalSpecs(t *testing.T) {
	c := NewCollector(nil)
	if err := c.ScanFile("a.go", `_ = t!("greeting", name: string)`); err != nil {
		t.Fatalf("ScanFile a: %v", err)
	}
	if err := c.ScanFile("b.go", `_ = t!("greeting", name: string)`); err != nil {
		t.Fatalf("ScanFile b: %v", err)
	}
	if len(c.Keys()) != 1 {
		t.Fatalf("got %d keys, want 1", len(c.Keys()))
	}
	if len(c.Refs("greeting")) != 2 {
		t.Fatalf("got %d refs, want 2", len(c.Refs("greeting")))
	}
}

func TestCollectorRejectsMismatchedSpecs(t *testing.T) {
	c := NewCollector(nil)
	if err := c.ScanFile("a.go", `_ = t!("greeting", name: string)`); err != nil {
		t.Fatalf("ScanFile a: %v", err)
	}
	err := c.ScanFile("b.go", `_ = t!("greeting", name: number)`)
	if err == nil {
		t.Fatal("expected arg-spec mismatch error")
	}
	var mismatch *ArgSpecMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *ArgSpecMismatchError, got %T", err)
	}
	if !errors.Is(err, core.ErrInput) {
		t.Error("expected error to wrap core.ErrInput")
	}
}

func TestCollectorBuildCatalogAssignsIds(t *testing.T) {
	c := NewCollector(nil)
	if err := c.ScanFile("a.go", `
		_ = t!("b.key")
		_ = t!("a.key", count: number)
	`); err != nil {
		t.Fatalf("ScanFile: %v", err)
	}
	catalog, ids, err := c.BuildCatalog("demo", "en", "2026-07-30T00:00:00Z", []byte("salt"))
	if err != nil {
		t.Fatalf("BuildCatalog: %v", err)
	}
	if len(catalog.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(catalog.Messages))
	}
	if catalog.Messages[0].Key != "a.key" {
		t.Errorf("expected sorted keys, got %q first", catalog.Messages[0].Key)
	}
	if _, ok := ids.Get("a.key"); !ok {
		t.Error("expected id assigned for a.key")
	}
}
