package runtime

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/triesap/mf2-i18n/internal/bytecode"
	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/idmap"
	"github.com/triesap/mf2-i18n/internal/manifest"
	"github.com/triesap/mf2-i18n/internal/mf2"
	"github.com/triesap/mf2-i18n/internal/pack"
)

func TestRuntimeFormatsMessage(t *testing.T) {
	dir := t.TempDir()
	packsDir := filepath.Join(dir, "packs")
	if err := os.MkdirAll(packsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	ids, err := idmap.Build([]string{"home.title"}, []byte("salt"))
	if err != nil {
		t.Fatalf("Build id map: %v", err)
	}
	idMapHash := ids.Hash()

	msg, err := mf2.ParseMessage("Hi")
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	program := bytecode.Compile(msg)
	id, _ := ids.Get("home.title")

	packBytes := pack.Encode(pack.BuildInput{
		Kind:      pack.KindBase,
		IDMapHash: idMapHash,
		LocaleTag: "en",
		Messages:  map[core.MessageId]*bytecode.Program{id: program},
	})
	packPath := filepath.Join(packsDir, "en.mf2pack")
	if err := os.WriteFile(packPath, packBytes, 0o644); err != nil {
		t.Fatalf("WriteFile pack: %v", err)
	}

	m := &manifest.Manifest{
		Schema:           1,
		ReleaseID:        "r1",
		GeneratedAt:      "2026-02-01T00:00:00Z",
		DefaultLocale:    "en",
		SupportedLocales: []string{"en"},
		IDMapHash:        "sha256:" + hex.EncodeToString(idMapHash[:]),
		MF2Packs: map[string]manifest.PackEntry{
			"en": {
				Kind:            "base",
				URL:             "packs/en.mf2pack",
				Hash:            manifest.SHA256Hex(packBytes),
				Size:            uint64(len(packBytes)),
				ContentEncoding: "identity",
				PackSchema:      0,
			},
		},
	}
	manifestBytes, err := m.ToCanonicalBytes()
	if err != nil {
		t.Fatalf("ToCanonicalBytes: %v", err)
	}
	manifestPath := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(manifestPath, manifestBytes, 0o644); err != nil {
		t.Fatalf("WriteFile manifest: %v", err)
	}

	idMapPath := filepath.Join(dir, "id_map.json")
	idMapJSON := []byte(`{"home.title": ` + id.String() + `}`)
	if err := os.WriteFile(idMapPath, idMapJSON, 0o644); err != nil {
		t.Fatalf("WriteFile id map: %v", err)
	}

	rt, err := LoadFromPaths(manifestPath, idMapPath, nil)
	if err != nil {
		t.Fatalf("LoadFromPaths: %v", err)
	}

	out, err := rt.Format("en", "home.title", core.ArgBag{})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if out != "Hi" {
		t.Errorf("out = %q, want %q", out, "Hi")
	}
}

func TestRuntimeRejectsMismatchedIdMap(t *testing.T) {
	dir := t.TempDir()
	m := &manifest.Manifest{
		Schema:           1,
		DefaultLocale:    "en",
		SupportedLocales: []string{"en"},
		IDMapHash:        "sha256:" + strings.Repeat("0", 64),
		MF2Packs:         map[string]manifest.PackEntry{},
	}
	manifestBytes, _ := m.ToCanonicalBytes()
	manifestPath := filepath.Join(dir, "manifest.json")
	os.WriteFile(manifestPath, manifestBytes, 0o644)

	idMapPath := filepath.Join(dir, "id_map.json")
	os.WriteFile(idMapPath, []byte(`{"home.title": 5}`), 0o644)

	_, err := LoadFromPaths(manifestPath, idMapPath, nil)
	if err == nil {
		t.Fatal("expected id map hash mismatch error")
	}
}

