package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/idmap"
)

func TestWriteCatalogJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	catalog := &Catalog{
		Schema:        1,
		Project:       "demo",
		GeneratedAt:   "2026-02-01T00:00:00Z",
		DefaultLocale: "en",
		Messages: []CatalogMessage{{
			Key: "home.title",
			ID:  7,
			Args: []CatalogArg{{
				Name:     "name",
				Type:     core.ArgString,
				Required: true,
			}},
		}},
	}
	if err := WriteCatalog(path, catalog); err != nil {
		t.Fatalf("WriteCatalog: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(contents), `"schema"`) {
		t.Error("expected schema field in output")
	}
	if !strings.Contains(string(contents), `"string"`) {
		t.Error("expected arg type rendered as lowercase string")
	}
}

func TestWriteIdMapAndHash(t *testing.T) {
	dir := t.TempDir()
	salt := []byte("project-salt")
	m, err := idmap.Build([]string{"home.title"}, salt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	hash := m.Hash()

	idPath := filepath.Join(dir, "id_map.json")
	hashPath := filepath.Join(dir, "id_map_hash")
	if err := WriteIdMap(idPath, m); err != nil {
		t.Fatalf("WriteIdMap: %v", err)
	}
	if err := WriteIdMapHash(hashPath, hash); err != nil {
		t.Fatalf("WriteIdMapHash: %v", err)
	}

	hashContents, err := os.ReadFile(hashPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(hashContents), "sha256:") {
		t.Errorf("hash file = %q", hashContents)
	}

	expected := idmap.DeriveMessageId("home.title", salt)
	idContents, err := os.ReadFile(idPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(idContents), expected.String()) {
		t.Errorf("id map file missing derived id: %s", idContents)
	}
}
