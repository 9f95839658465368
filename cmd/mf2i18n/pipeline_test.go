package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/triesap/mf2-i18n/internal/manifest"
	"golang.org/x/crypto/ed25519"
)

// TestPipelineEndToEnd drives extract, compile, pack, manifest, sign,
// and runtime-check through one small two-locale project, mirroring
// what a real build pipeline does command-by-command.
func TestPipelineEndToEnd(t *testing.T) {
	root := t.TempDir()

	srcDir := filepath.Join(root, "src")
	mustMkdir(t, srcDir)
	mustWrite(t, filepath.Join(srcDir, "app.go"), `
package app

func greet() {
	t!("greeting.hello", name: string)
	t!("greeting.bye")
}
`)

	saltPath := filepath.Join(root, "salt.txt")
	mustWrite(t, saltPath, "test-salt-value")

	outDir := filepath.Join(root, "i18n")
	if err := runExtract([]string{
		"-root", srcDir,
		"-project", "demo",
		"-default-locale", "en",
		"-generated-at", "2026-01-01T00:00:00Z",
		"-salt-file", saltPath,
		"-out", outDir,
	}); err != nil {
		t.Fatalf("runExtract: %v", err)
	}

	catalogPath := filepath.Join(outDir, "catalog.json")
	idMapPath := filepath.Join(outDir, "id_map.json")
	idMapHashPath := filepath.Join(outDir, "id_map.hash")
	for _, p := range []string{catalogPath, idMapPath, idMapHashPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}

	localesRoot := filepath.Join(root, "locales")
	mustMkdir(t, filepath.Join(localesRoot, "en"))
	mustWrite(t, filepath.Join(localesRoot, "en", "app.mf2"), "greeting.hello = Hello, { $name }!\n\ngreeting.bye = Goodbye.\n")
	mustMkdir(t, filepath.Join(localesRoot, "fr"))
	mustWrite(t, filepath.Join(localesRoot, "fr", "app.mf2"), "greeting.hello = Bonjour, { $name } !\n\ngreeting.bye = Au revoir.\n")

	if err := runCompile([]string{
		"-catalog", catalogPath,
		"-locale-dir", filepath.Join(localesRoot, "en"),
		"-locale", "en",
	}); err != nil {
		t.Fatalf("runCompile: %v", err)
	}

	packsDir := filepath.Join(root, "packs")
	if err := runPack([]string{
		"-catalog", catalogPath,
		"-id-map-hash", idMapHashPath,
		"-locales-root", localesRoot,
		"-out", packsDir,
	}); err != nil {
		t.Fatalf("runPack: %v", err)
	}
	for _, locale := range []string{"en", "fr"} {
		if _, err := os.Stat(filepath.Join(packsDir, locale+".mf2pack")); err != nil {
			t.Fatalf("expected pack for %s: %v", locale, err)
		}
	}

	manifestPath := filepath.Join(root, "manifest.json")
	if err := runManifest([]string{
		"-packs-dir", packsDir,
		"-id-map-hash", idMapHashPath,
		"-release-id", "release-1",
		"-generated-at", "2026-01-01T00:00:00Z",
		"-default-locale", "en",
		"-url-prefix", "",
		"-out", manifestPath,
	}); err != nil {
		t.Fatalf("runManifest: %v", err)
	}

	var seed [ed25519.SeedSize]byte
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	key := ed25519.NewKeyFromSeed(seed[:])
	keyPath := filepath.Join(root, "signing.key")
	mustWrite(t, keyPath, "hex:"+hexEncode(seed[:]))

	if err := runSign([]string{
		"-manifest", manifestPath,
		"-key-file", keyPath,
		"-key-id", "test-key",
	}); err != nil {
		t.Fatalf("runSign: %v", err)
	}

	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("reading signed manifest: %v", err)
	}
	var m manifest.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("parsing signed manifest: %v", err)
	}
	if m.Signing == nil {
		t.Fatal("expected signing block after sign")
	}
	if err := manifest.Verify(&m, "test-key", key.Public().(ed25519.PublicKey)); err != nil {
		t.Fatalf("signature did not verify: %v", err)
	}

	// runManifest wrote pack urls as bare filenames ("en.mf2pack", from
	// the empty -url-prefix); those resolve relative to the manifest's
	// own directory, matching runtime.LoadFromPaths's local-directory
	// convention. Copy the manifest, the id map and the packs into one
	// directory and point runtime-check at it.
	manifestDir := filepath.Join(root, "release")
	mustMkdir(t, manifestDir)
	copyFile(t, manifestPath, filepath.Join(manifestDir, "manifest.json"))
	copyFile(t, idMapPath, filepath.Join(manifestDir, "id_map.json"))
	for _, locale := range []string{"en", "fr"} {
		copyFile(t, filepath.Join(packsDir, locale+".mf2pack"), filepath.Join(manifestDir, locale+".mf2pack"))
	}

	if err := runRuntimeCheck([]string{
		"-manifest", filepath.Join(manifestDir, "manifest.json"),
		"-id-map", filepath.Join(manifestDir, "id_map.json"),
		"-locale", "fr",
		"-key", "greeting.bye",
	}); err != nil {
		t.Fatalf("runRuntimeCheck: %v", err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("reading %s: %v", src, err)
	}
	mustWrite(t, dst, string(data))
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0x0f]
	}
	return string(out)
}
