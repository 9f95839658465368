package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/triesap/mf2-i18n/internal/manifest"
)

// runManifest scans a directory of .mf2pack files built by `pack` and
// assembles a manifest.json describing them, their hashes, and (if a
// micro-locale registry is given) their overlay parents.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/command_build.rs
// (manifest assembly step) and manifest.rs.
func runManifest(args []string) error {
	fs := flag.NewFlagSet("manifest", flag.ContinueOnError)
	packsDir := fs.String("packs-dir", "", "directory of .mf2pack files written by pack")
	idMapHashPath := fs.String("id-map-hash", "", "path to id_map.hash")
	releaseID := fs.String("release-id", "", "release identifier recorded in the manifest")
	generatedAt := fs.String("generated-at", "", "RFC3339 timestamp recorded in the manifest")
	defaultLocale := fs.String("default-locale", "en", "default locale recorded in the manifest")
	microLocalesPath := fs.String("micro-locales", "", "optional micro-locale registry file")
	urlPrefix := fs.String("url-prefix", "", "URL prefix each pack is served under, e.g. https://cdn/example/")
	out := fs.String("out", "i18n/manifest.json", "output path for manifest.json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *packsDir == "" || *idMapHashPath == "" || *releaseID == "" || *generatedAt == "" {
		return fmt.Errorf("--packs-dir, --id-map-hash, --release-id, and --generated-at are required")
	}

	idMapHash, err := readIdMapHash(*idMapHashPath)
	if err != nil {
		return err
	}

	microLocales := map[string]string{}
	if *microLocalesPath != "" {
		raw, err := os.ReadFile(*microLocalesPath)
		if err != nil {
			return fmt.Errorf("reading micro-locale registry: %w", err)
		}
		microLocales, err = manifest.ParseMicroLocales(string(raw))
		if err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(*packsDir)
	if err != nil {
		return fmt.Errorf("reading packs directory: %w", err)
	}

	packs := make(map[string]manifest.PackEntry, len(entries))
	var locales []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mf2pack") {
			continue
		}
		locale := strings.TrimSuffix(e.Name(), ".mf2pack")
		data, err := os.ReadFile(filepath.Join(*packsDir, e.Name()))
		if err != nil {
			return err
		}

		kind := "base"
		var parent *string
		if p, ok := microLocales[locale]; ok {
			kind = "overlay"
			parent = &p
		}

		packs[locale] = manifest.PackEntry{
			Kind:            kind,
			URL:             *urlPrefix + e.Name(),
			Hash:            manifest.SHA256Hex(data),
			Size:            uint64(len(data)),
			ContentEncoding: "identity",
			PackSchema:      1,
			Parent:          parent,
		}
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	m := &manifest.Manifest{
		Schema:           1,
		ReleaseID:        *releaseID,
		GeneratedAt:      *generatedAt,
		DefaultLocale:    *defaultLocale,
		SupportedLocales: locales,
		IDMapHash:        "sha256:" + hex.EncodeToString(idMapHash[:]),
		MF2Packs:         packs,
		MicroLocales:     microLocales,
	}

	bytes, err := m.ToCanonicalBytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(*out, bytes, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d locales)\n", *out, len(locales))
	return nil
}
