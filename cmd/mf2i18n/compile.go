package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/triesap/mf2-i18n/internal/bytecode"
	"github.com/triesap/mf2-i18n/internal/mf2"
)

// runCompile parses and compiles every .mf2 source file in one locale
// directory, reporting any catalog keys the locale fails to cover and
// any locale keys the catalog does not recognize. It writes nothing;
// `pack` repeats this work per locale on the way to an artifact.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/command_validate.rs,
// locale_sources.rs.
func runCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	catalogPath := fs.String("catalog", "", "path to catalog.json")
	localeDir := fs.String("locale-dir", "", "directory of .mf2 source files for one locale")
	locale := fs.String("locale", "", "locale tag the directory covers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *catalogPath == "" || *localeDir == "" || *locale == "" {
		return fmt.Errorf("--catalog, --locale-dir, and --locale are required")
	}

	catalog, err := readCatalog(*catalogPath)
	if err != nil {
		return err
	}

	entries, err := loadLocaleEntries(*localeDir)
	if err != nil {
		return err
	}

	catalogKeys := make(map[string]bool, len(catalog.Messages))
	for _, m := range catalog.Messages {
		catalogKeys[m.Key] = true
	}

	var unknown, missing []string
	for key, entry := range entries {
		if !catalogKeys[key] {
			unknown = append(unknown, key)
			continue
		}
		msg, err := mf2.ParseMessage(entry.Value)
		if err != nil {
			return fmt.Errorf("%s: parsing %q: %w", *locale, key, err)
		}
		_ = bytecode.Compile(msg)
	}
	for _, m := range catalog.Messages {
		if _, ok := entries[m.Key]; !ok {
			missing = append(missing, m.Key)
		}
	}

	sort.Strings(unknown)
	sort.Strings(missing)
	for _, key := range unknown {
		fmt.Printf("%s: unknown key %q (not in catalog)\n", *locale, key)
	}
	for _, key := range missing {
		fmt.Printf("%s: missing translation for %q\n", *locale, key)
	}
	fmt.Printf("%s: compiled %d messages (%d missing, %d unknown)\n", *locale, len(entries)-len(unknown), len(missing), len(unknown))
	return nil
}

type localeEntry struct {
	Value string
	File  string
	Line  uint32
}

// loadLocaleEntries reads every .mf2 file directly inside dir (no
// recursion, matching locale_sources.rs's one-directory-per-locale
// layout) and folds their key/value entries together, rejecting
// duplicate keys across files.
func loadLocaleEntries(dir string) (map[string]localeEntry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading locale directory: %w", err)
	}
	out := make(map[string]localeEntry)
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".mf2" {
			continue
		}
		path := filepath.Join(dir, f.Name())
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		parsed, err := mf2.ParseSource(string(contents))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, e := range parsed {
			if existing, ok := out[e.Key]; ok {
				return nil, fmt.Errorf("duplicate key %q in %s (first seen in %s)", e.Key, path, existing.File)
			}
			out[e.Key] = localeEntry{Value: e.Value, File: path, Line: e.Line}
		}
	}
	return out, nil
}
