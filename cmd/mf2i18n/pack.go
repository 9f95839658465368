package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/triesap/mf2-i18n/internal/bytecode"
	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/manifest"
	"github.com/triesap/mf2-i18n/internal/mf2"
	"github.com/triesap/mf2-i18n/internal/pack"
)

// runPack compiles every locale directory under --locales-root (one
// subdirectory per locale tag) against a catalog and writes a
// .mf2pack file per locale under --out. A locale directory listed in
// --micro-locales is written as an overlay pack naming its parent and
// holding only the messages its own directory supplies. Only locales
// with a directory are packed; a micro-locale without one gets no pack.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/command_build.rs
// (per-locale compile+encode loop) and micro_locales.rs.
func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	catalogPath := fs.String("catalog", "", "path to catalog.json")
	idMapHashPath := fs.String("id-map-hash", "", "path to id_map.hash")
	localesRoot := fs.String("locales-root", "", "directory containing one subdirectory per locale")
	microLocalesPath := fs.String("micro-locales", "", "optional micro-locale registry file")
	outDir := fs.String("out", "i18n/packs", "output directory for .mf2pack files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *catalogPath == "" || *idMapHashPath == "" || *localesRoot == "" {
		return fmt.Errorf("--catalog, --id-map-hash, and --locales-root are required")
	}

	catalog, err := readCatalog(*catalogPath)
	if err != nil {
		return err
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

	localeDirs, err := os.ReadDir(*localesRoot)
	if err != nil {
		return fmt.Errorf("reading locales root: %w", err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	buildEpoch := uint64(time.Now().UnixMilli())
	for _, d := range localeDirs {
		if !d.IsDir() {
			continue
		}
		locale := d.Name()
		entries, err := loadLocaleEntries(filepath.Join(*localesRoot, locale))
		if err != nil {
			return err
		}

		messages := make(map[core.MessageId]*bytecode.Program, len(catalog.Messages))
		for _, m := range catalog.Messages {
			entry, ok := entries[m.Key]
			if !ok {
				if parent, isOverlay := microLocales[locale]; isOverlay && parent != "" {
					continue
				}
				return fmt.Errorf("%s: missing translation for %q", locale, m.Key)
			}
			msg, err := mf2.ParseMessage(entry.Value)
			if err != nil {
				return fmt.Errorf("%s: parsing %q: %w", locale, m.Key, err)
			}
			messages[core.NewMessageId(m.ID)] = bytecode.Compile(msg)
		}

		kind := pack.KindBase
		parentTag := ""
		if parent, ok := microLocales[locale]; ok {
			kind = pack.KindOverlay
			parentTag = parent
		}

		data := pack.Encode(pack.BuildInput{
			Kind:         kind,
			IDMapHash:    idMapHash,
			LocaleTag:    locale,
			ParentTag:    parentTag,
			BuildEpochMs: buildEpoch,
			Messages:     messages,
		})

		outPath := filepath.Join(*outDir, locale+".mf2pack")
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("%s: wrote %s (%d bytes, %d messages)\n", locale, outPath, len(data), len(messages))
	}
	return nil
}
