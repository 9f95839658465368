package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/extract"
)

// runExtract scans one or more source roots for t!(...) call sites and
// writes a catalog, an id map, and the id map's hash to --out.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/command_extract.rs,
// extract_pipeline.rs (file-walking skip list, salt-derived ids).
func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	var roots stringList
	fs.Var(&roots, "root", "source root to scan (repeatable)")
	project := fs.String("project", "", "project name recorded in the catalog")
	defaultLocale := fs.String("default-locale", "en", "default locale recorded in the catalog")
	generatedAt := fs.String("generated-at", "", "RFC3339 timestamp recorded in the catalog")
	saltPath := fs.String("salt-file", "", "path to the project salt file")
	outDir := fs.String("out", "i18n", "output directory for catalog.json, id_map.json, id_map.hash")
	ext := fs.String("ext", ".go", "source file extension to scan")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *project == "" || *generatedAt == "" || *saltPath == "" || len(roots) == 0 {
		return fmt.Errorf("--project, --generated-at, --salt-file, and at least one --root are required")
	}

	saltRaw, err := os.ReadFile(*saltPath)
	if err != nil {
		return fmt.Errorf("reading salt file: %w", err)
	}
	salt := []byte(strings.TrimRight(string(saltRaw), "\r\n"))

	logger := newCLILogger()
	collector := extract.NewCollector(logger)
	for _, root := range roots {
		if err := scanRoot(collector, root, *ext); err != nil {
			return err
		}
	}

	catalog, ids, err := collector.BuildCatalog(*project, *defaultLocale, *generatedAt, salt)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	if err := extract.WriteCatalog(filepath.Join(*outDir, "catalog.json"), catalog); err != nil {
		return err
	}
	if err := extract.WriteIdMap(filepath.Join(*outDir, "id_map.json"), ids); err != nil {
		return err
	}
	hash := ids.Hash()
	if err := extract.WriteIdMapHash(filepath.Join(*outDir, "id_map.hash"), hash); err != nil {
		return err
	}

	fmt.Printf("extracted %d messages, id_map hash sha256:%s\n", ids.Len(), hex.EncodeToString(hash[:]))
	return nil
}

func scanRoot(collector *extract.Collector, root, ext string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ext {
			return nil
		}
		contents, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return collector.ScanFile(path, string(contents))
	})
}

func shouldSkipDir(name string) bool {
	switch name {
	case ".git", "vendor", "node_modules", "_examples":
		return true
	default:
		return false
	}
}

// cliLogger writes structured log lines to stderr, grounded on the
// Logger contract every component accepts (internal/core.Logger).
type cliLogger struct{}

func newCLILogger() core.Logger { return cliLogger{} }

func (cliLogger) Debug(msg string, kv ...interface{}) { logLine("DEBUG", msg, kv) }
func (cliLogger) Info(msg string, kv ...interface{})  { logLine("INFO", msg, kv) }
func (cliLogger) Warn(msg string, kv ...interface{})  { logLine("WARN", msg, kv) }
func (cliLogger) Error(msg string, kv ...interface{}) { logLine("ERROR", msg, kv) }

func logLine(level, msg string, kv []interface{}) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(": ")
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	fmt.Fprintln(os.Stderr, b.String())
}
