// Package runtime assembles a loaded Runtime from a manifest and its
// referenced packs, verifying every integrity binding before any
// message is served, and executes format() calls against it.
//
// Grounded on original_source/crates/mf2-i18n-runtime/src/runtime.rs,
// loader.rs.
package runtime

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/idmap"
	"github.com/triesap/mf2-i18n/internal/interp"
	"github.com/triesap/mf2-i18n/internal/langtag"
	"github.com/triesap/mf2-i18n/internal/manifest"
	"github.com/triesap/mf2-i18n/internal/pack"
)

// Runtime is an immutable, loaded view of one release: its manifest, id
// map, decoded packs, and the parent chain used to fall back overlays to
// their base locale.
type Runtime struct {
	manifest  *manifest.Manifest
	idMap     *idmap.IdMap
	packs     map[string]*pack.PackCatalog
	parents   map[string]string
	defaultTag langtag.Tag
	supported  []langtag.Tag
	logger     core.Logger
}

// LoadFromPaths reads the manifest and id-map JSON files at the given
// paths, verifies the id-map hash, loads and verifies every referenced
// pack (size and SHA-256), and assembles the parent/overlay chain. Pack
// URLs are resolved relative to the manifest file's directory.
func LoadFromPaths(manifestPath, idMapPath string, logger core.Logger) (*Runtime, error) {
	manifestBytes, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	idMapBytes, err := os.ReadFile(idMapPath)
	if err != nil {
		return nil, err
	}
	packRoot := filepath.Dir(manifestPath)
	return assembleRuntime(manifestBytes, idMapBytes, logger, func(entry manifest.PackEntry) ([]byte, error) {
		return os.ReadFile(filepath.Join(packRoot, entry.URL))
	}, manifestPath)
}

// assembleRuntime is the shared core of LoadFromPaths and
// LoadFromURL (remote.go): parse manifest and id map, verify the
// id-map hash, fetch and verify every pack via fetchPack, and build
// the parent/overlay chain and negotiation set. source is used only
// for log/error context (a file path or a manifest URL).
func assembleRuntime(manifestBytes, idMapBytes []byte, logger core.Logger, fetchPack func(manifest.PackEntry) ([]byte, error), source string) (*Runtime, error) {
	if logger == nil {
		logger = core.NoopLogger{}
	}

	var m manifest.Manifest
	if err := json.Unmarshal(manifestBytes, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid manifest json: %v", core.ErrInput, err)
	}

	idMap, err := idmap.LoadJSON(idMapBytes)
	if err != nil {
		return nil, err
	}

	expectedHash, err := manifest.ParseSHA256(m.IDMapHash)
	if err != nil {
		return nil, err
	}
	if idMap.Hash() != expectedHash {
		logger.Error("id map hash mismatch on load", "manifest", source)
		return nil, fmt.Errorf("%w: id map does not match manifest id_map_hash", core.ErrIntegrity)
	}

	packs := make(map[string]*pack.PackCatalog, len(m.MF2Packs))
	for locale, entry := range m.MF2Packs {
		raw, err := fetchPack(entry)
		if err != nil {
			logger.Error("pack fetch failed", "locale", locale, "error", err)
			return nil, err
		}
		decoded, err := assemblePack(raw, entry, expectedHash)
		if err != nil {
			logger.Error("pack load failed", "locale", locale, "error", err)
			return nil, err
		}
		packs[locale] = decoded
	}

	parents := make(map[string]string)
	for child, parent := range m.MicroLocales {
		parents[child] = parent
	}
	for locale, entry := range m.MF2Packs {
		if entry.Kind == "overlay" && entry.Parent != nil {
			parents[locale] = *entry.Parent
		}
	}

	defaultTag, err := langtag.Parse(m.DefaultLocale)
	if err != nil {
		return nil, err
	}
	supported := make([]langtag.Tag, 0, len(m.SupportedLocales))
	for _, locale := range m.SupportedLocales {
		tag, err := langtag.Parse(locale)
		if err != nil {
			return nil, err
		}
		supported = append(supported, tag)
	}

	logger.Info("runtime loaded", "manifest", source, "locales", len(packs))
	return &Runtime{
		manifest:   &m,
		idMap:      idMap,
		packs:      packs,
		parents:    parents,
		defaultTag: defaultTag,
		supported:  supported,
		logger:     logger,
	}, nil
}

// assemblePack runs a pack's raw on-disk or on-wire bytes through its
// declared content encoding and the size/hash integrity checks from
// its manifest entry, then decodes it. Shared by the local-path loader
// above and the remote URL loader in remote.go so a fetched pack is
// held to the exact same §4.7 checks as a local one.
func assemblePack(raw []byte, entry manifest.PackEntry, idMapHash [32]byte) (*pack.PackCatalog, error) {
	decoded, err := decodeContent(entry.ContentEncoding, raw)
	if err != nil {
		return nil, err
	}
	if uint64(len(decoded)) != entry.Size {
		return nil, fmt.Errorf("%w: pack %s size mismatch", core.ErrIntegrity, entry.URL)
	}
	actualHash, err := manifest.ParseSHA256(manifest.SHA256Hex(decoded))
	if err != nil {
		return nil, err
	}
	expectedHash, err := manifest.ParseSHA256(entry.Hash)
	if err != nil {
		return nil, err
	}
	if actualHash != expectedHash {
		return nil, fmt.Errorf("%w: pack %s content hash mismatch", core.ErrIntegrity, entry.URL)
	}
	return pack.Decode(decoded, idMapHash)
}

// decodeContent inflates a pack's on-disk bytes per its declared
// content_encoding. "identity" (or empty) and "gzip" are supported;
// anything else is unsupported.
func decodeContent(encoding string, raw []byte) ([]byte, error) {
	switch encoding {
	case "", "identity":
		return raw, nil
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid gzip pack content: %v", core.ErrInput, err)
		}
		defer reader.Close()
		return io.ReadAll(reader)
	default:
		return nil, fmt.Errorf("%w: unsupported pack content encoding %q", core.ErrUnsupported, encoding)
	}
}

// ManifestBytes renders the loaded manifest back to its canonical JSON
// form, for serving to clients that want to inspect or cache it
// directly (the distribution gateway's GetManifest endpoint).
func (r *Runtime) ManifestBytes() ([]byte, error) {
	return r.manifest.ToCanonicalBytes()
}

// Format resolves locale via RFC 4647 lookup against the runtime's
// supported set, then formats key with args using the bundled
// DefaultFormatBackend.
func (r *Runtime) Format(locale, key string, args core.ArgBag) (string, error) {
	return r.FormatWithBackend(locale, key, args, NewDefaultFormatBackend(locale))
}

// FormatWithBackend is Format but against an explicit FormatBackend.
func (r *Runtime) FormatWithBackend(locale, key string, args core.ArgBag, backend core.FormatBackend) (string, error) {
	requested, err := langtag.Parse(locale)
	if err != nil {
		return "", err
	}
	negotiation := langtag.NegotiateLookup([]langtag.Tag{requested}, r.supported, r.defaultTag)
	selected := negotiation.Selected.Normalized()

	chain, err := r.catalogChainFor(selected)
	if err != nil {
		return "", err
	}

	id, ok := r.idMap.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: message key %q", core.ErrMissing, key)
	}
	program, ok := chain.Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: message key %q not present for locale %q", core.ErrMissing, key, selected)
	}
	return interp.Execute(program, args, selected, backend)
}

func (r *Runtime) catalogChainFor(locale string) (CatalogChain, error) {
	var catalogs []pack.Catalog
	current := locale
	seen := make(map[string]bool)
	for current != "" && !seen[current] {
		seen[current] = true
		if p, ok := r.packs[current]; ok {
			catalogs = append(catalogs, p)
		}
		current = r.parents[current]
	}
	if len(catalogs) == 0 {
		return CatalogChain{}, fmt.Errorf("%w: locale %q", core.ErrMissing, locale)
	}
	return NewCatalogChain(catalogs), nil
}
