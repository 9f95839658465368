// Package manifest defines the canonical JSON release manifest binding
// a set of locale packs, their hashes, and optional signature together,
// and the Ed25519 signing/verification that authenticates it.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/manifest.rs,
// command_sign.rs, and original_source/crates/mf2-i18n-runtime/src/
// manifest.rs, signing.rs.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/triesap/mf2-i18n/internal/core"
)

// Manifest is the canonical, signable description of one release: which
// locale packs exist, where to fetch them, and what they must hash to.
type Manifest struct {
	Schema            uint32               `json:"schema"`
	ReleaseID         string               `json:"release_id"`
	GeneratedAt       string               `json:"generated_at"`
	DefaultLocale     string               `json:"default_locale"`
	SupportedLocales  []string             `json:"supported_locales"`
	IDMapHash         string               `json:"id_map_hash"`
	MF2Packs          map[string]PackEntry `json:"mf2_packs"`
	ICUPacks          map[string]PackEntry `json:"icu_packs,omitempty"`
	MicroLocales      map[string]string    `json:"micro_locales,omitempty"`
	Budgets           map[string]uint64    `json:"budgets,omitempty"`
	Signing           *Signing             `json:"signing,omitempty"`
}

// PackEntry describes one locale's pack artifact.
type PackEntry struct {
	Kind            string  `json:"kind"`
	URL             string  `json:"url"`
	Hash            string  `json:"hash"`
	Size            uint64  `json:"size"`
	ContentEncoding string  `json:"content_encoding"`
	PackSchema      uint32  `json:"pack_schema"`
	Parent          *string `json:"parent,omitempty"`
}

// Signing carries a manifest's detached Ed25519 signature.
type Signing struct {
	SigAlg      string `json:"sig_alg"`
	KeyID       string `json:"key_id"`
	ManifestSig string `json:"manifest_sig"`
}

// ToCanonicalBytes renders m as JSON using Go's deterministic map-key
// sort and struct field order, suitable for hashing or storage.
func (m *Manifest) ToCanonicalBytes() ([]byte, error) {
	return json.Marshal(m)
}

// ToSigningBytes renders m as canonical JSON with the Signing field
// cleared, the exact byte sequence a signature is computed and verified
// over.
func (m *Manifest) ToSigningBytes() ([]byte, error) {
	clone := *m
	clone.Signing = nil
	return json.Marshal(&clone)
}

// SHA256Hex hashes bytes and renders it as the manifest's "sha256:<hex>"
// convention.
func SHA256Hex(data []byte) string {
	return "sha256:" + hex.EncodeToString(SHA256Raw(data))
}

// SHA256Raw hashes bytes with SHA-256.
func SHA256Raw(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ParseSHA256 parses a "sha256:<64 hex chars>" string (the prefix is
// optional) into its raw 32 bytes.
func ParseSHA256(value string) ([32]byte, error) {
	var out [32]byte
	trimmed := value
	const prefix = "sha256:"
	if len(trimmed) >= len(prefix) && trimmed[:len(prefix)] == prefix {
		trimmed = trimmed[len(prefix):]
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil || len(decoded) != 32 {
		return out, fmt.Errorf("%w: invalid sha256 hash %q", core.ErrIntegrity, value)
	}
	copy(out[:], decoded)
	return out, nil
}
