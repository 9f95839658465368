package manifest

import (
	"bytes"
	"testing"
)

func sampleManifest() *Manifest {
	return &Manifest{
		Schema:           1,
		ReleaseID:        "r1",
		GeneratedAt:      "2026-02-01T00:00:00Z",
		DefaultLocale:    "en",
		SupportedLocales: []string{"en"},
		IDMapHash:        "sha256:dead",
		MF2Packs: map[string]PackEntry{
			"en": {
				Kind:            "base",
				URL:             "packs/en.mf2pack",
				Hash:            "sha256:abc",
				Size:            12,
				ContentEncoding: "identity",
				PackSchema:      0,
			},
		},
	}
}

func TestCanonicalBytesAreStable(t *testing.T) {
	m := sampleManifest()
	a, err := m.ToCanonicalBytes()
	if err != nil {
		t.Fatalf("ToCanonicalBytes: %v", err)
	}
	b, err := m.ToCanonicalBytes()
	if err != nil {
		t.Fatalf("ToCanonicalBytes: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("canonical bytes not stable across calls")
	}
}

func TestSigningBytesExcludeSigning(t *testing.T) {
	m := sampleManifest()
	before, err := m.ToSigningBytes()
	if err != nil {
		t.Fatalf("ToSigningBytes: %v", err)
	}
	m.Signing = &Signing{SigAlg: "ed25519", KeyID: "k", ManifestSig: "hex:ab"}
	after, err := m.ToSigningBytes()
	if err != nil {
		t.Fatalf("ToSigningBytes: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("signing bytes changed after attaching a signature")
	}
}

func TestHashesBytesToPrefixedHex(t *testing.T) {
	hash := SHA256Hex([]byte("hello"))
	if len(hash) < len("sha256:") || hash[:len("sha256:")] != "sha256:" {
		t.Errorf("hash = %q", hash)
	}
}

func TestParseSHA256RoundTrip(t *testing.T) {
	raw := SHA256Raw([]byte("payload"))
	parsed, err := ParseSHA256(SHA256Hex([]byte("payload")))
	if err != nil {
		t.Fatalf("ParseSHA256: %v", err)
	}
	if parsed != raw {
		t.Error("parsed hash does not match raw hash")
	}
}

func TestParseSHA256RejectsWrongLength(t *testing.T) {
	_, err := ParseSHA256("sha256:abcd")
	if err == nil {
		t.Fatal("expected error for short hash")
	}
}
