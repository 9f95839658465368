package manifest

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/triesap/mf2-i18n/internal/core"
	"golang.org/x/crypto/ed25519"
)

// Sign computes a detached Ed25519 signature over m's signing bytes and
// returns the Signing block to attach, leaving m unmodified.
func Sign(m *Manifest, key ed25519.PrivateKey, keyID string) (*Signing, error) {
	bytes, err := m.ToSigningBytes()
	if err != nil {
		return nil, err
	}
	signature := ed25519.Sign(key, bytes)
	return &Signing{
		SigAlg:      "ed25519",
		KeyID:       keyID,
		ManifestSig: "hex:" + hex.EncodeToString(signature),
	}, nil
}

// Verify checks m.Signing against verifyingKey. A manifest carrying no
// Signing block verifies trivially (unsigned manifests are permitted);
// a key id mismatch, unsupported algorithm, or failed cryptographic
// check all return an error wrapping core.ErrIntegrity.
func Verify(m *Manifest, keyID string, verifyingKey ed25519.PublicKey) error {
	if m.Signing == nil {
		return nil
	}
	if m.Signing.KeyID != keyID {
		return fmt.Errorf("%w: manifest signing key id mismatch", core.ErrIntegrity)
	}
	if m.Signing.SigAlg != "ed25519" {
		return fmt.Errorf("%w: unsupported signature algorithm %q", core.ErrIntegrity, m.Signing.SigAlg)
	}
	signature, err := parseSignature(m.Signing.ManifestSig)
	if err != nil {
		return err
	}
	bytes, err := m.ToSigningBytes()
	if err != nil {
		return err
	}
	if !ed25519.Verify(verifyingKey, bytes, signature) {
		return fmt.Errorf("%w: manifest signature verification failed", core.ErrIntegrity)
	}
	return nil
}

func parseSignature(value string) ([]byte, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(trimmed, "hex:")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil || len(decoded) != ed25519.SignatureSize {
		return nil, fmt.Errorf("%w: invalid manifest signature", core.ErrIntegrity)
	}
	return decoded, nil
}

// LoadSigningKeyHex parses a signing key from its on-disk hex
// representation: a 32-byte Ed25519 seed, optionally prefixed "hex:".
func LoadSigningKeyHex(contents string) (ed25519.PrivateKey, error) {
	trimmed := strings.TrimSpace(contents)
	trimmed = strings.TrimPrefix(trimmed, "hex:")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid signing key encoding", core.ErrInput)
	}
	if len(decoded) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: signing key must be %d bytes, got %d", core.ErrInput, ed25519.SeedSize, len(decoded))
	}
	return ed25519.NewKeyFromSeed(decoded), nil
}
