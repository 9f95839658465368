package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/triesap/mf2-i18n/internal/manifest"
)

// runSign attaches an Ed25519 signature to an existing manifest.json in
// place.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/command_sign.rs.
func runSign(args []string) error {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	manifestPath := fs.String("manifest", "", "path to manifest.json")
	keyPath := fs.String("key-file", "", "path to the hex-encoded Ed25519 signing key")
	keyID := fs.String("key-id", "", "key identifier recorded in the signature")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *manifestPath == "" || *keyPath == "" || *keyID == "" {
		return fmt.Errorf("--manifest, --key-file, and --key-id are required")
	}

	raw, err := os.ReadFile(*manifestPath)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	var m manifest.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}

	keyRaw, err := os.ReadFile(*keyPath)
	if err != nil {
		return fmt.Errorf("reading signing key: %w", err)
	}
	key, err := manifest.LoadSigningKeyHex(strings.TrimSpace(string(keyRaw)))
	if err != nil {
		return err
	}

	signing, err := manifest.Sign(&m, key, *keyID)
	if err != nil {
		return err
	}
	m.Signing = signing

	bytes, err := m.ToCanonicalBytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(*manifestPath, bytes, 0o644); err != nil {
		return err
	}
	fmt.Printf("signed %s with key %s\n", *manifestPath, *keyID)
	return nil
}
