package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/triesap/mf2-i18n/internal/extract"
	"github.com/triesap/mf2-i18n/internal/idmap"
	"github.com/triesap/mf2-i18n/internal/manifest"
)

func readCatalog(path string) (*extract.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var catalog extract.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &catalog, nil
}

func readIdMap(path string) (*idmap.IdMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading id map: %w", err)
	}
	return idmap.LoadJSON(data)
}

func readIdMapHash(path string) ([32]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [32]byte{}, fmt.Errorf("reading id map hash: %w", err)
	}
	return manifest.ParseSHA256(strings.TrimSpace(string(data)))
}
