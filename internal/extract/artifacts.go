package extract

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/triesap/mf2-i18n/internal/idmap"
)

// WriteCatalog renders catalog as pretty-printed JSON to path.
func WriteCatalog(path string, catalog *Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteIdMap renders m's key/id assignment as a pretty-printed JSON
// object, `{ key: id, ... }`, sorted by key.
func WriteIdMap(path string, m *idmap.IdMap) error {
	entries := make(map[string]uint32, m.Len())
	for _, e := range m.Entries() {
		entries[e.Key] = e.ID.Get()
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteIdMapHash writes the companion hash file: a single line
// "sha256:<64 hex chars>".
func WriteIdMapHash(path string, hash [32]byte) error {
	line := fmt.Sprintf("sha256:%s\n", hex.EncodeToString(hash[:]))
	return os.WriteFile(path, []byte(line), 0o644)
}
