// Package idmap derives stable message ids from source keys and tracks
// the key/id assignment built during extraction.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/id_map.rs.
package idmap

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/triesap/mf2-i18n/internal/core"
	"lukechampine.com/blake3"
)

// DeriveMessageId folds salt and key through BLAKE3 and takes the first
// four bytes, little-endian, as the id. Deterministic across processes,
// platforms, and runs.
func DeriveMessageId(key string, salt []byte) core.MessageId {
	hasher := blake3.New(32, nil)
	hasher.Write(salt)
	hasher.Write([]byte(key))
	sum := hasher.Sum(nil)
	return core.NewMessageId(binary.LittleEndian.Uint32(sum[:4]))
}

// CollisionError reports two distinct keys deriving the same MessageId.
type CollisionError struct {
	ID       core.MessageId
	Existing string
	Incoming string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("message id collision for %s between %q and %q", e.ID, e.Existing, e.Incoming)
}

func (e *CollisionError) Unwrap() error { return core.ErrInput }

// IdMap is the key to MessageId assignment built during extraction. It
// is mutated only while building, then frozen.
type IdMap struct {
	entries map[string]core.MessageId
	reverse map[core.MessageId]string
}

// New returns an empty IdMap.
func New() *IdMap {
	return &IdMap{
		entries: make(map[string]core.MessageId),
		reverse: make(map[core.MessageId]string),
	}
}

// Insert records key -> id. Inserting the same key/id pair again is a
// no-op; inserting a different key for an id already claimed is a
// CollisionError.
func (m *IdMap) Insert(key string, id core.MessageId) error {
	if existing, ok := m.reverse[id]; ok && existing != key {
		return &CollisionError{ID: id, Existing: existing, Incoming: key}
	}
	m.entries[key] = id
	m.reverse[id] = key
	return nil
}

// Get looks up the id assigned to key.
func (m *IdMap) Get(key string) (core.MessageId, bool) {
	id, ok := m.entries[key]
	return id, ok
}

// Len returns the number of distinct keys held.
func (m *IdMap) Len() int { return len(m.entries) }

// Entry is one key/id pair, used by Entries and the JSON artifact writer.
type Entry struct {
	Key string
	ID  core.MessageId
}

// Entries returns all key/id pairs sorted by key, for deterministic
// iteration (JSON artifact output, hashing).
func (m *IdMap) Entries() []Entry {
	out := make([]Entry, 0, len(m.entries))
	for key, id := range m.entries {
		out = append(out, Entry{Key: key, ID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Hash returns the SHA-256 digest binding this map's exact key/id
// content. Order-independent: entries are hashed in sorted-key order,
// so two maps built by inserting the same pairs in different orders
// hash identically.
func (m *IdMap) Hash() [32]byte {
	hasher := sha256.New()
	for _, e := range m.Entries() {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(e.Key)))
		hasher.Write(lenBuf[:])
		hasher.Write([]byte(e.Key))
		var idBuf [4]byte
		binary.LittleEndian.PutUint32(idBuf[:], e.ID.Get())
		hasher.Write(idBuf[:])
	}
	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

// LoadJSON parses the `{ key: id }` artifact format written by
// WriteIdMap and reconstructs an IdMap from it.
func LoadJSON(data []byte) (*IdMap, error) {
	var raw map[string]uint32
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid id map json: %v", core.ErrInput, err)
	}
	m := New()
	for key, id := range raw {
		if err := m.Insert(key, core.NewMessageId(id)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Build derives an id for every key (in order) and inserts it, returning
// the first collision encountered.
func Build(keys []string, salt []byte) (*IdMap, error) {
	m := New()
	for _, key := range keys {
		id := DeriveMessageId(key, salt)
		if err := m.Insert(key, id); err != nil {
			return nil, err
		}
	}
	return m, nil
}
