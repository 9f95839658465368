package pack

import (
	"fmt"
	"unicode/utf8"

	"github.com/triesap/mf2-i18n/internal/core"
)

// DecodeStringPool reads a length-prefixed list of UTF-8 strings.
func DecodeStringPool(input []byte) ([]string, error) {
	c := &cursor{buf: input}
	count, err := c.u32()
	if err != nil {
		return nil, err
	}
	entries := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		n, err := c.u32()
		if err != nil {
			return nil, err
		}
		end := c.pos + int(n)
		if end > len(input) {
			return nil, fmt.Errorf("%w: string pool out of bounds", core.ErrInput)
		}
		raw := input[c.pos:end]
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: string pool invalid utf8", core.ErrInput)
		}
		entries = append(entries, string(raw))
		c.pos = end
	}
	return entries, nil
}

// DecodeDenseIndex reads a contiguous offsets-by-id table; an entry of
// 0xFFFFFFFF marks a missing message.
func DecodeDenseIndex(input []byte) ([]uint32, error) {
	c := &cursor{buf: input}
	count, err := c.u32()
	if err != nil {
		return nil, err
	}
	offsets := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := c.u32()
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, v)
	}
	return offsets, nil
}

// SparseEntry pairs a message id with its bytecode offset.
type SparseEntry struct {
	ID     core.MessageId
	Offset uint32
}

// DecodeSparseIndex reads an (id, offset) pair list used by overlay packs.
func DecodeSparseIndex(input []byte) ([]SparseEntry, error) {
	c := &cursor{buf: input}
	count, err := c.u32()
	if err != nil {
		return nil, err
	}
	pairs := make([]SparseEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		id, err := c.u32()
		if err != nil {
			return nil, err
		}
		offset, err := c.u32()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, SparseEntry{ID: core.NewMessageId(id), Offset: offset})
	}
	return pairs, nil
}

// ReadBytecodeAt returns the length-prefixed byte slice for one message
// starting at offset within the bytecode blob.
func ReadBytecodeAt(blob []byte, offset uint32) ([]byte, error) {
	off := int(offset)
	if off+4 > len(blob) {
		return nil, fmt.Errorf("%w: bytecode offset out of bounds", core.ErrInput)
	}
	c := &cursor{buf: blob, pos: off}
	n, err := c.u32()
	if err != nil {
		return nil, err
	}
	end := c.pos + int(n)
	if end > len(blob) {
		return nil, fmt.Errorf("%w: bytecode length out of bounds", core.ErrInput)
	}
	return blob[c.pos:end], nil
}
