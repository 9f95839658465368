// Package pack implements the self-describing binary pack container:
// encoding and decoding of compiled message catalogs to and from a
// single-file format with a fixed header, a section directory, and five
// section kinds. Grounded on pack.rs, pack_decode.rs, and pack_catalog.rs.
package pack

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/triesap/mf2-i18n/internal/core"
)

var packMagic = [8]byte{'M', 'F', '2', 'P', 'A', 'C', 'K', 0}

const headerLen = 8 + 2 + 1 + 4 + 32 + 4 + 4 + 8

// Kind tags a pack's role; it governs which index layout the message
// index section uses.
type Kind uint8

const (
	KindBase Kind = iota
	KindOverlay
	KindIcuData
)

const (
	sectionStringPool   = 1
	sectionMessageIndex = 2
	sectionBytecodeBlob = 3
	sectionCaseTables   = 4
	sectionMessageMeta  = 5
)

// NoParent marks a header with no parent locale tag.
const NoParent = ^uint32(0)

// Header is the pack's fixed-size preamble.
type Header struct {
	SchemaVersion uint16
	Kind          Kind
	Flags         uint32
	IDMapHash     [32]byte
	LocaleTagSidx uint32
	ParentTagSidx uint32 // NoParent when absent
	BuildEpochMs  uint64
}

// HasParent reports whether ParentTagSidx names a real string index.
func (h Header) HasParent() bool { return h.ParentTagSidx != NoParent }

// SectionEntry is one section directory row.
type SectionEntry struct {
	SectionType uint8
	Offset      uint32
	Length      uint32
}

type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) u8() (uint8, error) {
	if c.pos+1 > len(c.buf) {
		return 0, fmt.Errorf("%w: unexpected eof", core.ErrInput)
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u16() (uint16, error) {
	if c.pos+2 > len(c.buf) {
		return 0, fmt.Errorf("%w: unexpected eof", core.ErrInput)
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) u32() (uint32, error) {
	if c.pos+4 > len(c.buf) {
		return 0, fmt.Errorf("%w: unexpected eof", core.ErrInput)
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) i32() (int32, error) {
	v, err := c.u32()
	return int32(v), err
}

func (c *cursor) u64() (uint64, error) {
	if c.pos+8 > len(c.buf) {
		return 0, fmt.Errorf("%w: unexpected eof", core.ErrInput)
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

func (c *cursor) f64() (float64, error) {
	v, err := c.u64()
	return math.Float64frombits(v), err
}

// ParseHeader reads the fixed preamble, returning the header and the
// byte offset immediately following it (where the section count lives).
func ParseHeader(input []byte) (Header, int, error) {
	if len(input) < headerLen {
		return Header{}, 0, fmt.Errorf("%w: pack header too short", core.ErrInput)
	}
	if [8]byte(input[:8]) != packMagic {
		return Header{}, 0, fmt.Errorf("%w: pack magic mismatch", core.ErrInput)
	}
	c := &cursor{buf: input, pos: 8}

	schemaVersion, err := c.u16()
	if err != nil {
		return Header{}, 0, err
	}
	kindByte, err := c.u8()
	if err != nil {
		return Header{}, 0, err
	}
	var kind Kind
	switch kindByte {
	case 0:
		kind = KindBase
	case 1:
		kind = KindOverlay
	case 2:
		kind = KindIcuData
	default:
		return Header{}, 0, fmt.Errorf("%w: unknown pack kind", core.ErrUnsupported)
	}
	flags, err := c.u32()
	if err != nil {
		return Header{}, 0, err
	}
	if c.pos+32 > len(input) {
		return Header{}, 0, fmt.Errorf("%w: unexpected eof", core.ErrInput)
	}
	var idMapHash [32]byte
	copy(idMapHash[:], input[c.pos:c.pos+32])
	c.pos += 32
	localeTagSidx, err := c.u32()
	if err != nil {
		return Header{}, 0, err
	}
	parentTagSidx, err := c.u32()
	if err != nil {
		return Header{}, 0, err
	}
	buildEpochMs, err := c.u64()
	if err != nil {
		return Header{}, 0, err
	}

	return Header{
		SchemaVersion: schemaVersion,
		Kind:          kind,
		Flags:         flags,
		IDMapHash:     idMapHash,
		LocaleTagSidx: localeTagSidx,
		ParentTagSidx: parentTagSidx,
		BuildEpochMs:  buildEpochMs,
	}, c.pos, nil
}

// ParseSectionDirectory reads count fixed-size section entries starting
// at start.
func ParseSectionDirectory(input []byte, start int, count int) ([]SectionEntry, error) {
	c := &cursor{buf: input, pos: start}
	entries := make([]SectionEntry, 0, count)
	for i := 0; i < count; i++ {
		sectionType, err := c.u8()
		if err != nil {
			return nil, fmt.Errorf("%w: section directory out of bounds", core.ErrInput)
		}
		offset, err := c.u32()
		if err != nil {
			return nil, err
		}
		length, err := c.u32()
		if err != nil {
			return nil, err
		}
		entries = append(entries, SectionEntry{SectionType: sectionType, Offset: offset, Length: length})
	}
	return entries, nil
}
