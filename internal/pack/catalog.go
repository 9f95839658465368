package pack

import (
	"fmt"

	"github.com/triesap/mf2-i18n/internal/bytecode"
	"github.com/triesap/mf2-i18n/internal/core"
)

// Catalog looks up a compiled program by message id. PackCatalog is the
// on-disk implementation; other implementations may serve from memory
// for tests.
type Catalog interface {
	Lookup(id core.MessageId) (*bytecode.Program, bool)
}

// PackCatalog is a decoded, read-only view over one pack's bytes.
type PackCatalog struct {
	header   Header
	messages map[core.MessageId]*bytecode.Program
}

// Decode parses a complete pack, verifying its id map hash matches the
// caller's expectation before trusting any offsets within it.
func Decode(data []byte, expectedIDMapHash [32]byte) (*PackCatalog, error) {
	header, afterHeader, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if header.IDMapHash != expectedIDMapHash {
		return nil, fmt.Errorf("%w: id map hash mismatch", core.ErrIntegrity)
	}

	c := &cursor{buf: data, pos: afterHeader}
	sectionCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	sections, err := ParseSectionDirectory(data, c.pos, int(sectionCount))
	if err != nil {
		return nil, err
	}
	sectionMap, err := mapSections(data, sections)
	if err != nil {
		return nil, err
	}

	stringPoolBytes, ok := sectionMap[sectionStringPool]
	if !ok {
		return nil, fmt.Errorf("%w: missing string pool section", core.ErrInput)
	}
	stringPool, err := DecodeStringPool(stringPoolBytes)
	if err != nil {
		return nil, err
	}

	caseTablesBytes, ok := sectionMap[sectionCaseTables]
	if !ok {
		return nil, fmt.Errorf("%w: missing case tables section", core.ErrInput)
	}
	caseTables, err := decodeCaseTables(caseTablesBytes)
	if err != nil {
		return nil, err
	}

	metaBytes, ok := sectionMap[sectionMessageMeta]
	if !ok {
		return nil, fmt.Errorf("%w: missing message meta section", core.ErrInput)
	}
	meta, err := decodeMessageMeta(metaBytes, stringPool)
	if err != nil {
		return nil, err
	}

	indexBytes, ok := sectionMap[sectionMessageIndex]
	if !ok {
		return nil, fmt.Errorf("%w: missing message index section", core.ErrInput)
	}

	blob, ok := sectionMap[sectionBytecodeBlob]
	if !ok {
		return nil, fmt.Errorf("%w: missing bytecode blob section", core.ErrInput)
	}

	messages := map[core.MessageId]*bytecode.Program{}
	switch header.Kind {
	case KindBase:
		offsets, err := DecodeDenseIndex(indexBytes)
		if err != nil {
			return nil, err
		}
		for i, offset := range offsets {
			if offset == ^uint32(0) {
				continue
			}
			id := core.NewMessageId(uint32(i))
			slice, err := ReadBytecodeAt(blob, offset)
			if err != nil {
				return nil, err
			}
			program, err := decodeMessage(slice, stringPool, caseTables, meta[id])
			if err != nil {
				return nil, err
			}
			messages[id] = program
		}
	case KindOverlay:
		pairs, err := DecodeSparseIndex(indexBytes)
		if err != nil {
			return nil, err
		}
		for _, pair := range pairs {
			slice, err := ReadBytecodeAt(blob, pair.Offset)
			if err != nil {
				return nil, err
			}
			program, err := decodeMessage(slice, stringPool, caseTables, meta[pair.ID])
			if err != nil {
				return nil, err
			}
			messages[pair.ID] = program
		}
	default:
		return nil, fmt.Errorf("%w: icu data packs not supported", core.ErrUnsupported)
	}

	return &PackCatalog{header: header, messages: messages}, nil
}

// Header returns the decoded pack header.
func (p *PackCatalog) Header() Header { return p.header }

// Lookup implements Catalog.
func (p *PackCatalog) Lookup(id core.MessageId) (*bytecode.Program, bool) {
	prog, ok := p.messages[id]
	return prog, ok
}

func mapSections(data []byte, sections []SectionEntry) (map[uint8][]byte, error) {
	m := make(map[uint8][]byte, len(sections))
	for _, s := range sections {
		start := int(s.Offset)
		end := start + int(s.Length)
		if end > len(data) {
			return nil, fmt.Errorf("%w: section out of bounds", core.ErrInput)
		}
		m[s.SectionType] = data[start:end]
	}
	return m, nil
}

func decodeCaseTables(input []byte) ([]bytecode.CaseTable, error) {
	c := &cursor{buf: input}
	count, err := c.u32()
	if err != nil {
		return nil, err
	}
	tables := make([]bytecode.CaseTable, 0, count)
	for i := uint32(0); i < count; i++ {
		entryCount, err := c.u32()
		if err != nil {
			return nil, err
		}
		entries := make([]bytecode.CaseEntry, 0, entryCount)
		for j := uint32(0); j < entryCount; j++ {
			keyType, err := c.u8()
			if err != nil {
				return nil, err
			}
			var key bytecode.CaseKey
			switch keyType {
			case 0:
				sidx, err := c.u32()
				if err != nil {
					return nil, err
				}
				key = bytecode.CaseKey{Kind: bytecode.CaseKeyString, SIdx: sidx}
			case 1:
				exact, err := c.u32()
				if err != nil {
					return nil, err
				}
				key = bytecode.CaseKey{Kind: bytecode.CaseKeyExact, Exact: exact}
			case 2:
				raw, err := c.u8()
				if err != nil {
					return nil, err
				}
				key = bytecode.CaseKey{Kind: bytecode.CaseKeyCategory, Category: raw}
			case 3:
				key = bytecode.CaseKey{Kind: bytecode.CaseKeyOther}
			default:
				return nil, fmt.Errorf("%w: unknown case key type", core.ErrInput)
			}
			target, err := c.u32()
			if err != nil {
				return nil, err
			}
			entries = append(entries, bytecode.CaseEntry{Key: key, Target: target})
		}
		tables = append(tables, bytecode.CaseTable{Entries: entries})
	}
	return tables, nil
}

func decodeMessageMeta(input []byte, stringPool []string) (map[core.MessageId][]string, error) {
	c := &cursor{buf: input}
	count, err := c.u32()
	if err != nil {
		return nil, err
	}
	m := make(map[core.MessageId][]string, count)
	for i := uint32(0); i < count; i++ {
		idRaw, err := c.u32()
		if err != nil {
			return nil, err
		}
		argCount, err := c.u32()
		if err != nil {
			return nil, err
		}
		args := make([]string, 0, argCount)
		for j := uint32(0); j < argCount; j++ {
			idx, err := c.u32()
			if err != nil {
				return nil, err
			}
			if int(idx) >= len(stringPool) {
				return nil, fmt.Errorf("%w: message meta string index", core.ErrInput)
			}
			args = append(args, stringPool[idx])
		}
		m[core.NewMessageId(idRaw)] = args
	}
	return m, nil
}

func decodeMessage(input []byte, stringPool []string, caseTables []bytecode.CaseTable, argNames []string) (*bytecode.Program, error) {
	c := &cursor{buf: input}
	numberCount, err := c.u32()
	if err != nil {
		return nil, err
	}
	numbers := make([]float64, 0, numberCount)
	for i := uint32(0); i < numberCount; i++ {
		v, err := c.f64()
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, v)
	}

	opcodeCount, err := c.u32()
	if err != nil {
		return nil, err
	}
	opcodes := make([]bytecode.Opcode, 0, opcodeCount)
	for i := uint32(0); i < opcodeCount; i++ {
		tag, err := c.u8()
		if err != nil {
			return nil, err
		}
		op, err := decodeOpcode(tag, c)
		if err != nil {
			return nil, err
		}
		opcodes = append(opcodes, op)
	}

	program := bytecode.NewProgram()
	program.Opcodes = opcodes
	program.Numbers = numbers
	program.CaseTables = caseTables
	program.ArgNames = argNames
	for _, s := range stringPool {
		program.Strings.Push(s)
	}
	return program, nil
}

func decodeOpcode(tag uint8, c *cursor) (bytecode.Opcode, error) {
	switch tag {
	case 0:
		sidx, err := c.u32()
		return bytecode.Opcode{Kind: bytecode.OpEmitText, SIdx: sidx}, err
	case 1:
		return bytecode.Opcode{Kind: bytecode.OpEmitStack}, nil
	case 2:
		sidx, err := c.u32()
		return bytecode.Opcode{Kind: bytecode.OpPushStr, SIdx: sidx}, err
	case 3:
		nidx, err := c.u32()
		return bytecode.Opcode{Kind: bytecode.OpPushNum, NIdx: nidx}, err
	case 4:
		aidx, err := c.u32()
		return bytecode.Opcode{Kind: bytecode.OpPushArg, AIdx: aidx}, err
	case 5:
		return bytecode.Opcode{Kind: bytecode.OpDup}, nil
	case 6:
		return bytecode.Opcode{Kind: bytecode.OpPop}, nil
	case 7:
		fidByte, err := c.u8()
		if err != nil {
			return bytecode.Opcode{}, err
		}
		fid, err := formatterIDFromByte(fidByte)
		if err != nil {
			return bytecode.Opcode{}, err
		}
		optCount, err := c.u8()
		return bytecode.Opcode{Kind: bytecode.OpCallFmt, FID: fid, OptCount: optCount}, err
	case 8:
		aidx, err := c.u32()
		if err != nil {
			return bytecode.Opcode{}, err
		}
		table, err := c.u32()
		return bytecode.Opcode{Kind: bytecode.OpSelect, AIdx: aidx, Table: table}, err
	case 9:
		aidx, err := c.u32()
		if err != nil {
			return bytecode.Opcode{}, err
		}
		rulesetByte, err := c.u8()
		if err != nil {
			return bytecode.Opcode{}, err
		}
		ruleset, err := rulesetFromByte(rulesetByte)
		if err != nil {
			return bytecode.Opcode{}, err
		}
		table, err := c.u32()
		return bytecode.Opcode{Kind: bytecode.OpSelectPlural, AIdx: aidx, Ruleset: ruleset, Table: table}, err
	case 10:
		rel, err := c.i32()
		return bytecode.Opcode{Kind: bytecode.OpJump, Rel: rel}, err
	case 11:
		return bytecode.Opcode{Kind: bytecode.OpEnd}, nil
	default:
		return bytecode.Opcode{}, fmt.Errorf("%w: unknown opcode tag", core.ErrInput)
	}
}

func formatterIDFromByte(b uint8) (bytecode.FormatterId, error) {
	switch b {
	case 0:
		return bytecode.FormatterNumber, nil
	case 1:
		return bytecode.FormatterDate, nil
	case 2:
		return bytecode.FormatterTime, nil
	case 3:
		return bytecode.FormatterDateTime, nil
	case 4:
		return bytecode.FormatterUnit, nil
	case 5:
		return bytecode.FormatterCurrency, nil
	case 6:
		return bytecode.FormatterIdentity, nil
	default:
		return 0, fmt.Errorf("%w: unknown formatter id", core.ErrInput)
	}
}

func rulesetFromByte(b uint8) (bytecode.PluralRuleset, error) {
	switch b {
	case 0:
		return bytecode.Cardinal, nil
	default:
		return 0, fmt.Errorf("%w: unknown plural ruleset", core.ErrInput)
	}
}
