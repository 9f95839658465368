package pack

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/triesap/mf2-i18n/internal/bytecode"
	"github.com/triesap/mf2-i18n/internal/core"
)

// BuildInput is everything Encode needs to produce one pack's bytes.
type BuildInput struct {
	Kind         Kind
	IDMapHash    [32]byte
	LocaleTag    string
	ParentTag    string // empty means no parent
	BuildEpochMs uint64
	Messages     map[core.MessageId]*bytecode.Program
}

// Encode serializes a full catalog into the on-disk pack format. Message
// ids are written in ascending order so the output is deterministic.
func Encode(input BuildInput) []byte {
	interner := newStringInterner()
	localeTagSidx := interner.intern(input.LocaleTag)
	var parentTagSidx uint32 = NoParent
	if input.ParentTag != "" {
		parentTagSidx = interner.intern(input.ParentTag)
	}

	ids := sortedIDs(input.Messages)

	remapped := make(map[core.MessageId]*bytecode.Program, len(ids))
	var caseTables []bytecode.CaseTable
	for _, id := range ids {
		program := input.Messages[id]
		out, local := remapProgram(program, interner, uint32(len(caseTables)))
		caseTables = append(caseTables, local...)
		remapped[id] = out
	}

	stringPool := interner.pool.Entries()
	stringSection := encodeStringPool(stringPool)
	caseSection := encodeCaseTables(caseTables)
	metaSection := encodeMessageMeta(ids, remapped, stringPool)
	blobSection, indexSection := encodeBytecodeBlob(ids, remapped, input.Kind)

	sections := []section{
		{sectionStringPool, stringSection},
		{sectionMessageIndex, indexSection},
		{sectionBytecodeBlob, blobSection},
		{sectionCaseTables, caseSection},
		{sectionMessageMeta, metaSection},
	}

	return buildPackBytes(input.Kind, input.IDMapHash, localeTagSidx, parentTagSidx, input.BuildEpochMs, sections)
}

type section struct {
	sectionType uint8
	data        []byte
}

func sortedIDs(messages map[core.MessageId]*bytecode.Program) []core.MessageId {
	ids := make([]core.MessageId, 0, len(messages))
	for id := range messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Get() < ids[j].Get() })
	return ids
}

// remapProgram rewrites one program's string and case-table references
// against a pack-wide interner, offsetting its local case table indices
// by caseOffset so they land correctly once all tables are concatenated.
func remapProgram(program *bytecode.Program, interner *stringInterner, caseOffset uint32) (*bytecode.Program, []bytecode.CaseTable) {
	mapping := make([]uint32, program.Strings.Len())
	for i := range mapping {
		value, _ := program.Strings.Get(uint32(i))
		mapping[i] = interner.intern(value)
	}
	for _, arg := range program.ArgNames {
		interner.intern(arg)
	}

	tables := make([]bytecode.CaseTable, 0, len(program.CaseTables))
	for _, table := range program.CaseTables {
		entries := make([]bytecode.CaseEntry, 0, len(table.Entries))
		for _, entry := range table.Entries {
			key := entry.Key
			if key.Kind == bytecode.CaseKeyString {
				key.SIdx = mapping[key.SIdx]
			}
			entries = append(entries, bytecode.CaseEntry{Key: key, Target: entry.Target})
		}
		tables = append(tables, bytecode.CaseTable{Entries: entries})
	}

	opcodes := make([]bytecode.Opcode, len(program.Opcodes))
	for i, op := range program.Opcodes {
		switch op.Kind {
		case bytecode.OpEmitText, bytecode.OpPushStr:
			op.SIdx = mapping[op.SIdx]
		case bytecode.OpSelect:
			op.Table += caseOffset
		case bytecode.OpSelectPlural:
			op.Table += caseOffset
		}
		opcodes[i] = op
	}

	out := bytecode.NewProgram()
	out.Opcodes = opcodes
	out.Numbers = program.Numbers
	out.ArgNames = program.ArgNames
	return out, tables
}

func encodeStringPool(pool []string) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(pool)))
	for _, s := range pool {
		buf = appendU32(buf, uint32(len(s)))
		buf = append(buf, s...)
	}
	return buf
}

func encodeCaseTables(tables []bytecode.CaseTable) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(tables)))
	for _, table := range tables {
		buf = appendU32(buf, uint32(len(table.Entries)))
		for _, entry := range table.Entries {
			switch entry.Key.Kind {
			case bytecode.CaseKeyString:
				buf = append(buf, 0)
				buf = appendU32(buf, entry.Key.SIdx)
			case bytecode.CaseKeyExact:
				buf = append(buf, 1)
				buf = appendU32(buf, entry.Key.Exact)
			case bytecode.CaseKeyCategory:
				buf = append(buf, 2)
				buf = append(buf, entry.Key.Category)
			case bytecode.CaseKeyOther:
				buf = append(buf, 3)
			}
			buf = appendU32(buf, entry.Target)
		}
	}
	return buf
}

func encodeMessageMeta(ids []core.MessageId, messages map[core.MessageId]*bytecode.Program, pool []string) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(ids)))
	for _, id := range ids {
		program := messages[id]
		buf = appendU32(buf, id.Get())
		buf = appendU32(buf, uint32(len(program.ArgNames)))
		for _, arg := range program.ArgNames {
			buf = appendU32(buf, findString(pool, arg))
		}
	}
	return buf
}

func encodeBytecodeBlob(ids []core.MessageId, messages map[core.MessageId]*bytecode.Program, kind Kind) ([]byte, []byte) {
	var blob []byte
	offsets := make(map[core.MessageId]uint32, len(ids))
	for _, id := range ids {
		offset := uint32(len(blob))
		encoded := encodeMessage(messages[id])
		blob = appendU32(blob, uint32(len(encoded)))
		blob = append(blob, encoded...)
		offsets[id] = offset
	}

	var index []byte
	switch kind {
	case KindBase:
		index = encodeDenseIndex(ids, offsets)
	case KindOverlay:
		index = encodeSparseIndex(ids, offsets)
	case KindIcuData:
		index = nil
	}
	return blob, index
}

func encodeDenseIndex(ids []core.MessageId, offsets map[core.MessageId]uint32) []byte {
	var maxID uint32
	for _, id := range ids {
		if id.Get() > maxID {
			maxID = id.Get()
		}
	}
	var buf []byte
	count := maxID + 1
	if len(ids) == 0 {
		count = 0
	}
	buf = appendU32(buf, count)
	for i := uint32(0); i < count; i++ {
		value, ok := offsets[core.NewMessageId(i)]
		if !ok {
			value = ^uint32(0)
		}
		buf = appendU32(buf, value)
	}
	return buf
}

func encodeSparseIndex(ids []core.MessageId, offsets map[core.MessageId]uint32) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(ids)))
	for _, id := range ids {
		buf = appendU32(buf, id.Get())
		buf = appendU32(buf, offsets[id])
	}
	return buf
}

func encodeMessage(program *bytecode.Program) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(program.Numbers)))
	for _, v := range program.Numbers {
		buf = appendU64(buf, math.Float64bits(v))
	}
	buf = appendU32(buf, uint32(len(program.Opcodes)))
	for _, op := range program.Opcodes {
		buf = encodeOpcode(buf, op)
	}
	return buf
}

func encodeOpcode(buf []byte, op bytecode.Opcode) []byte {
	switch op.Kind {
	case bytecode.OpEmitText:
		buf = append(buf, 0)
		buf = appendU32(buf, op.SIdx)
	case bytecode.OpEmitStack:
		buf = append(buf, 1)
	case bytecode.OpPushStr:
		buf = append(buf, 2)
		buf = appendU32(buf, op.SIdx)
	case bytecode.OpPushNum:
		buf = append(buf, 3)
		buf = appendU32(buf, op.NIdx)
	case bytecode.OpPushArg:
		buf = append(buf, 4)
		buf = appendU32(buf, op.AIdx)
	case bytecode.OpDup:
		buf = append(buf, 5)
	case bytecode.OpPop:
		buf = append(buf, 6)
	case bytecode.OpCallFmt:
		buf = append(buf, 7, uint8(op.FID), op.OptCount)
	case bytecode.OpSelect:
		buf = append(buf, 8)
		buf = appendU32(buf, op.AIdx)
		buf = appendU32(buf, op.Table)
	case bytecode.OpSelectPlural:
		buf = append(buf, 9)
		buf = appendU32(buf, op.AIdx)
		buf = append(buf, uint8(op.Ruleset))
		buf = appendU32(buf, op.Table)
	case bytecode.OpJump:
		buf = append(buf, 10)
		buf = appendU32(buf, uint32(op.Rel))
	case bytecode.OpEnd:
		buf = append(buf, 11)
	}
	return buf
}

func findString(pool []string, value string) uint32 {
	for i, s := range pool {
		if s == value {
			return uint32(i)
		}
	}
	return 0
}

func buildPackBytes(kind Kind, idMapHash [32]byte, localeTagSidx, parentTagSidx uint32, buildEpochMs uint64, sections []section) []byte {
	var buf []byte
	buf = append(buf, packMagic[:]...)
	buf = appendU16(buf, 0)
	buf = append(buf, byte(kind))
	buf = appendU32(buf, 0)
	buf = append(buf, idMapHash[:]...)
	buf = appendU32(buf, localeTagSidx)
	buf = appendU32(buf, parentTagSidx)
	buf = appendU64(buf, buildEpochMs)
	buf = appendU16(buf, uint16(len(sections)))

	const entryLen = 1 + 4 + 4
	dirStart := len(buf)
	buf = append(buf, make([]byte, len(sections)*entryLen)...)

	for i, s := range sections {
		offset := uint32(len(buf))
		length := uint32(len(s.data))
		buf = append(buf, s.data...)
		entryOff := dirStart + i*entryLen
		buf[entryOff] = s.sectionType
		binary.LittleEndian.PutUint32(buf[entryOff+1:], offset)
		binary.LittleEndian.PutUint32(buf[entryOff+5:], length)
	}

	return buf
}

func appendU16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

type stringInterner struct {
	index map[string]uint32
	pool  bytecode.StringPool
}

func newStringInterner() *stringInterner {
	return &stringInterner{index: map[string]uint32{}}
}

func (si *stringInterner) intern(value string) uint32 {
	if idx, ok := si.index[value]; ok {
		return idx
	}
	idx := si.pool.Push(value)
	si.index[value] = idx
	return idx
}
