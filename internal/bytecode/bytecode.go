// Package bytecode defines the stack-machine instruction set, pools, and
// compiler that lower an MF2 AST into an executable program, grounded on
// bytecode.rs and compiler.rs.
package bytecode

// FormatterId names a known formatter; its byte tag (0..6) is stable
// across the codec.
type FormatterId uint8

const (
	FormatterNumber FormatterId = iota
	FormatterDate
	FormatterTime
	FormatterDateTime
	FormatterUnit
	FormatterCurrency
	FormatterIdentity
)

// FormatterIDFromName maps a validated formatter name to its id; unknown
// names (which the validator would already have rejected) fall back to
// Identity, matching the original's match-with-default.
func FormatterIDFromName(name string) FormatterId {
	switch name {
	case "number":
		return FormatterNumber
	case "date":
		return FormatterDate
	case "time":
		return FormatterTime
	case "datetime":
		return FormatterDateTime
	case "unit":
		return FormatterUnit
	case "currency":
		return FormatterCurrency
	default:
		return FormatterIdentity
	}
}

// PluralRuleset selects which CLDR rule family a SelectPlural opcode
// consults. Only Cardinal is reachable from the compiler.
type PluralRuleset uint8

const (
	Cardinal PluralRuleset = iota
)

// OpKind tags an Opcode's operation.
type OpKind uint8

const (
	OpEmitText OpKind = iota
	OpPushStr
	OpPushNum
	OpPushArg
	OpDup
	OpPop
	OpEmitStack
	OpCallFmt
	OpSelect
	OpSelectPlural
	OpJump
	OpEnd
)

// Opcode is one stack-machine instruction. Only the operand fields
// relevant to Kind are meaningful.
type Opcode struct {
	Kind OpKind

	SIdx uint32 // EmitText, PushStr
	NIdx uint32 // PushNum
	AIdx uint32 // PushArg, Select, SelectPlural

	FID      FormatterId // CallFmt
	OptCount uint8       // CallFmt

	Table   uint32        // Select, SelectPlural
	Ruleset PluralRuleset // SelectPlural

	Rel int32 // Jump
}

// CaseKeyKind tags a CaseEntry's match key.
type CaseKeyKind uint8

const (
	CaseKeyString CaseKeyKind = iota
	CaseKeyExact
	CaseKeyCategory
	CaseKeyOther
)

// CaseKey is a case table entry's match key.
type CaseKey struct {
	Kind     CaseKeyKind
	SIdx     uint32
	Exact    uint32
	Category uint8 // core.PluralCategory value, when Kind == CaseKeyCategory
}

// CaseEntry pairs a match key with the opcode index to jump to.
type CaseEntry struct {
	Key    CaseKey
	Target uint32
}

// CaseTable is an ordered list of case entries consulted by Select /
// SelectPlural. A valid table always contains at least one Other entry.
type CaseTable struct {
	Entries []CaseEntry
}

// StringPool is an append-only list of interned UTF-8 strings.
type StringPool struct {
	entries []string
}

// Push interns a string, returning its index.
func (p *StringPool) Push(s string) uint32 {
	p.entries = append(p.entries, s)
	return uint32(len(p.entries) - 1)
}

// Get returns the string at index, or ("", false) if out of range.
func (p *StringPool) Get(index uint32) (string, bool) {
	if int(index) >= len(p.entries) {
		return "", false
	}
	return p.entries[index], true
}

// Len reports the number of interned strings.
func (p *StringPool) Len() int { return len(p.entries) }

// Entries returns the pool's backing slice; callers must not mutate it.
func (p *StringPool) Entries() []string { return p.entries }

// Program is a compiled message: a flat opcode stream plus the pools it
// references.
type Program struct {
	Opcodes    []Opcode
	Strings    StringPool
	Numbers    []float64
	CaseTables []CaseTable
	ArgNames   []string
}

// NewProgram returns an empty, writable program.
func NewProgram() *Program {
	return &Program{}
}

// PushOpcode appends an opcode and returns its index.
func (p *Program) PushOpcode(op Opcode) int {
	p.Opcodes = append(p.Opcodes, op)
	return len(p.Opcodes) - 1
}

// PushArgName interns an argument name, returning its index.
func (p *Program) PushArgName(name string) uint32 {
	p.ArgNames = append(p.ArgNames, name)
	return uint32(len(p.ArgNames) - 1)
}

// ArgName returns the argument name at index, or ("", false) if out of
// range.
func (p *Program) ArgName(index uint32) (string, bool) {
	if int(index) >= len(p.ArgNames) {
		return "", false
	}
	return p.ArgNames[index], true
}
