package bytecode

import "github.com/triesap/mf2-i18n/internal/mf2"

// Compile lowers a parsed Message into a frozen Program. The final opcode
// emitted is always End.
func Compile(message mf2.Message) *Program {
	c := &compiler{program: NewProgram(), argIndices: map[string]uint32{}}
	c.compileMessage(message)
	c.program.PushOpcode(Opcode{Kind: OpEnd})
	return c.program
}

type compiler struct {
	program    *Program
	argIndices map[string]uint32
}

func (c *compiler) compileMessage(message mf2.Message) {
	for _, seg := range message.Segments {
		if seg.IsText {
			sidx := c.program.Strings.Push(seg.Text)
			c.program.PushOpcode(Opcode{Kind: OpEmitText, SIdx: sidx})
			continue
		}
		switch seg.Expr.Kind {
		case mf2.ExprVariable:
			c.compileVar(seg.Expr)
		case mf2.ExprSelect:
			c.compileSelect(seg.Expr)
		}
	}
}

func (c *compiler) compileVar(expr mf2.Expr) {
	aidx := c.argIndex(expr.Name)
	c.program.PushOpcode(Opcode{Kind: OpPushArg, AIdx: aidx})
	if expr.Formatter != "" {
		fid := FormatterIDFromName(expr.Formatter)
		c.program.PushOpcode(Opcode{Kind: OpCallFmt, FID: fid, OptCount: 0})
	}
	c.program.PushOpcode(Opcode{Kind: OpEmitStack})
}

func (c *compiler) compileSelect(expr mf2.Expr) {
	aidx := c.argIndex(expr.Selector)
	tableIdx := uint32(len(c.program.CaseTables))
	selectPos := len(c.program.Opcodes)

	opKind := OpSelect
	if expr.SelectKind == mf2.SelectPlural {
		opKind = OpSelectPlural
	}
	c.program.PushOpcode(Opcode{Kind: opKind, AIdx: aidx, Table: tableIdx, Ruleset: Cardinal})

	entries := make([]CaseEntry, 0, len(expr.Cases))
	var jumps []int
	for _, cs := range expr.Cases {
		start := uint32(len(c.program.Opcodes))
		entries = append(entries, CaseEntry{
			Key:    c.compileCaseKey(cs.Key, cs.IsDefault),
			Target: start,
		})
		c.compileMessage(cs.Value)
		jumpPos := len(c.program.Opcodes)
		c.program.PushOpcode(Opcode{Kind: OpJump, Rel: 0})
		jumps = append(jumps, jumpPos)
	}

	end := int32(len(c.program.Opcodes))
	for _, jumpPos := range jumps {
		c.program.Opcodes[jumpPos].Rel = end - int32(jumpPos)
	}

	c.program.Opcodes[selectPos] = Opcode{Kind: opKind, AIdx: aidx, Table: tableIdx, Ruleset: Cardinal}
	c.program.CaseTables = append(c.program.CaseTables, CaseTable{Entries: entries})
}

func (c *compiler) compileCaseKey(key mf2.CaseKey, isDefault bool) CaseKey {
	if isDefault {
		return CaseKey{Kind: CaseKeyOther}
	}
	switch key.Kind {
	case mf2.CaseOther:
		return CaseKey{Kind: CaseKeyOther}
	case mf2.CaseExact:
		return CaseKey{Kind: CaseKeyExact, Exact: key.Exact}
	default:
		sidx := c.program.Strings.Push(key.Ident)
		return CaseKey{Kind: CaseKeyString, SIdx: sidx}
	}
}

func (c *compiler) argIndex(name string) uint32 {
	if idx, ok := c.argIndices[name]; ok {
		return idx
	}
	idx := c.program.PushArgName(name)
	c.argIndices[name] = idx
	return idx
}
