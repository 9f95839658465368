// Package interp executes a compiled bytecode.Program against an
// argument bag and a FormatBackend, producing the rendered message text.
// Grounded on interpreter.rs.
package interp

import (
	"fmt"

	"github.com/triesap/mf2-i18n/internal/bytecode"
	"github.com/triesap/mf2-i18n/internal/core"
)

// Execute runs program against args, rendering formatted output through
// backend. locale is passed to the backend's plural classification so it
// can apply locale-specific rules.
func Execute(program *bytecode.Program, args core.ArgBag, locale string, backend core.FormatBackend) (string, error) {
	var stack []core.Value
	var output []byte
	pc := 0

	for pc < len(program.Opcodes) {
		op := program.Opcodes[pc]
		switch op.Kind {
		case bytecode.OpEmitText:
			text, ok := program.Strings.Get(op.SIdx)
			if !ok {
				return "", fmt.Errorf("%w: string index out of bounds", core.ErrInput)
			}
			output = append(output, text...)

		case bytecode.OpEmitStack:
			value, err := pop(&stack)
			if err != nil {
				return "", err
			}
			rendered, err := backend.Format("identity", value)
			if err != nil {
				return "", err
			}
			output = append(output, rendered...)

		case bytecode.OpPushStr:
			text, ok := program.Strings.Get(op.SIdx)
			if !ok {
				return "", fmt.Errorf("%w: string index out of bounds", core.ErrInput)
			}
			stack = append(stack, core.Str(text))

		case bytecode.OpPushNum:
			if int(op.NIdx) >= len(program.Numbers) {
				return "", fmt.Errorf("%w: number index out of bounds", core.ErrInput)
			}
			stack = append(stack, core.Num(program.Numbers[op.NIdx]))

		case bytecode.OpPushArg:
			name, ok := program.ArgName(op.AIdx)
			if !ok {
				return "", fmt.Errorf("%w: arg index out of bounds", core.ErrInput)
			}
			value, err := require(args, name)
			if err != nil {
				return "", err
			}
			cloned, err := cloneValue(value)
			if err != nil {
				return "", err
			}
			stack = append(stack, cloned)

		case bytecode.OpDup:
			if len(stack) == 0 {
				return "", fmt.Errorf("%w: stack underflow", core.ErrInput)
			}
			cloned, err := cloneValue(stack[len(stack)-1])
			if err != nil {
				return "", err
			}
			stack = append(stack, cloned)

		case bytecode.OpPop:
			if _, err := pop(&stack); err != nil {
				return "", err
			}

		case bytecode.OpCallFmt:
			if op.OptCount != 0 {
				return "", fmt.Errorf("%w: formatter options not supported", core.ErrUnsupported)
			}
			value, err := pop(&stack)
			if err != nil {
				return "", err
			}
			rendered, err := backend.Format(formatterName(op.FID), value)
			if err != nil {
				return "", err
			}
			stack = append(stack, core.Str(rendered))

		case bytecode.OpSelect:
			target, err := selectCase(program, args, op.AIdx, op.Table)
			if err != nil {
				return "", err
			}
			pc = target
			continue

		case bytecode.OpSelectPlural:
			target, err := selectPluralCase(program, args, locale, backend, op.AIdx, op.Ruleset, op.Table)
			if err != nil {
				return "", err
			}
			pc = target
			continue

		case bytecode.OpJump:
			next := pc + int(op.Rel)
			if next < 0 {
				return "", fmt.Errorf("%w: jump underflow", core.ErrInput)
			}
			pc = next
			continue

		case bytecode.OpEnd:
			pc = len(program.Opcodes)
			continue
		}
		pc++
	}

	return string(output), nil
}

func pop(stack *[]core.Value) (core.Value, error) {
	s := *stack
	if len(s) == 0 {
		return core.Value{}, fmt.Errorf("%w: stack underflow", core.ErrInput)
	}
	v := s[len(s)-1]
	*stack = s[:len(s)-1]
	return v, nil
}

func require(args core.ArgBag, name string) (core.Value, error) {
	v, ok := args.Get(name)
	if !ok {
		return core.Value{}, fmt.Errorf("%w: missing argument %q", core.ErrMissing, name)
	}
	return v, nil
}

func cloneValue(v core.Value) (core.Value, error) {
	if !v.Clonable() {
		return core.Value{}, fmt.Errorf("%w: cloning any value", core.ErrUnsupported)
	}
	return v.Clone(), nil
}

func formatterName(fid bytecode.FormatterId) string {
	switch fid {
	case bytecode.FormatterNumber:
		return "number"
	case bytecode.FormatterDate:
		return "date"
	case bytecode.FormatterTime:
		return "time"
	case bytecode.FormatterDateTime:
		return "datetime"
	case bytecode.FormatterUnit:
		return "unit"
	case bytecode.FormatterCurrency:
		return "currency"
	default:
		return "identity"
	}
}

func selectCase(program *bytecode.Program, args core.ArgBag, aidx, tableIdx uint32) (int, error) {
	name, ok := program.ArgName(aidx)
	if !ok {
		return 0, fmt.Errorf("%w: arg index out of bounds", core.ErrInput)
	}
	value, err := require(args, name)
	if err != nil {
		return 0, err
	}
	if value.Kind != core.KindStr {
		return 0, fmt.Errorf("%w: select expects string", core.ErrInput)
	}
	table, err := caseTable(program, tableIdx)
	if err != nil {
		return 0, err
	}
	return matchCase(table, program, value.Str)
}

func selectPluralCase(program *bytecode.Program, args core.ArgBag, locale string, backend core.FormatBackend, aidx uint32, ruleset bytecode.PluralRuleset, tableIdx uint32) (int, error) {
	name, ok := program.ArgName(aidx)
	if !ok {
		return 0, fmt.Errorf("%w: arg index out of bounds", core.ErrInput)
	}
	value, err := require(args, name)
	if err != nil {
		return 0, err
	}
	if value.Kind != core.KindNum {
		return 0, fmt.Errorf("%w: plural expects number", core.ErrInput)
	}
	table, err := caseTable(program, tableIdx)
	if err != nil {
		return 0, err
	}
	if target, ok := matchExactNumber(table, value.Num); ok {
		return target, nil
	}
	if ruleset == bytecode.Cardinal {
		category := backend.PluralCategory(locale, core.Cardinal, value.Num)
		if target, ok := matchPluralCategory(table, category); ok {
			return target, nil
		}
	}
	return matchOther(table)
}

func caseTable(program *bytecode.Program, idx uint32) (bytecode.CaseTable, error) {
	if int(idx) >= len(program.CaseTables) {
		return bytecode.CaseTable{}, fmt.Errorf("%w: case table index out of bounds", core.ErrInput)
	}
	return program.CaseTables[idx], nil
}

func matchCase(table bytecode.CaseTable, program *bytecode.Program, value string) (int, error) {
	var other (*int)
	for _, entry := range table.Entries {
		switch entry.Key.Kind {
		case bytecode.CaseKeyString:
			if candidate, ok := program.Strings.Get(entry.Key.SIdx); ok && candidate == value {
				return int(entry.Target), nil
			}
		case bytecode.CaseKeyOther:
			target := int(entry.Target)
			other = &target
		}
	}
	if other != nil {
		return *other, nil
	}
	return 0, fmt.Errorf("%w: missing other case", core.ErrInput)
}

func matchExactNumber(table bytecode.CaseTable, value float64) (int, bool) {
	if value < 0 {
		return 0, false
	}
	candidate := uint32(value)
	if float64(candidate) != value {
		return 0, false
	}
	for _, entry := range table.Entries {
		if entry.Key.Kind == bytecode.CaseKeyExact && entry.Key.Exact == candidate {
			return int(entry.Target), true
		}
	}
	return 0, false
}

func matchPluralCategory(table bytecode.CaseTable, category core.PluralCategory) (int, bool) {
	for _, entry := range table.Entries {
		if entry.Key.Kind == bytecode.CaseKeyCategory && core.PluralCategory(entry.Key.Category) == category {
			return int(entry.Target), true
		}
	}
	return 0, false
}

func matchOther(table bytecode.CaseTable) (int, error) {
	for _, entry := range table.Entries {
		if entry.Key.Kind == bytecode.CaseKeyOther {
			return int(entry.Target), nil
		}
	}
	return 0, fmt.Errorf("%w: missing other case", core.ErrInput)
}
