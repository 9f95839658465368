package core

import (
	"encoding/json"
	"fmt"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindStr ValueKind = iota
	KindNum
	KindBool
	KindDateTime
	KindUnit
	KindCurrency
	KindAny
)

func (k ValueKind) String() string {
	switch k {
	case KindStr:
		return "string"
	case KindNum:
		return "number"
	case KindBool:
		return "bool"
	case KindDateTime:
		return "datetime"
	case KindUnit:
		return "unit"
	case KindCurrency:
		return "currency"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// Value is a tagged union of the run-time argument types a message body
// can reference. Only the field matching Kind is meaningful.
type Value struct {
	Kind      ValueKind
	Str       string
	Num       float64
	Bool      bool
	Epoch     int64  // DateTime: Unix epoch, in milliseconds
	UnitValue float64
	UnitID    uint32
	CurValue  float64
	CurCode   [3]byte
	Any       interface{}
}

func Str(s string) Value   { return Value{Kind: KindStr, Str: s} }
func Num(n float64) Value  { return Value{Kind: KindNum, Num: n} }
func Bool(b bool) Value    { return Value{Kind: KindBool, Bool: b} }
func DateTime(ms int64) Value { return Value{Kind: KindDateTime, Epoch: ms} }
func Unit(v float64, unitID uint32) Value {
	return Value{Kind: KindUnit, UnitValue: v, UnitID: unitID}
}
func Currency(v float64, code [3]byte) Value {
	return Value{Kind: KindCurrency, CurValue: v, CurCode: code}
}
func Any(v interface{}) Value { return Value{Kind: KindAny, Any: v} }

// Clone copies a Value. Any is explicitly not clonable: the interpreter's
// PushArg and Dup opcodes must surface ErrUnsupported instead of calling
// this for an Any-kinded value. Clone itself still returns a shallow copy
// so that non-interpreter callers (e.g. a FormatBackend inspecting the
// original arg bag) are unaffected by this restriction.
func (v Value) Clone() Value { return v }

// Clonable reports whether PushArg/Dup may copy this value per spec.
func (v Value) Clonable() bool { return v.Kind != KindAny }

// String renders a debug form; it is not the identity formatter used by
// EmitStack (see internal/interp).
func (v Value) String() string {
	switch v.Kind {
	case KindStr:
		return v.Str
	case KindNum:
		return fmt.Sprintf("%v", v.Num)
	case KindBool:
		return fmt.Sprintf("%v", v.Bool)
	case KindDateTime:
		return fmt.Sprintf("datetime(%d)", v.Epoch)
	case KindUnit:
		return fmt.Sprintf("%v unit#%d", v.UnitValue, v.UnitID)
	case KindCurrency:
		return fmt.Sprintf("%v %s", v.CurValue, string(v.CurCode[:]))
	case KindAny:
		return fmt.Sprintf("%v", v.Any)
	default:
		return ""
	}
}

// ArgType is the declared shape of a message parameter, used by the
// validator to check formatter/selector usage against the declared
// argument.
type ArgType uint8

const (
	ArgString ArgType = iota
	ArgNumber
	ArgBool
	ArgDateTime
	ArgUnit
	ArgCurrency
	ArgAny
)

func (t ArgType) String() string {
	switch t {
	case ArgString:
		return "string"
	case ArgNumber:
		return "number"
	case ArgBool:
		return "bool"
	case ArgDateTime:
		return "datetime"
	case ArgUnit:
		return "unit"
	case ArgCurrency:
		return "currency"
	case ArgAny:
		return "any"
	default:
		return "unknown"
	}
}

// Matches reports whether a Value's kind satisfies this declared type.
// ArgAny matches every value kind.
func (t ArgType) Matches(v Value) bool {
	if t == ArgAny {
		return true
	}
	switch t {
	case ArgString:
		return v.Kind == KindStr
	case ArgNumber:
		return v.Kind == KindNum
	case ArgBool:
		return v.Kind == KindBool
	case ArgDateTime:
		return v.Kind == KindDateTime
	case ArgUnit:
		return v.Kind == KindUnit
	case ArgCurrency:
		return v.Kind == KindCurrency
	default:
		return false
	}
}

// MarshalJSON renders an ArgType as its lowercase name, matching the
// extracted-catalog artifact format.
func (t ArgType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON parses an ArgType from its lowercase name, accepting the
// same aliases the extractor recognizes in source text.
func (t *ArgType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "string":
		*t = ArgString
	case "number":
		*t = ArgNumber
	case "bool":
		*t = ArgBool
	case "datetime":
		*t = ArgDateTime
	case "unit":
		*t = ArgUnit
	case "currency":
		*t = ArgCurrency
	case "any":
		*t = ArgAny
	default:
		return fmt.Errorf("%w: unknown arg type %q", ErrInput, s)
	}
	return nil
}

// ArgSpec names a declared parameter of a message.
type ArgSpec struct {
	Name string
	Type ArgType
}

// ArgBag is the name to Value mapping supplied by a caller of format().
type ArgBag map[string]Value

// Get looks up an argument by name.
func (b ArgBag) Get(name string) (Value, bool) {
	v, ok := b[name]
	return v, ok
}
