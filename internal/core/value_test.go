package core

import "testing"

func TestArgTypeMatches(t *testing.T) {
	tests := []struct {
		name string
		typ  ArgType
		val  Value
		want bool
	}{
		{"string matches string", ArgString, Str("x"), true},
		{"string rejects number", ArgString, Num(1), false},
		{"any matches string", ArgAny, Str("x"), true},
		{"any matches currency", ArgAny, Currency(1, [3]byte{'U', 'S', 'D'}), true},
		{"number matches number", ArgNumber, Num(3.5), true},
		{"datetime matches datetime", ArgDateTime, DateTime(1000), true},
		{"unit matches unit", ArgUnit, Unit(2, 7), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Matches(tt.val); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueClonable(t *testing.T) {
	if !Str("x").Clonable() {
		t.Error("string should be clonable")
	}
	if Any(42).Clonable() {
		t.Error("any should not be clonable")
	}
}

func TestArgBagGet(t *testing.T) {
	bag := ArgBag{"name": Str("Nova")}
	v, ok := bag.Get("name")
	if !ok || v.Str != "Nova" {
		t.Fatalf("Get(name) = %v, %v", v, ok)
	}
	if _, ok := bag.Get("missing"); ok {
		t.Fatal("expected missing key to be absent")
	}
}
