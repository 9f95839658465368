package manifest

import "testing"

func TestParseMicroLocalesLoadsMap(t *testing.T) {
	input := "tag = en-x-test\nparent = en\n"
	m, err := ParseMicroLocales(input)
	if err != nil {
		t.Fatalf("ParseMicroLocales: %v", err)
	}
	if m["en-x-test"] != "en" {
		t.Errorf("m[en-x-test] = %q, want \"en\"", m["en-x-test"])
	}
}

func TestParseMicroLocalesEmptyInputYieldsEmptyMap(t *testing.T) {
	m, err := ParseMicroLocales("")
	if err != nil {
		t.Fatalf("ParseMicroLocales: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("got %d entries, want 0", len(m))
	}
}

func TestParseMicroLocalesMultipleRecords(t *testing.T) {
	input := "tag = en-x-test\nparent = en\n\ntag = fr-x-test\nparent = fr\n"
	m, err := ParseMicroLocales(input)
	if err != nil {
		t.Fatalf("ParseMicroLocales: %v", err)
	}
	if len(m) != 2 || m["fr-x-test"] != "fr" {
		t.Errorf("m = %+v", m)
	}
}

func TestParseMicroLocalesRejectsIncompleteRecord(t *testing.T) {
	_, err := ParseMicroLocales("tag = en-x-test\n")
	if err == nil {
		t.Fatal("expected error for missing parent")
	}
}
