package extract

import "github.com/triesap/mf2-i18n/internal/core"

// Catalog is the build-time JSON artifact listing every extracted
// message, its assigned id, and its declared argument shape.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/catalog.rs.
type Catalog struct {
	Schema        uint32           `json:"schema"`
	Project       string           `json:"project"`
	GeneratedAt   string           `json:"generated_at"`
	DefaultLocale string           `json:"default_locale"`
	Messages      []CatalogMessage `json:"messages"`
}

// CatalogMessage is one entry in a Catalog.
type CatalogMessage struct {
	Key        string          `json:"key"`
	ID         uint32          `json:"id"`
	Args       []CatalogArg    `json:"args"`
	Features   CatalogFeatures `json:"features"`
	SourceRefs []SourceRef     `json:"source_refs,omitempty"`
}

// CatalogArg mirrors core.ArgSpec with JSON tags matching the on-disk
// artifact's field names.
type CatalogArg struct {
	Name string       `json:"name"`
	Type core.ArgType `json:"type"`
	Required bool     `json:"required"`
}

// CatalogFeatures records which MF2 constructs a message's compiled form
// uses, for build reporting and downstream tooling.
type CatalogFeatures struct {
	Select         bool     `json:"select"`
	PluralCardinal bool     `json:"plural_cardinal"`
	PluralOrdinal  bool     `json:"plural_ordinal"`
	Formatters     []string `json:"formatters"`
}

// SourceRef is the file/line/column a message was extracted from.
type SourceRef struct {
	File   string `json:"file"`
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}
