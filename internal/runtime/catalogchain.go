package runtime

import (
	"github.com/triesap/mf2-i18n/internal/bytecode"
	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/pack"
)

// CatalogChain is an ordered view over a locale and its ancestor
// overlays/bases, evaluated left to right: the first catalog holding a
// message id wins.
type CatalogChain struct {
	catalogs []pack.Catalog
}

// NewCatalogChain wraps catalogs in evaluation order.
func NewCatalogChain(catalogs []pack.Catalog) CatalogChain {
	return CatalogChain{catalogs: catalogs}
}

// Lookup implements pack.Catalog by trying each wrapped catalog in
// order.
func (c CatalogChain) Lookup(id core.MessageId) (*bytecode.Program, bool) {
	for _, catalog := range c.catalogs {
		if program, ok := catalog.Lookup(id); ok {
			return program, true
		}
	}
	return nil, false
}
