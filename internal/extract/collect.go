package extract

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/idmap"
)

// ArgSpecMismatchError reports the same key extracted with two different
// argument shapes across files.
type ArgSpecMismatchError struct {
	Key      string
	First    []core.ArgSpec
	Second   []core.ArgSpec
	FirstRef SourceRef
	Second2  SourceRef
}

func (e *ArgSpecMismatchError) Error() string {
	return fmt.Sprintf("message %q extracted with mismatched argument specs (%s and %s)", e.Key, e.FirstRef.File, e.Second2.File)
}

func (e *ArgSpecMismatchError) Unwrap() error { return core.ErrInput }

// Collector accumulates t! call sites scanned across many files,
// deduplicating identical key/arg-spec pairs and rejecting keys whose
// arg specs disagree between sites.
type Collector struct {
	order   []string
	args    map[string][]core.ArgSpec
	refs    map[string][]SourceRef
	firstAt map[string]SourceRef
	logger  core.Logger
}

// NewCollector returns an empty Collector. A nil logger is replaced with
// a no-op one.
func NewCollector(logger core.Logger) *Collector {
	if logger == nil {
		logger = core.NoopLogger{}
	}
	return &Collector{
		args:    make(map[string][]core.ArgSpec),
		refs:    make(map[string][]SourceRef),
		firstAt: make(map[string]SourceRef),
		logger:  logger,
	}
}

// ScanFile scans one file's contents and folds its t! calls in,
// recording file as the source for any diagnostics.
func (c *Collector) ScanFile(file, contents string) error {
	messages, err := Messages(contents)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	c.logger.Debug("scanned source file", "file", file, "messages", len(messages))
	for _, m := range messages {
		ref := SourceRef{File: file, Line: uint32(m.Line), Column: uint32(m.Col)}
		if err := c.add(m.Key, m.Args, ref); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) add(key string, args []core.ArgSpec, ref SourceRef) error {
	if existing, ok := c.args[key]; ok {
		if !argSpecsEqual(existing, args) {
			c.logger.Warn("argument spec mismatch", "key", key, "file", ref.File)
			return &ArgSpecMismatchError{
				Key:      key,
				First:    existing,
				Second:   args,
				FirstRef: c.firstAt[key],
				Second2:  ref,
			}
		}
		c.refs[key] = append(c.refs[key], ref)
		return nil
	}
	c.order = append(c.order, key)
	c.args[key] = args
	c.refs[key] = []SourceRef{ref}
	c.firstAt[key] = ref
	return nil
}

// Keys returns every distinct key collected, in first-seen order.
func (c *Collector) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Args returns the argument spec agreed on for key.
func (c *Collector) Args(key string) []core.ArgSpec {
	return c.args[key]
}

// Refs returns every source location key was called from.
func (c *Collector) Refs(key string) []SourceRef {
	return c.refs[key]
}

func argSpecsEqual(a, b []core.ArgSpec) bool {
	if len(a) != len(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// BuildCatalog assigns ids to every collected key via salt, and renders
// the catalog artifact. Keys are emitted sorted, for deterministic
// output regardless of scan order.
func (c *Collector) BuildCatalog(project, defaultLocale, generatedAt string, salt []byte) (*Catalog, *idmap.IdMap, error) {
	keys := c.Keys()
	sort.Strings(keys)

	ids, err := idmap.Build(keys, salt)
	if err != nil {
		return nil, nil, err
	}

	catalog := &Catalog{
		Schema:        1,
		Project:       project,
		GeneratedAt:   generatedAt,
		DefaultLocale: defaultLocale,
	}
	for _, key := range keys {
		id, _ := ids.Get(key)
		args := make([]CatalogArg, 0, len(c.args[key]))
		for _, a := range c.args[key] {
			args = append(args, CatalogArg{Name: a.Name, Type: a.Type, Required: true})
		}
		catalog.Messages = append(catalog.Messages, CatalogMessage{
			Key:        key,
			ID:         id.Get(),
			Args:       args,
			Features:   CatalogFeatures{},
			SourceRefs: c.refs[key],
		})
	}
	return catalog, ids, nil
}
