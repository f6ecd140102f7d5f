package query

import (
	"reflect"
	"slices"
)

// Condition is implemented by the leaf filters a Group can hold.
type Condition interface {
	MetaQuery | TaxonomyQuery
	fields() map[string]any
}

// MetaQuery is a single custom field condition.
type MetaQuery struct {
	key     string
	value   any
	compare Compare
	typ     MetaType
}

// MetaOption configures a MetaQuery.
type MetaOption func(*MetaQuery)

// WithCompare sets the comparison operator (default "=").
func WithCompare(c Compare) MetaOption {
	return func(m *MetaQuery) { m.compare = c }
}

// WithType sets the cast applied to the stored value.
func WithType(t MetaType) MetaOption {
	return func(m *MetaQuery) { m.typ = t }
}

// NewMetaQuery validates and creates a meta condition.
// IN and NOT IN need a slice value, BETWEEN and NOT BETWEEN a two-element slice.
// Only EXISTS and NOT EXISTS accept a nil value.
func NewMetaQuery(key string, value any, opts ...MetaOption) (MetaQuery, error) {
	m := MetaQuery{key: key, value: value, compare: Equal}
	for _, opt := range opts {
		opt(&m)
	}
	if m.key == "" {
		return MetaQuery{}, invalid("key", "is required")
	}
	if !m.compare.IsValid() {
		return MetaQuery{}, invalid("compare", "unsupported operator %q", m.compare)
	}
	if m.typ != "" && !m.typ.IsValid() {
		return MetaQuery{}, invalid("type", "unsupported type %q", m.typ)
	}

	n, isList := listLen(m.value)
	switch m.compare {
	case Exists, NotExists:
	case In, NotIn:
		if !isList {
			return MetaQuery{}, invalid("value", "must be a list for %s", m.compare)
		}
	case Between, NotBetween:
		if !isList || n != 2 {
			return MetaQuery{}, invalid("value", "must be a two-element list for %s", m.compare)
		}
	default:
		if m.value == nil {
			return MetaQuery{}, invalid("value", "is required for key %q", m.key)
		}
	}
	m.value = cloneValue(m.value)
	return m, nil
}

// Key returns the meta key.
func (m MetaQuery) Key() string { return m.key }

// Value returns a copy of the compared value.
func (m MetaQuery) Value() any { return cloneValue(m.value) }

// Compare returns the comparison operator.
func (m MetaQuery) Compare() Compare { return m.compare }

// Type returns the type hint, empty when unset.
func (m MetaQuery) Type() MetaType { return m.typ }

func (m MetaQuery) fields() map[string]any {
	out := map[string]any{
		"key":     m.key,
		"compare": string(m.compare),
	}
	if m.value != nil {
		out["value"] = cloneValue(m.value)
	}
	if m.typ != "" {
		out["type"] = string(m.typ)
	}
	return out
}

// TaxonomyQuery is a single term membership condition.
type TaxonomyQuery struct {
	taxonomy        string
	field           TermField
	terms           []string
	operator        Operator
	includeChildren bool
}

// TaxonomyOption configures a TaxonomyQuery.
type TaxonomyOption func(*TaxonomyQuery)

// WithOperator sets the membership operator (default IN).
func WithOperator(o Operator) TaxonomyOption {
	return func(t *TaxonomyQuery) { t.operator = o }
}

// WithoutChildren excludes child terms of hierarchical taxonomies.
func WithoutChildren() TaxonomyOption {
	return func(t *TaxonomyQuery) { t.includeChildren = false }
}

// NewTaxonomyQuery validates and creates a taxonomy condition.
func NewTaxonomyQuery(taxonomy string, field TermField, terms []string, opts ...TaxonomyOption) (TaxonomyQuery, error) {
	t := TaxonomyQuery{
		taxonomy:        taxonomy,
		field:           field,
		terms:           slices.Clone(terms),
		operator:        OpIn,
		includeChildren: true,
	}
	for _, opt := range opts {
		opt(&t)
	}
	if t.taxonomy == "" {
		return TaxonomyQuery{}, invalid("taxonomy", "is required")
	}
	if !t.field.IsValid() {
		return TaxonomyQuery{}, invalid("field", "unsupported field %q", t.field)
	}
	if len(t.terms) == 0 {
		return TaxonomyQuery{}, invalid("terms", "at least one term is required for taxonomy %q", t.taxonomy)
	}
	if !t.operator.IsValid() {
		return TaxonomyQuery{}, invalid("operator", "unsupported operator %q", t.operator)
	}
	return t, nil
}

// Taxonomy returns the taxonomy name.
func (t TaxonomyQuery) Taxonomy() string { return t.taxonomy }

// Field returns the term attribute matched against.
func (t TaxonomyQuery) Field() TermField { return t.field }

// Terms returns a copy of the term list.
func (t TaxonomyQuery) Terms() []string { return slices.Clone(t.terms) }

// Operator returns the membership operator.
func (t TaxonomyQuery) Operator() Operator { return t.operator }

// IncludeChildren reports whether child terms match.
func (t TaxonomyQuery) IncludeChildren() bool { return t.includeChildren }

func (t TaxonomyQuery) fields() map[string]any {
	return map[string]any{
		"taxonomy":         t.taxonomy,
		"field":            string(t.field),
		"terms":            slices.Clone(t.terms),
		"operator":         string(t.operator),
		"include_children": t.includeChildren,
	}
}

func listLen(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, false
	}
	return rv.Len(), true
}

// cloneValue deep-copies slices, arrays and maps (at any nesting depth) so
// documents never alias condition state. Pointers and structs are shared.
func cloneValue(v any) any {
	if v == nil {
		return nil
	}
	return deepCopy(reflect.ValueOf(v)).Interface()
}

func deepCopy(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(deepCopy(rv.Elem()))
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).Set(deepCopy(rv.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := range rv.Len() {
			out.Index(i).Set(deepCopy(rv.Index(i)))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	}
	return rv
}
