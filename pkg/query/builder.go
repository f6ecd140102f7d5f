package query

import "slices"

// DefaultLimit is the engine's posts_per_page when none is configured.
const DefaultLimit = 10

// NoLimit is the posts_per_page sentinel for unbounded results.
const NoLimit = -1

// Builder accumulates query parameters. Mutators change the receiver and
// return it, so chained calls never copy. A Builder is not safe for
// concurrent use.
type Builder struct {
	anyPostType bool
	postTypes   []PostType

	limit  int
	offset int

	order   OrderBy
	metaKey string

	search    string
	hasSearch bool

	includeIDs []int
	excludeIDs []int

	metaGroup *MetaGroup
	taxGroup  *TaxonomyGroup
}

// BuilderOption configures a Builder at construction.
type BuilderOption func(*Builder)

// WithDefaultLimit overrides the initial posts_per_page.
func WithDefaultLimit(n int) BuilderOption {
	return func(b *Builder) { b.SetLimit(n) }
}

// NewBuilder creates a builder matching any post type with the default limit.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{anyPostType: true, limit: DefaultLimit}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddPostType restricts the query to the given types. The first call on an
// "any" builder replaces the sentinel; later calls add without duplicates.
// Zero-value types are skipped.
func (b *Builder) AddPostType(types ...PostType) *Builder {
	for _, t := range types {
		if t.IsZero() {
			continue
		}
		if b.anyPostType {
			b.anyPostType = false
			b.postTypes = nil
		}
		if !slices.Contains(b.postTypes, t) {
			b.postTypes = append(b.postTypes, t)
		}
	}
	return b
}

// RemovePostType drops t from the explicit set. Removing the last type
// leaves an empty explicit list, not "any".
func (b *Builder) RemovePostType(t PostType) *Builder {
	if b.anyPostType {
		return b
	}
	b.postTypes = slices.DeleteFunc(b.postTypes, func(p PostType) bool { return p == t })
	return b
}

// SetAnyPostType resets the content type filter to "any".
func (b *Builder) SetAnyPostType() *Builder {
	b.anyPostType = true
	b.postTypes = nil
	return b
}

// SetLimit sets posts_per_page. Negative values mean no limit.
// The offset is left untouched.
func (b *Builder) SetLimit(n int) *Builder {
	if n < 0 {
		n = NoLimit
	}
	b.limit = n
	return b
}

// SetOffset sets the number of posts to skip.
func (b *Builder) SetOffset(n int) (*Builder, error) {
	if n < 0 {
		return b, invalid("offset", "must be non-negative, got %d", n)
	}
	b.offset = n
	return b, nil
}

// WithAnyLimit removes the limit and resets the offset.
func (b *Builder) WithAnyLimit() *Builder {
	b.limit = NoLimit
	b.offset = 0
	return b
}

// SetOrderBy replaces every order key with field. An empty direction means DESC.
func (b *Builder) SetOrderBy(field string, dir Direction) *Builder {
	b.order = OrderBy{}
	b.metaKey = ""
	b.order.Set(field, dir.normalize())
	return b
}

// AddOrderBy adds field after the existing keys, or updates its direction in place.
func (b *Builder) AddOrderBy(field string, dir Direction) *Builder {
	b.order.Set(field, dir.normalize())
	return b
}

// SetOrderByMeta orders by the value of metaKey, numerically if requested.
// Only one meta ordering exists at a time; switching mode replaces the other key.
// An empty metaKey is rejected and the builder is left unchanged.
func (b *Builder) SetOrderByMeta(metaKey string, dir Direction, numeric bool) (*Builder, error) {
	if metaKey == "" {
		return b, invalid("meta_key", "is required")
	}
	key, other := OrderMetaValue, OrderMetaValueNum
	if numeric {
		key, other = other, key
	}
	b.metaKey = metaKey
	b.order.Delete(other)
	b.order.Set(key, dir.normalize())
	return b, nil
}

// CreateMetaQuery starts a new meta root group, discarding any previous one.
func (b *Builder) CreateMetaQuery(relation Relation) (*MetaGroup, error) {
	g, err := NewMetaGroup(relation)
	if err != nil {
		return nil, err
	}
	b.metaGroup = g
	return g, nil
}

// AddMetaQuery appends c to the meta root group.
func (b *Builder) AddMetaQuery(c MetaQuery) (*MetaGroup, error) {
	if b.metaGroup == nil {
		return nil, &StateError{Op: "AddMetaQuery", Group: "meta"}
	}
	return b.metaGroup.Add(c), nil
}

// AddMetaQueryCollection nests g inside the meta root group.
// A nil g, or one that already contains the root, is a *ValidationError.
func (b *Builder) AddMetaQueryCollection(g *MetaGroup) (*MetaGroup, error) {
	if b.metaGroup == nil {
		return nil, &StateError{Op: "AddMetaQueryCollection", Group: "meta"}
	}
	if _, err := b.metaGroup.AddGroup(g); err != nil {
		return nil, err
	}
	return b.metaGroup, nil
}

// CreateTaxonomyQuery starts a new taxonomy root group, discarding any previous one.
func (b *Builder) CreateTaxonomyQuery(relation Relation) (*TaxonomyGroup, error) {
	g, err := NewTaxonomyGroup(relation)
	if err != nil {
		return nil, err
	}
	b.taxGroup = g
	return g, nil
}

// AddTaxonomyQuery appends c to the taxonomy root group.
func (b *Builder) AddTaxonomyQuery(c TaxonomyQuery) (*TaxonomyGroup, error) {
	if b.taxGroup == nil {
		return nil, &StateError{Op: "AddTaxonomyQuery", Group: "taxonomy"}
	}
	return b.taxGroup.Add(c), nil
}

// AddTaxonomyQueryCollection nests g inside the taxonomy root group.
// A nil g, or one that already contains the root, is a *ValidationError.
func (b *Builder) AddTaxonomyQueryCollection(g *TaxonomyGroup) (*TaxonomyGroup, error) {
	if b.taxGroup == nil {
		return nil, &StateError{Op: "AddTaxonomyQueryCollection", Group: "taxonomy"}
	}
	if _, err := b.taxGroup.AddGroup(g); err != nil {
		return nil, err
	}
	return b.taxGroup, nil
}

// Search sets the free-text search term verbatim.
func (b *Builder) Search(term string) *Builder {
	b.search = term
	b.hasSearch = true
	return b
}

// InPostIDs restricts results to ids, replacing any previous list.
// Calling it with no ids clears the filter.
func (b *Builder) InPostIDs(ids ...int) *Builder {
	b.includeIDs = slices.Clone(ids)
	return b
}

// NotInPostIDs excludes ids from results, replacing any previous list.
// Calling it with no ids clears the filter.
func (b *Builder) NotInPostIDs(ids ...int) *Builder {
	b.excludeIDs = slices.Clone(ids)
	return b
}

// ConditionCount returns the number of leaf meta and taxonomy conditions.
func (b *Builder) ConditionCount() int {
	n := 0
	if b.metaGroup != nil {
		n += b.metaGroup.conditions()
	}
	if b.taxGroup != nil {
		n += b.taxGroup.conditions()
	}
	return n
}
