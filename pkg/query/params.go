package query

import (
	"encoding/json"
	"slices"
)

// Document keys understood by the query engine.
const (
	KeyPostType     = "post_type"
	KeyPostsPerPage = "posts_per_page"
	KeyOffset       = "offset"
	KeyOrder        = "order"
	KeyOrderBy      = "orderby"
	KeyMetaKey      = "meta_key"
	KeyMetaQuery    = "meta_query"
	KeyTaxQuery     = "tax_query"
	KeySearch       = "s"
	KeyPostIn       = "post__in"
	KeyPostNotIn    = "post__not_in"
)

// Parameters is the query document handed to the engine.
type Parameters map[string]any

// JSON encodes the document.
func (p Parameters) JSON() ([]byte, error) {
	return json.Marshal(p)
}

// GetParameters renders the current state into a new document.
// It does not modify the builder and shares no memory with it.
//
// post_type is "any" or a []string, orderby is a string when a single plain
// key is set (with order) and an OrderBy otherwise, meta_query and tax_query
// are GroupDocuments (members keyed "0", "1", ...).
func (b *Builder) GetParameters() Parameters {
	p := Parameters{
		KeyPostsPerPage: b.limit,
		KeyOffset:       b.offset,
	}

	if b.anyPostType {
		p[KeyPostType] = AnyPostType
	} else {
		types := make([]string, len(b.postTypes))
		for i, t := range b.postTypes {
			types[i] = t.slug
		}
		p[KeyPostType] = types
	}

	switch {
	case b.order.Len() == 1 && b.metaKey == "":
		key := b.order.keys[0]
		p[KeyOrderBy] = key
		p[KeyOrder] = string(b.order.dirs[key])
	case b.order.Len() > 0:
		p[KeyOrderBy] = b.order.clone()
	}
	if b.metaKey != "" {
		p[KeyMetaKey] = b.metaKey
	}

	if b.metaGroup != nil {
		p[KeyMetaQuery] = b.metaGroup.render()
	}
	if b.taxGroup != nil {
		p[KeyTaxQuery] = b.taxGroup.render()
	}
	if b.hasSearch {
		p[KeySearch] = b.search
	}
	if len(b.includeIDs) > 0 {
		p[KeyPostIn] = slices.Clone(b.includeIDs)
	}
	if len(b.excludeIDs) > 0 {
		p[KeyPostNotIn] = slices.Clone(b.excludeIDs)
	}
	return p
}
