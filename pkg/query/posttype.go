package query

import "regexp"

// AnyPostType is the wire token matching every post type.
const AnyPostType = "any"

// PostType identifies a content type. Values come from the built-in
// constants or NewPostType, so a typo cannot reach the document unchecked.
type PostType struct {
	slug string
}

// Built-in post types.
var (
	Post        = PostType{slug: "post"}
	Page        = PostType{slug: "page"}
	Attachment  = PostType{slug: "attachment"}
	Revision    = PostType{slug: "revision"}
	NavMenuItem = PostType{slug: "nav_menu_item"}
)

// Same charset and length the engine enforces when registering a post type.
var postTypeSlug = regexp.MustCompile(`^[a-z0-9_-]{1,20}$`)

// NewPostType validates a registered custom post type slug.
func NewPostType(slug string) (PostType, error) {
	if slug == AnyPostType {
		return PostType{}, invalid("post_type", "%q is reserved, use SetAnyPostType", slug)
	}
	if !postTypeSlug.MatchString(slug) {
		return PostType{}, invalid("post_type", "invalid slug %q (lowercase a-z, 0-9, _ or -, max 20 chars)", slug)
	}
	return PostType{slug: slug}, nil
}

// String returns the slug.
func (p PostType) String() string { return p.slug }

// IsZero reports whether p is the zero value.
func (p PostType) IsZero() bool { return p.slug == "" }
