package compile

import "github.com/kailas-cloud/wpquery/pkg/query"

// Definition configures a builder, e.g. a decoded query file.
type Definition interface {
	Apply(b *query.Builder) error
}
