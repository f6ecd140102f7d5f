// Package query builds WP_Query parameter documents.
//
// A Builder collects content type, pagination, ordering, search, ID and
// grouped meta/taxonomy filters, then renders them with GetParameters.
// The builder never runs a query.
//
//	b := query.NewBuilder().AddPostType(query.Post).SetOrderBy("date", query.Desc)
//	_, _ = b.CreateMetaQuery(query.And)
//	color, _ := query.NewMetaQuery("color", "blue")
//	_, _ = b.AddMetaQuery(color)
//
//	sizes, _ := query.NewMetaGroup(query.Or)
//	small, _ := query.NewMetaQuery("size", "S")
//	large, _ := query.NewMetaQuery("size", "L")
//	sizes.Add(small).Add(large)
//	_, _ = b.AddMetaQueryCollection(sizes)
//
//	params := b.GetParameters()
//	// params["meta_query"] == {"relation": "AND", "0": {color}, "1": {"relation": "OR", ...}}
//
// Group documents use string keys: "relation" plus the zero-based member
// positions "0", "1", and so on.
package query
