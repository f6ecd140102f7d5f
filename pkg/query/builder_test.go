package query

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuilder_Defaults(t *testing.T) {
	p := NewBuilder().GetParameters()

	if p[KeyPostType] != AnyPostType {
		t.Errorf("post_type = %v, want any", p[KeyPostType])
	}
	if p[KeyPostsPerPage] != DefaultLimit {
		t.Errorf("posts_per_page = %v, want %d", p[KeyPostsPerPage], DefaultLimit)
	}
	if p[KeyOffset] != 0 {
		t.Errorf("offset = %v, want 0", p[KeyOffset])
	}
	for _, k := range []string{KeyOrder, KeyOrderBy, KeyMetaKey, KeyMetaQuery, KeyTaxQuery, KeySearch, KeyPostIn, KeyPostNotIn} {
		if _, ok := p[k]; ok {
			t.Errorf("%s should be absent by default", k)
		}
	}
}

func TestBuilder_WithDefaultLimit(t *testing.T) {
	p := NewBuilder(WithDefaultLimit(25)).GetParameters()
	if p[KeyPostsPerPage] != 25 {
		t.Errorf("posts_per_page = %v, want 25", p[KeyPostsPerPage])
	}
}

func TestBuilder_PostTypes(t *testing.T) {
	b := NewBuilder()

	b.AddPostType(Page).AddPostType(Post)
	if got := b.GetParameters()[KeyPostType]; !reflect.DeepEqual(got, []string{"page", "post"}) {
		t.Errorf("post_type = %v, want [page post]", got)
	}

	b.AddPostType(Post, Page)
	if got := b.GetParameters()[KeyPostType].([]string); len(got) != 2 {
		t.Errorf("post_type = %v, want 2 entries", got)
	}

	b.RemovePostType(Page)
	if got := b.GetParameters()[KeyPostType]; !reflect.DeepEqual(got, []string{"post"}) {
		t.Errorf("post_type = %v, want [post]", got)
	}

	b.SetAnyPostType()
	if got := b.GetParameters()[KeyPostType]; got != AnyPostType {
		t.Errorf("post_type = %v, want any", got)
	}

	b.AddPostType(Page, Post)
	if got := b.GetParameters()[KeyPostType]; !reflect.DeepEqual(got, []string{"page", "post"}) {
		t.Errorf("post_type = %v, want [page post]", got)
	}
}

func TestBuilder_RemovePostTypeNoop(t *testing.T) {
	b := NewBuilder().RemovePostType(Post)
	if got := b.GetParameters()[KeyPostType]; got != AnyPostType {
		t.Errorf("post_type = %v, want any", got)
	}

	b.AddPostType(Page).RemovePostType(Attachment)
	if got := b.GetParameters()[KeyPostType]; !reflect.DeepEqual(got, []string{"page"}) {
		t.Errorf("post_type = %v, want [page]", got)
	}
}

func TestBuilder_CustomPostType(t *testing.T) {
	product, err := NewPostType("product")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := NewBuilder().AddPostType(product, PostType{}).GetParameters()[KeyPostType]
	if !reflect.DeepEqual(got, []string{"product"}) {
		t.Errorf("post_type = %v, want [product]", got)
	}
}

func TestBuilder_Limits(t *testing.T) {
	b := NewBuilder()

	p := b.SetLimit(10).GetParameters()
	if p[KeyPostsPerPage] != 10 || p[KeyOffset] != 0 {
		t.Errorf("got (%v, %v), want (10, 0)", p[KeyPostsPerPage], p[KeyOffset])
	}

	if _, err := b.SetLimit(8).SetOffset(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p = b.GetParameters()
	if p[KeyPostsPerPage] != 8 || p[KeyOffset] != 2 {
		t.Errorf("got (%v, %v), want (8, 2)", p[KeyPostsPerPage], p[KeyOffset])
	}

	p = b.SetLimit(5).GetParameters()
	if p[KeyOffset] != 2 {
		t.Errorf("SetLimit reset offset to %v", p[KeyOffset])
	}

	p = b.WithAnyLimit().GetParameters()
	if p[KeyPostsPerPage] != NoLimit || p[KeyOffset] != 0 {
		t.Errorf("got (%v, %v), want (-1, 0)", p[KeyPostsPerPage], p[KeyOffset])
	}

	p = b.SetLimit(-42).GetParameters()
	if p[KeyPostsPerPage] != NoLimit {
		t.Errorf("posts_per_page = %v, want -1", p[KeyPostsPerPage])
	}
}

func TestBuilder_NegativeOffset(t *testing.T) {
	b := NewBuilder()
	if _, err := b.SetOffset(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.SetOffset(-1); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := b.GetParameters()[KeyOffset]; got != 3 {
		t.Errorf("offset = %v, want 3 after rejected call", got)
	}
}

func TestBuilder_Order(t *testing.T) {
	b := NewBuilder()

	p := b.SetOrderBy("date", "").GetParameters()
	if p[KeyOrder] != "DESC" {
		t.Errorf("order = %v, want DESC", p[KeyOrder])
	}
	if p[KeyOrderBy] != "date" {
		t.Errorf("orderby = %v, want date", p[KeyOrderBy])
	}

	p = b.AddOrderBy("title", Asc).GetParameters()
	ob, ok := p[KeyOrderBy].(OrderBy)
	if !ok {
		t.Fatalf("orderby = %T, want OrderBy", p[KeyOrderBy])
	}
	if _, ok := p[KeyOrder]; ok {
		t.Error("order should be absent for mapping form")
	}
	if d, _ := ob.Get("date"); d != Desc {
		t.Errorf("orderby[date] = %q", d)
	}
	if d, _ := ob.Get("title"); d != Asc {
		t.Errorf("orderby[title] = %q", d)
	}

	if _, err := b.SetOrderByMeta("color", Desc, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p = b.GetParameters()
	ob = p[KeyOrderBy].(OrderBy)
	if p[KeyMetaKey] != "color" {
		t.Errorf("meta_key = %v, want color", p[KeyMetaKey])
	}
	if d, _ := ob.Get(OrderMetaValue); d != Desc {
		t.Errorf("orderby[meta_value] = %q", d)
	}
	if !reflect.DeepEqual(ob.Keys(), []string{"date", "title", "meta_value"}) {
		t.Errorf("keys = %v", ob.Keys())
	}

	nb, err := NewBuilder().SetOrderByMeta("price", Asc, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p = nb.GetParameters()
	ob = p[KeyOrderBy].(OrderBy)
	if p[KeyMetaKey] != "price" {
		t.Errorf("meta_key = %v, want price", p[KeyMetaKey])
	}
	if d, _ := ob.Get(OrderMetaValueNum); d != Asc {
		t.Errorf("orderby[meta_value_num] = %q", d)
	}
}

func TestBuilder_OrderUpdateInPlace(t *testing.T) {
	b := NewBuilder().SetOrderBy("date", Desc).AddOrderBy("title", Asc).AddOrderBy("date", "asc")
	ob := b.GetParameters()[KeyOrderBy].(OrderBy)

	if !reflect.DeepEqual(ob.Keys(), []string{"date", "title"}) {
		t.Errorf("keys = %v, want [date title]", ob.Keys())
	}
	if d, _ := ob.Get("date"); d != Asc {
		t.Errorf("orderby[date] = %q, want ASC", d)
	}
}

func TestBuilder_OrderMetaSwitchMode(t *testing.T) {
	b, _ := NewBuilder().SetOrderByMeta("price", Asc, true)
	if _, err := b.SetOrderByMeta("color", Desc, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := b.GetParameters()
	ob := p[KeyOrderBy].(OrderBy)

	if _, ok := ob.Get(OrderMetaValueNum); ok {
		t.Error("meta_value_num should be replaced")
	}
	if p[KeyMetaKey] != "color" {
		t.Errorf("meta_key = %v", p[KeyMetaKey])
	}

	p = b.SetOrderBy("date", Asc).GetParameters()
	if _, ok := p[KeyMetaKey]; ok {
		t.Error("SetOrderBy should clear meta_key")
	}
	if p[KeyOrderBy] != "date" || p[KeyOrder] != "ASC" {
		t.Errorf("got orderby=%v order=%v", p[KeyOrderBy], p[KeyOrder])
	}
}

func TestBuilder_OrderMetaRequiresKey(t *testing.T) {
	b := NewBuilder().SetOrderBy("date", Desc)
	want := b.GetParameters()

	_, err := b.SetOrderByMeta("", Asc, true)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "meta_key" {
		t.Errorf("ValidationError = %+v", ve)
	}
	if got := b.GetParameters(); !reflect.DeepEqual(got, want) {
		t.Errorf("rejected call changed state: %v", got)
	}
}

func TestBuilder_MetaQuery(t *testing.T) {
	b := NewBuilder()
	if _, err := b.CreateMetaQuery(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.AddMetaQuery(mustMeta(t, "test", "value_test")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mq := b.GetParameters()[KeyMetaQuery].(GroupDocument)
	if mq["relation"] != "AND" {
		t.Errorf("relation = %v", mq["relation"])
	}
	if mq["0"].(map[string]any)["key"] != "test" {
		t.Errorf("0.key = %v", mq["0"])
	}

	coll, _ := NewMetaGroup(Or)
	coll.Add(mustMeta(t, "test", "value_test"))
	if _, err := b.AddMetaQueryCollection(coll); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mq = b.GetParameters()[KeyMetaQuery].(GroupDocument)
	if mq["1"].(GroupDocument)["relation"] != "OR" {
		t.Errorf("1.relation = %v", mq["1"])
	}
}

func TestBuilder_TaxonomyQuery(t *testing.T) {
	b := NewBuilder()
	if _, err := b.CreateTaxonomyQuery(And); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.AddTaxonomyQuery(mustTax(t, "category", "blue")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tq := b.GetParameters()[KeyTaxQuery].(GroupDocument)
	if tq["relation"] != "AND" {
		t.Errorf("relation = %v", tq["relation"])
	}
	first := tq["0"].(map[string]any)
	if first["taxonomy"] != "category" || first["field"] != "slug" {
		t.Errorf("0 = %v", first)
	}
	if first["terms"].([]string)[0] != "blue" {
		t.Errorf("0.terms = %v", first["terms"])
	}

	coll, _ := NewTaxonomyGroup(Or)
	coll.Add(mustTax(t, "tag", "pets"))
	if _, err := b.AddTaxonomyQueryCollection(coll); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tq = b.GetParameters()[KeyTaxQuery].(GroupDocument)
	if tq["1"].(GroupDocument)["relation"] != "OR" {
		t.Errorf("1.relation = %v", tq["1"])
	}
}

func TestBuilder_AddBeforeCreate(t *testing.T) {
	b := NewBuilder()
	meta, _ := NewMetaGroup(Or)
	tax, _ := NewTaxonomyGroup(Or)

	tests := []struct {
		name string
		call func() error
	}{
		{"AddMetaQuery", func() error { _, err := b.AddMetaQuery(mustMeta(t, "k", "v")); return err }},
		{"AddMetaQueryCollection", func() error { _, err := b.AddMetaQueryCollection(meta); return err }},
		{"AddTaxonomyQuery", func() error { _, err := b.AddTaxonomyQuery(mustTax(t, "tag", "a")); return err }},
		{"AddTaxonomyQueryCollection", func() error { _, err := b.AddTaxonomyQueryCollection(tax); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrState) {
				t.Fatalf("expected ErrState, got %v", err)
			}
			var se *StateError
			if !errors.As(err, &se) || se.Op != tt.name {
				t.Errorf("StateError = %+v", se)
			}
		})
	}
}

func TestBuilder_CollectionRejectsInvalidGroup(t *testing.T) {
	b := NewBuilder()
	root, _ := b.CreateMetaQuery(And)
	taxRoot, _ := b.CreateTaxonomyQuery(Or)

	wrapper, _ := NewMetaGroup(Or)
	if _, err := wrapper.AddGroup(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		call func() error
	}{
		{"nil meta", func() error { _, err := b.AddMetaQueryCollection(nil); return err }},
		{"meta root itself", func() error { _, err := b.AddMetaQueryCollection(root); return err }},
		{"meta group holding root", func() error { _, err := b.AddMetaQueryCollection(wrapper); return err }},
		{"nil taxonomy", func() error { _, err := b.AddTaxonomyQueryCollection(nil); return err }},
		{"taxonomy root itself", func() error { _, err := b.AddTaxonomyQueryCollection(taxRoot); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != "group" {
				t.Errorf("ValidationError = %+v", ve)
			}
		})
	}

	if root.Len() != 0 || taxRoot.Len() != 0 {
		t.Errorf("rejected groups were appended: meta=%d taxonomy=%d", root.Len(), taxRoot.Len())
	}
}

func TestBuilder_CreateResets(t *testing.T) {
	b := NewBuilder()
	_, _ = b.CreateMetaQuery(And)
	_, _ = b.AddMetaQuery(mustMeta(t, "k", "v"))
	_, _ = b.CreateMetaQuery(Or)

	mq := b.GetParameters()[KeyMetaQuery].(GroupDocument)
	if mq["relation"] != "OR" || len(mq) != 1 {
		t.Errorf("meta_query = %v, want empty OR group", mq)
	}

	if _, err := b.CreateTaxonomyQuery("NAND"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestBuilder_Search(t *testing.T) {
	b := NewBuilder()
	if got := b.Search("test").GetParameters()[KeySearch]; got != "test" {
		t.Errorf("s = %v, want test", got)
	}
	if got := b.Search("other").GetParameters()[KeySearch]; got != "other" {
		t.Errorf("s = %v, want other", got)
	}
}

func TestBuilder_PostIDs(t *testing.T) {
	b := NewBuilder()

	p := b.InPostIDs(1, 2).GetParameters()
	if !reflect.DeepEqual(p[KeyPostIn], []int{1, 2}) {
		t.Errorf("post__in = %v", p[KeyPostIn])
	}

	p = b.NotInPostIDs(3).GetParameters()
	if !reflect.DeepEqual(p[KeyPostNotIn], []int{3}) {
		t.Errorf("post__not_in = %v", p[KeyPostNotIn])
	}
	if !reflect.DeepEqual(p[KeyPostIn], []int{1, 2}) {
		t.Errorf("post__in changed to %v", p[KeyPostIn])
	}

	p = b.InPostIDs(7).InPostIDs().GetParameters()
	if _, ok := p[KeyPostIn]; ok {
		t.Errorf("post__in = %v, want absent after clearing", p[KeyPostIn])
	}
}

func TestBuilder_ParametersAreSnapshots(t *testing.T) {
	ids := []int{1, 2}
	b := NewBuilder().AddPostType(Post).InPostIDs(ids...).SetOrderBy("date", Desc).AddOrderBy("title", Asc)
	_, _ = b.CreateTaxonomyQuery(And)
	_, _ = b.AddTaxonomyQuery(mustTax(t, "tag", "a"))
	_, _ = b.CreateMetaQuery(And)
	_, _ = b.AddMetaQuery(mustMeta(t, "dims", map[string]any{"w": 1}))
	ids[0] = 99

	first := b.GetParameters()
	second := b.GetParameters()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("documents differ:\n%v\n%v", first, second)
	}

	first[KeyPostType].([]string)[0] = "page"
	first[KeyPostIn].([]int)[1] = 42
	tq := first[KeyTaxQuery].(GroupDocument)
	tq["0"].(map[string]any)["terms"].([]string)[0] = "b"
	tq["relation"] = "OR"
	mq := first[KeyMetaQuery].(GroupDocument)
	mq["0"].(map[string]any)["value"].(map[string]any)["w"] = 99
	ob := first[KeyOrderBy].(OrderBy)
	ob.Set("date", Asc)

	if !reflect.DeepEqual(b.GetParameters(), second) {
		t.Errorf("mutating a document changed builder state:\n%v", b.GetParameters())
	}
	if b.GetParameters()[KeyPostIn].([]int)[0] != 1 {
		t.Error("InPostIDs aliased the caller slice")
	}
}

func TestBuilder_ConditionCount(t *testing.T) {
	b := NewBuilder()
	if b.ConditionCount() != 0 {
		t.Errorf("ConditionCount() = %d", b.ConditionCount())
	}
	_, _ = b.CreateMetaQuery(And)
	_, _ = b.AddMetaQuery(mustMeta(t, "a", 1))
	_, _ = b.CreateTaxonomyQuery(And)
	_, _ = b.AddTaxonomyQuery(mustTax(t, "tag", "x"))
	if b.ConditionCount() != 2 {
		t.Errorf("ConditionCount() = %d, want 2", b.ConditionCount())
	}
}
