// Package definition decodes declarative query files and applies them to a
// query.Builder.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/wpquery/pkg/query"
)

// Definition is a query described as YAML (or JSON, which is valid YAML).
type Definition struct {
	PostType   PostTypes  `yaml:"post_type"`
	Limit      *int       `yaml:"limit"`
	NoLimit    bool       `yaml:"no_limit"`
	Offset     *int       `yaml:"offset"`
	Order      []OrderKey `yaml:"order"`
	OrderMeta  *OrderMeta `yaml:"order_meta"`
	Search     *string    `yaml:"search"`
	IncludeIDs []int      `yaml:"include_ids"`
	ExcludeIDs []int      `yaml:"exclude_ids"`
	MetaQuery  *Clause    `yaml:"meta_query"`
	TaxQuery   *Clause    `yaml:"tax_query"`
}

// PostTypes is either the scalar "any" or a list of slugs.
type PostTypes struct {
	Any   bool
	Slugs []string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PostTypes) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == query.AnyPostType {
			*p = PostTypes{Any: true}
			return nil
		}
		*p = PostTypes{Slugs: []string{n.Value}}
		return nil
	case yaml.SequenceNode:
		var slugs []string
		if err := n.Decode(&slugs); err != nil {
			return fmt.Errorf("post_type: %w", err)
		}
		*p = PostTypes{Slugs: slugs}
		return nil
	}
	return fmt.Errorf("post_type: line %d: expected %q or a list", n.Line, query.AnyPostType)
}

// OrderKey is one entry of the order list.
type OrderKey struct {
	Field     string `yaml:"field"`
	Direction string `yaml:"direction"`
}

// OrderMeta orders by a meta value.
type OrderMeta struct {
	Key       string `yaml:"key"`
	Direction string `yaml:"direction"`
	Numeric   bool   `yaml:"numeric"`
}

// Clause is a group node (relation + clauses) or a condition leaf.
// Meta leaves use key/value/compare/type, taxonomy leaves use
// taxonomy/field/terms/operator/include_children.
type Clause struct {
	Relation string   `yaml:"relation"`
	Clauses  []Clause `yaml:"clauses"`

	Key     string `yaml:"key"`
	Value   any    `yaml:"value"`
	Compare string `yaml:"compare"`
	Type    string `yaml:"type"`

	Taxonomy        string   `yaml:"taxonomy"`
	Field           string   `yaml:"field"`
	Terms           []string `yaml:"terms"`
	Operator        string   `yaml:"operator"`
	IncludeChildren *bool    `yaml:"include_children"`
}

func (c *Clause) isGroup() bool {
	return len(c.Clauses) > 0 || c.Relation != ""
}

// Parse decodes a definition. Unknown keys are rejected; empty input is an
// empty definition.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	return &def, nil
}

// Apply configures b from the definition.
func (d *Definition) Apply(b *query.Builder) error {
	if d.PostType.Any {
		b.SetAnyPostType()
	}
	for _, slug := range d.PostType.Slugs {
		pt, err := query.NewPostType(slug)
		if err != nil {
			return fmt.Errorf("post_type: %w", err)
		}
		b.AddPostType(pt)
	}

	if d.NoLimit {
		b.WithAnyLimit()
	} else if d.Limit != nil {
		b.SetLimit(*d.Limit)
	}
	if d.Offset != nil {
		if _, err := b.SetOffset(*d.Offset); err != nil {
			return fmt.Errorf("offset: %w", err)
		}
	}

	for i, o := range d.Order {
		if o.Field == "" {
			return fmt.Errorf("order[%d]: field is required: %w", i, query.ErrValidation)
		}
		dir := query.Direction(strings.ToUpper(o.Direction))
		if i == 0 {
			b.SetOrderBy(o.Field, dir)
			continue
		}
		b.AddOrderBy(o.Field, dir)
	}
	if d.OrderMeta != nil {
		if _, err := b.SetOrderByMeta(d.OrderMeta.Key, query.Direction(d.OrderMeta.Direction), d.OrderMeta.Numeric); err != nil {
			return fmt.Errorf("order_meta: %w", err)
		}
	}

	if d.Search != nil {
		b.Search(*d.Search)
	}
	if d.IncludeIDs != nil {
		b.InPostIDs(d.IncludeIDs...)
	}
	if d.ExcludeIDs != nil {
		b.NotInPostIDs(d.ExcludeIDs...)
	}

	if d.MetaQuery != nil {
		if err := applyMeta(b, d.MetaQuery); err != nil {
			return fmt.Errorf("meta_query: %w", err)
		}
	}
	if d.TaxQuery != nil {
		if err := applyTaxonomy(b, d.TaxQuery); err != nil {
			return fmt.Errorf("tax_query: %w", err)
		}
	}
	return nil
}

func applyMeta(b *query.Builder, root *Clause) error {
	if root.Key != "" || root.Taxonomy != "" {
		return fmt.Errorf("root must be a group: %w", query.ErrValidation)
	}
	if _, err := b.CreateMetaQuery(query.Relation(root.Relation)); err != nil {
		return err
	}
	for i := range root.Clauses {
		c := &root.Clauses[i]
		if c.isGroup() {
			g, err := metaGroup(c)
			if err != nil {
				return fmt.Errorf("clauses[%d]: %w", i, err)
			}
			if _, err := b.AddMetaQueryCollection(g); err != nil {
				return err
			}
			continue
		}
		m, err := metaCondition(c)
		if err != nil {
			return fmt.Errorf("clauses[%d]: %w", i, err)
		}
		if _, err := b.AddMetaQuery(m); err != nil {
			return err
		}
	}
	return nil
}

func metaGroup(c *Clause) (*query.MetaGroup, error) {
	if c.Key != "" {
		return nil, fmt.Errorf("clause mixes group and condition fields: %w", query.ErrValidation)
	}
	g, err := query.NewMetaGroup(query.Relation(c.Relation))
	if err != nil {
		return nil, err
	}
	for i := range c.Clauses {
		sub := &c.Clauses[i]
		if sub.isGroup() {
			nested, err := metaGroup(sub)
			if err != nil {
				return nil, fmt.Errorf("clauses[%d]: %w", i, err)
			}
			if _, err := g.AddGroup(nested); err != nil {
				return nil, fmt.Errorf("clauses[%d]: %w", i, err)
			}
			continue
		}
		m, err := metaCondition(sub)
		if err != nil {
			return nil, fmt.Errorf("clauses[%d]: %w", i, err)
		}
		g.Add(m)
	}
	return g, nil
}

func metaCondition(c *Clause) (query.MetaQuery, error) {
	if c.Taxonomy != "" || c.Terms != nil {
		return query.MetaQuery{}, fmt.Errorf("taxonomy fields in a meta clause: %w", query.ErrValidation)
	}
	var opts []query.MetaOption
	if c.Compare != "" {
		opts = append(opts, query.WithCompare(query.Compare(strings.ToUpper(c.Compare))))
	}
	if c.Type != "" {
		opts = append(opts, query.WithType(query.MetaType(strings.ToUpper(c.Type))))
	}
	return query.NewMetaQuery(c.Key, c.Value, opts...)
}

func applyTaxonomy(b *query.Builder, root *Clause) error {
	if root.Key != "" || root.Taxonomy != "" {
		return fmt.Errorf("root must be a group: %w", query.ErrValidation)
	}
	if _, err := b.CreateTaxonomyQuery(query.Relation(root.Relation)); err != nil {
		return err
	}
	for i := range root.Clauses {
		c := &root.Clauses[i]
		if c.isGroup() {
			g, err := taxonomyGroup(c)
			if err != nil {
				return fmt.Errorf("clauses[%d]: %w", i, err)
			}
			if _, err := b.AddTaxonomyQueryCollection(g); err != nil {
				return err
			}
			continue
		}
		tq, err := taxonomyCondition(c)
		if err != nil {
			return fmt.Errorf("clauses[%d]: %w", i, err)
		}
		if _, err := b.AddTaxonomyQuery(tq); err != nil {
			return err
		}
	}
	return nil
}

func taxonomyGroup(c *Clause) (*query.TaxonomyGroup, error) {
	if c.Taxonomy != "" {
		return nil, fmt.Errorf("clause mixes group and condition fields: %w", query.ErrValidation)
	}
	g, err := query.NewTaxonomyGroup(query.Relation(c.Relation))
	if err != nil {
		return nil, err
	}
	for i := range c.Clauses {
		sub := &c.Clauses[i]
		if sub.isGroup() {
			nested, err := taxonomyGroup(sub)
			if err != nil {
				return nil, fmt.Errorf("clauses[%d]: %w", i, err)
			}
			if _, err := g.AddGroup(nested); err != nil {
				return nil, fmt.Errorf("clauses[%d]: %w", i, err)
			}
			continue
		}
		tq, err := taxonomyCondition(sub)
		if err != nil {
			return nil, fmt.Errorf("clauses[%d]: %w", i, err)
		}
		g.Add(tq)
	}
	return g, nil
}

func taxonomyCondition(c *Clause) (query.TaxonomyQuery, error) {
	if c.Key != "" || c.Value != nil {
		return query.TaxonomyQuery{}, fmt.Errorf("meta fields in a taxonomy clause: %w", query.ErrValidation)
	}
	field := query.TermID
	if c.Field != "" {
		field = query.TermField(strings.ToLower(c.Field))
	}
	var opts []query.TaxonomyOption
	if c.Operator != "" {
		opts = append(opts, query.WithOperator(query.Operator(strings.ToUpper(c.Operator))))
	}
	if c.IncludeChildren != nil && !*c.IncludeChildren {
		opts = append(opts, query.WithoutChildren())
	}
	return query.NewTaxonomyQuery(c.Taxonomy, field, c.Terms, opts...)
}
