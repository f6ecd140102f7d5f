package query

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// Group is an ordered list of conditions and nested groups joined by one relation.
type Group[C Condition] struct {
	relation Relation
	members  []member[C]
}

// MetaGroup is a group of meta conditions.
type MetaGroup = Group[MetaQuery]

// TaxonomyGroup is a group of taxonomy conditions.
type TaxonomyGroup = Group[TaxonomyQuery]

// member holds exactly one of cond or group.
type member[C Condition] struct {
	cond  *C
	group *Group[C]
}

// NewGroup creates an empty group. An empty relation means AND.
func NewGroup[C Condition](relation Relation) (*Group[C], error) {
	r, err := ParseRelation(string(relation))
	if err != nil {
		return nil, err
	}
	return &Group[C]{relation: r}, nil
}

// NewMetaGroup creates an empty group of meta conditions.
func NewMetaGroup(relation Relation) (*MetaGroup, error) {
	return NewGroup[MetaQuery](relation)
}

// NewTaxonomyGroup creates an empty group of taxonomy conditions.
func NewTaxonomyGroup(relation Relation) (*TaxonomyGroup, error) {
	return NewGroup[TaxonomyQuery](relation)
}

// Add appends a condition. Identical conditions are kept.
func (g *Group[C]) Add(c C) *Group[C] {
	g.members = append(g.members, member[C]{cond: &c})
	return g
}

// AddGroup appends a nested group. A nil group, or one that already contains g,
// is rejected and g is left unchanged.
// The nested group is held by reference: later additions to it are rendered too.
func (g *Group[C]) AddGroup(sub *Group[C]) (*Group[C], error) {
	if sub == nil {
		return g, invalid("group", "is nil")
	}
	if sub.contains(g) {
		return g, invalid("group", "would contain itself")
	}
	g.members = append(g.members, member[C]{group: sub})
	return g, nil
}

// Relation returns the relation joining the members.
func (g *Group[C]) Relation() Relation { return g.relation }

// Len returns the number of direct members.
func (g *Group[C]) Len() int { return len(g.members) }

// render produces {"relation": R, "0": ..., "1": ...}.
func (g *Group[C]) render() GroupDocument {
	out := make(GroupDocument, len(g.members)+1)
	out["relation"] = string(g.relation)
	for i, m := range g.members {
		key := strconv.Itoa(i)
		if m.group != nil {
			out[key] = m.group.render()
			continue
		}
		out[key] = (*m.cond).fields()
	}
	return out
}

// conditions counts leaf conditions in the whole tree.
func (g *Group[C]) conditions() int {
	n := 0
	for _, m := range g.members {
		if m.group != nil {
			n += m.group.conditions()
			continue
		}
		n++
	}
	return n
}

func (g *Group[C]) contains(target *Group[C]) bool {
	if g == target {
		return true
	}
	for _, m := range g.members {
		if m.group != nil && m.group.contains(target) {
			return true
		}
	}
	return false
}

// GroupDocument is a rendered group: "relation" plus one entry per member
// keyed by its decimal position. Nested groups are GroupDocuments too.
type GroupDocument map[string]any

// MarshalJSON implements json.Marshaler. "relation" comes first, then members
// in position order, then any other keys sorted.
func (d GroupDocument) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareDocumentKeys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(d[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func compareDocumentKeys(a, b string) int {
	ra, rb := documentKeyRank(a), documentKeyRank(b)
	if ra != rb {
		return ra - rb
	}
	if ra == 1 {
		na, _ := strconv.Atoi(a)
		nb, _ := strconv.Atoi(b)
		return na - nb
	}
	return strings.Compare(a, b)
}

// documentKeyRank is 0 for "relation", 1 for positions, 2 for anything else.
func documentKeyRank(k string) int {
	if k == "relation" {
		return 0
	}
	if n, err := strconv.Atoi(k); err == nil && n >= 0 && strconv.Itoa(n) == k {
		return 1
	}
	return 2
}
