package query

import "strings"

// Relation joins the members of a Group.
type Relation string

// Relation constants.
const (
	And Relation = "AND"
	Or  Relation = "OR"
)

// IsValid checks if the relation is AND or OR.
func (r Relation) IsValid() bool { return r == And || r == Or }

// ParseRelation accepts "and"/"or" in any case; empty means AND.
func ParseRelation(s string) (Relation, error) {
	if s == "" {
		return And, nil
	}
	r := Relation(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", invalid("relation", "must be AND or OR, got %q", s)
	}
	return r, nil
}

// Direction is a sort direction.
type Direction string

// Direction constants.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// normalize maps anything that is not ASC to DESC, as the engine does.
func (d Direction) normalize() Direction {
	if strings.EqualFold(string(d), string(Asc)) {
		return Asc
	}
	return Desc
}

// Compare is a meta query comparison operator.
type Compare string

// Compare constants.
const (
	Equal        Compare = "="
	NotEqual     Compare = "!="
	Greater      Compare = ">"
	GreaterEqual Compare = ">="
	Less         Compare = "<"
	LessEqual    Compare = "<="
	Like         Compare = "LIKE"
	NotLike      Compare = "NOT LIKE"
	In           Compare = "IN"
	NotIn        Compare = "NOT IN"
	Between      Compare = "BETWEEN"
	NotBetween   Compare = "NOT BETWEEN"
	Exists       Compare = "EXISTS"
	NotExists    Compare = "NOT EXISTS"
	Regexp       Compare = "REGEXP"
	NotRegexp    Compare = "NOT REGEXP"
	RLike        Compare = "RLIKE"
)

// IsValid checks if the comparator is supported by the engine.
func (c Compare) IsValid() bool {
	switch c {
	case Equal, NotEqual, Greater, GreaterEqual, Less, LessEqual,
		Like, NotLike, In, NotIn, Between, NotBetween,
		Exists, NotExists, Regexp, NotRegexp, RLike:
		return true
	}
	return false
}

// MetaType is the cast applied to a meta value before comparison.
type MetaType string

// MetaType constants.
const (
	Numeric  MetaType = "NUMERIC"
	Binary   MetaType = "BINARY"
	Char     MetaType = "CHAR"
	Date     MetaType = "DATE"
	DateTime MetaType = "DATETIME"
	Decimal  MetaType = "DECIMAL"
	Signed   MetaType = "SIGNED"
	Time     MetaType = "TIME"
	Unsigned MetaType = "UNSIGNED"
)

// IsValid checks if the type hint is supported by the engine.
func (t MetaType) IsValid() bool {
	switch t {
	case Numeric, Binary, Char, Date, DateTime, Decimal, Signed, Time, Unsigned:
		return true
	}
	return false
}

// TermField selects which term attribute the terms of a TaxonomyQuery match.
type TermField string

// TermField constants.
const (
	TermID         TermField = "term_id"
	Slug           TermField = "slug"
	Name           TermField = "name"
	TermTaxonomyID TermField = "term_taxonomy_id"
)

// IsValid checks if the field is supported by the engine.
func (f TermField) IsValid() bool {
	return f == TermID || f == Slug || f == Name || f == TermTaxonomyID
}

// Operator is a taxonomy query membership operator.
type Operator string

// Operator constants.
const (
	OpIn        Operator = "IN"
	OpNotIn     Operator = "NOT IN"
	OpAnd       Operator = "AND"
	OpExists    Operator = "EXISTS"
	OpNotExists Operator = "NOT EXISTS"
)

// IsValid checks if the operator is supported by the engine.
func (o Operator) IsValid() bool {
	switch o {
	case OpIn, OpNotIn, OpAnd, OpExists, OpNotExists:
		return true
	}
	return false
}
