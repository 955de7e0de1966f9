// Package query builds the parameterized Cypher statements used by the
// Neo4j family store.
package query

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type QueryType string

const (
	Match  QueryType = "MATCH"
	Create QueryType = "CREATE"
	Merge  QueryType = "MERGE"
)

// Query is a Cypher statement: one leading clause, optional filters and
// follow-up clauses, then SET/RETURN
type Query struct {
	Type     QueryType `json:"type"`
	Patterns []Pattern `json:"patterns"`
	Filters  []Filter  `json:"filters"`
	Next     []Clause  `json:"next,omitempty"`
	Sets     []string  `json:"sets,omitempty"`
	Returns  []string  `json:"returns"`
	OrderBy  []string  `json:"order_by,omitempty"`
	Limit    int       `json:"limit"`
	Skip     int       `json:"skip"`

	params map[string]interface{}
}

// Clause is a follow-up clause rendered after the filters, e.g. the MERGE
// of an edge between two matched nodes
type Clause struct {
	Type    QueryType `json:"type"`
	Pattern Pattern   `json:"pattern"`
}

// Pattern is a node, or a node-relationship-node path when RelationType
// or TargetVariable is set
type Pattern struct {
	Variable         string                 `json:"variable"`
	NodeType         string                 `json:"node_type"`
	Properties       map[string]interface{} `json:"properties,omitempty"`
	RelationVariable string                 `json:"relation_variable,omitempty"`
	RelationType     string                 `json:"relation_type,omitempty"`
	RelationProps    map[string]interface{} `json:"relation_properties,omitempty"`
	TargetVariable   string                 `json:"target_variable,omitempty"`
	TargetType       string                 `json:"target_type,omitempty"`
}

type Filter struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

func NewQuery(queryType QueryType) *Query {
	return &Query{
		Type:     queryType,
		Patterns: make([]Pattern, 0),
		Filters:  make([]Filter, 0),
		Returns:  make([]string, 0),
	}
}

func (q *Query) AddPattern(pattern Pattern) *Query {
	q.Patterns = append(q.Patterns, pattern)
	return q
}

func (q *Query) AddFilter(filter Filter) *Query {
	q.Filters = append(q.Filters, filter)
	return q
}

// Then appends a follow-up clause
func (q *Query) Then(t QueryType, pattern Pattern) *Query {
	q.Next = append(q.Next, Clause{Type: t, Pattern: pattern})
	return q
}

// WithParams adds named parameters referenced by Set assignments
func (q *Query) WithParams(params map[string]interface{}) *Query {
	if q.params == nil {
		q.params = make(map[string]interface{}, len(params))
	}
	for k, v := range params {
		q.params[k] = v
	}
	return q
}

// Set appends a SET assignment such as "p += $props"
func (q *Query) Set(assignment string) *Query {
	q.Sets = append(q.Sets, assignment)
	return q
}

func (q *Query) Return(fields ...string) *Query {
	q.Returns = append(q.Returns, fields...)
	return q
}

func (q *Query) Order(fields ...string) *Query {
	q.OrderBy = append(q.OrderBy, fields...)
	return q
}

func (q *Query) SetLimit(limit int) *Query {
	q.Limit = limit
	return q
}

func (q *Query) SetSkip(skip int) *Query {
	q.Skip = skip
	return q
}

// Cypher renders the statement and collects its parameters. Literal
// property values and filter values are always passed as parameters.
func (q *Query) Cypher() (string, map[string]interface{}) {
	params := make(map[string]interface{}, len(q.params))
	for k, v := range q.params {
		params[k] = v
	}
	n := 0
	next := func(value interface{}) string {
		name := fmt.Sprintf("p%d", n)
		n++
		params[name] = value
		return "$" + name
	}

	var b strings.Builder
	b.WriteString(string(q.Type))
	b.WriteString(" ")
	for i, p := range q.Patterns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pattern(p, next))
	}

	if len(q.Filters) > 0 {
		conds := make([]string, 0, len(q.Filters))
		for _, f := range q.Filters {
			op := f.Operator
			if op == "" {
				op = "="
			}
			conds = append(conds, fmt.Sprintf("%s %s %s", f.Field, op, next(f.Value)))
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	for _, c := range q.Next {
		b.WriteString(" " + string(c.Type) + " ")
		b.WriteString(pattern(c.Pattern, next))
	}
	if len(q.Sets) > 0 {
		b.WriteString(" SET ")
		b.WriteString(strings.Join(q.Sets, ", "))
	}
	if len(q.Returns) > 0 {
		b.WriteString(" RETURN ")
		b.WriteString(strings.Join(q.Returns, ", "))
	}
	if len(q.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.OrderBy, ", "))
	}
	if q.Skip > 0 {
		fmt.Fprintf(&b, " SKIP %d", q.Skip)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), params
}

func pattern(p Pattern, next func(interface{}) string) string {
	s := node(p.Variable, p.NodeType, p.Properties, next)
	if p.RelationType == "" && p.TargetVariable == "" {
		return s
	}
	s += "-[" + p.RelationVariable
	if p.RelationType != "" {
		s += ":" + p.RelationType
	}
	s += props(p.RelationProps, next) + "]->"
	return s + node(p.TargetVariable, p.TargetType, nil, next)
}

func node(variable, label string, properties map[string]interface{}, next func(interface{}) string) string {
	s := "(" + variable
	if label != "" {
		s += ":" + label
	}
	return s + props(properties, next) + ")"
}

func props(properties map[string]interface{}, next func(interface{}) string) string {
	if len(properties) == 0 {
		return ""
	}
	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, next(properties[k])))
	}
	return " {" + strings.Join(parts, ", ") + "}"
}

func (q *Query) String() string {
	bytes, _ := json.MarshalIndent(q, "", "  ")
	return string(bytes)
}
