// Package query turns list-endpoint query strings into a store-neutral Query
// and runs it against any collection that can find and count.
package query

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"devcamper/internal/apperror"
)

// Kind describes how a filter value is converted before it reaches a store.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Time
	ID
	StringList
)

// Schema whitelists the fields of a collection that may be filtered,
// selected and sorted on, keyed by their JSON name.
type Schema map[string]Kind

// Op is a comparison operator.
type Op string

const (
	Eq  Op = "eq"
	Gt  Op = "gt"
	Gte Op = "gte"
	Lt  Op = "lt"
	Lte Op = "lte"
	In  Op = "in"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	// MaxLimit and MaxPage keep page*limit well inside an int.
	MaxLimit  = 1000
	MaxPage   = 1_000_000
	IDField   = "id"
	createdAt = "createdAt"
)

// Condition is one filter term. For In the Value is a []any.
type Condition struct {
	Field string
	Kind  Kind
	Op    Op
	Value any
}

type SortField struct {
	Field string
	Desc  bool
}

// Query is the parsed form of a list request.
type Query struct {
	Conditions []Condition
	Select     []string
	Sort       []SortField
	Page       int
	Limit      int
}

// Skip is the number of records before the requested page.
func (q Query) Skip() int {
	return (clamp(q.Page, DefaultPage, MaxPage) - 1) * clamp(q.Limit, DefaultLimit, MaxLimit)
}

// Where returns a copy of q with an extra equality condition.
func (q Query) Where(field string, kind Kind, value any) Query {
	conds := make([]Condition, 0, len(q.Conditions)+1)
	conds = append(conds, q.Conditions...)
	q.Conditions = append(conds, Condition{Field: field, Kind: kind, Op: Eq, Value: value})
	return q
}

var reserved = map[string]bool{"select": true, "sort": true, "page": true, "limit": true}

var keyPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_.]*)(?:\[([A-Za-z]+)\])?$`)

// Parse builds a Query from raw query parameters. Keys that are not reserved
// must name a schema field, optionally followed by [gt], [gte], [lt], [lte] or [in].
func Parse(params map[string][]string, schema Schema) (Query, error) {
	q := Query{
		Page:  positiveInt(first(params, "page"), DefaultPage, MaxPage),
		Limit: positiveInt(first(params, "limit"), DefaultLimit, MaxLimit),
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		cond, err := parseCondition(key, first(params, key), schema)
		if err != nil {
			return Query{}, err
		}
		q.Conditions = append(q.Conditions, cond)
	}

	sel, err := parseSelect(first(params, "select"), schema)
	if err != nil {
		return Query{}, err
	}
	q.Select = sel

	srt, err := parseSort(first(params, "sort"), schema)
	if err != nil {
		return Query{}, err
	}
	q.Sort = srt

	return q, nil
}

func parseCondition(key, raw string, schema Schema) (Condition, error) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return Condition{}, apperror.BadRequest("Invalid query parameter %s", key)
	}
	field := m[1]
	kind, ok := lookup(schema, field)
	if !ok {
		return Condition{}, apperror.BadRequest("Unknown query field %s", field)
	}

	op := Eq
	if m[2] != "" {
		op = Op(m[2])
		switch op {
		case Gt, Gte, Lt, Lte:
			if kind == Bool || kind == ID || kind == StringList {
				return Condition{}, apperror.BadRequest("Operator %s is not supported on %s", op, field)
			}
		case In:
		default:
			return Condition{}, apperror.BadRequest("Invalid query operator %s", m[2])
		}
	}

	cond := Condition{Field: field, Kind: kind, Op: op}
	if op == In {
		parts := splitList(raw)
		values := make([]any, 0, len(parts))
		for _, p := range parts {
			v, err := convert(field, kind, p)
			if err != nil {
				return Condition{}, err
			}
			values = append(values, v)
		}
		cond.Value = values
		return cond, nil
	}

	v, err := convert(field, kind, raw)
	if err != nil {
		return Condition{}, err
	}
	cond.Value = v
	return cond, nil
}

func convert(field string, kind Kind, raw string) (any, error) {
	switch kind {
	case Number:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperror.BadRequest("Invalid number %q for %s", raw, field)
		}
		return f, nil
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperror.BadRequest("Invalid boolean %q for %s", raw, field)
		}
		return b, nil
	case Time:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, apperror.BadRequest("Invalid date %q for %s", raw, field)
	default:
		return raw, nil
	}
}

func parseSelect(raw string, schema Schema) ([]string, error) {
	var fields []string
	seen := map[string]bool{}
	for _, f := range splitList(raw) {
		if _, ok := lookup(schema, f); !ok {
			return nil, apperror.BadRequest("Unknown select field %s", f)
		}
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields, nil
}

func parseSort(raw string, schema Schema) ([]SortField, error) {
	var out []SortField
	for _, f := range splitList(raw) {
		desc := strings.HasPrefix(f, "-")
		name := strings.TrimPrefix(f, "-")
		if _, ok := lookup(schema, name); !ok {
			return nil, apperror.BadRequest("Unknown sort field %s", name)
		}
		out = append(out, SortField{Field: name, Desc: desc})
	}
	if len(out) == 0 {
		out = []SortField{{Field: createdAt, Desc: true}}
	}
	return out, nil
}

func lookup(schema Schema, field string) (Kind, bool) {
	if field == IDField {
		return ID, true
	}
	kind, ok := schema[field]
	return kind, ok
}

func first(params map[string][]string, key string) string {
	if v := params[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// positiveInt falls back to def for anything that is not a positive integer
// and clamps larger values to upper.
func positiveInt(raw string, def, upper int) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange && !strings.HasPrefix(raw, "-") {
		return upper
	}
	if err != nil || n < 1 {
		return def
	}
	if n > upper {
		return upper
	}
	return n
}
