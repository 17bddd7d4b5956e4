package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Paginate computes the neighbouring pages for page of size limit out of total records.
// Page and limit are clamped to the same bounds Parse applies.
func Paginate(page, limit int, total int64) Pagination {
	page = clamp(page, DefaultPage, MaxPage)
	limit = clamp(limit, DefaultLimit, MaxLimit)

	var p Pagination
	start := int64(page-1) * int64(limit)
	end := int64(page) * int64(limit)
	if end < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if start > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

func clamp(n, def, upper int) int {
	switch {
	case n < 1:
		return def
	case n > upper:
		return upper
	}
	return n
}

// Source is a collection the pipeline can read from.
type Source[T any] interface {
	Find(ctx context.Context, q Query) ([]T, error)
	CountAll(ctx context.Context) (int64, error)
}

// Expander attaches related entities to a page of items in place.
type Expander[T any] func(ctx context.Context, items []T) error

// Result is one page of a list request.
type Result[T any] struct {
	Items      []T
	Count      int
	Pagination Pagination
	Select     []string
}

// Run executes q against src. Pagination is computed against the size of the
// whole collection, not the filtered subset.
func Run[T any](ctx context.Context, src Source[T], q Query, expand ...Expander[T]) (*Result[T], error) {
	total, err := src.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count all: %w", err)
	}

	items, err := src.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	for _, fn := range expand {
		if err := fn(ctx, items); err != nil {
			return nil, err
		}
	}

	return &Result[T]{
		Items:      items,
		Count:      len(items),
		Pagination: Paginate(q.Page, q.Limit, total),
		Select:     q.Select,
	}, nil
}

// Project reduces each item to its id, the selected fields and any keep keys.
// Nested selections such as location.city keep the whole top-level object.
func Project[T any](items []T, fields []string, keep ...string) ([]map[string]any, error) {
	wanted := map[string]bool{IDField: true}
	for _, f := range fields {
		wanted[strings.SplitN(f, ".", 2)[0]] = true
	}
	for _, k := range keep {
		wanted[k] = true
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("project: %w", err)
		}
		var full map[string]any
		if err := json.Unmarshal(raw, &full); err != nil {
			return nil, fmt.Errorf("project: %w", err)
		}
		m := make(map[string]any, len(wanted))
		for k, v := range full {
			if wanted[k] {
				m[k] = v
			}
		}
		out = append(out, m)
	}
	return out, nil
}
