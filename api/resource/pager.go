package resource

import (
	"context"
	"iter"

	"github.com/gaborage/go-holded/transport"
)

// Pager walks a paginated collection by incrementing the page query
// parameter. It stops on an empty page, on a page shorter than the known
// page size, or once the reported total has been read.
//
// A Pager is not safe for concurrent use.
type Pager[T any] struct {
	r      transport.Requester
	path   string
	params any
	size   int

	page int
	seen int
	done bool
	err  error
}

// NewPager creates a pager starting at page 1.
func NewPager[T any](r transport.Requester, path string, params any) *Pager[T] {
	return &Pager[T]{r: r, path: path, params: params, page: 1}
}

// WithPageSize sends limit=n and treats a shorter page as the last one.
func (p *Pager[T]) WithPageSize(n int) *Pager[T] {
	p.size = n
	return p
}

// Page returns the number of the page Next will fetch.
func (p *Pager[T]) Page() int {
	return p.page
}

// More reports whether Next may return more items.
func (p *Pager[T]) More() bool {
	return !p.done && p.err == nil
}

// Err returns the error that stopped the pager, if any.
func (p *Pager[T]) Err() error {
	return p.err
}

// Next fetches the next page. It returns an empty slice once the pager is
// exhausted.
func (p *Pager[T]) Next(ctx context.Context) ([]T, error) {
	if !p.More() {
		return []T{}, p.err
	}

	q, err := transport.QueryFrom(p.params)
	if err != nil {
		p.err = err
		return nil, err
	}
	q["page"] = p.page
	if p.size > 0 {
		q["limit"] = p.size
	}

	resp, err := p.r.Execute(ctx, transport.Get(p.path, q).Expect(transport.ShapeArray))
	if err != nil {
		p.err = err
		return nil, err
	}

	var items []T
	if err := resp.DecodeItems(&items); err != nil {
		p.err = err
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	p.seen += len(items)
	p.page++
	p.done = p.last(len(items), resp.Page)
	return items, nil
}

func (p *Pager[T]) last(n int, meta *transport.Pagination) bool {
	if n == 0 {
		return true
	}
	size := p.size
	if meta != nil {
		if meta.Total > 0 && p.seen >= meta.Total {
			return true
		}
		if meta.Limit > 0 {
			size = meta.Limit
		}
	}
	return size > 0 && n < size
}

// All reads every remaining page.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	out := []T{}
	for p.More() {
		items, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

// Items yields every remaining item. Iteration stops at the first error,
// which is yielded with a zero item.
func (p *Pager[T]) Items(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for p.More() {
			items, err := p.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}
