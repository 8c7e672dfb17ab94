package resource

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gaborage/go-holded/transport"
)

// DefaultFanOut bounds GetMany when no limit is given.
const DefaultFanOut = 4

// Service is the list/get/create/update/delete set Holded exposes for most
// collections. T is the entity type items decode into.
type Service[T any] struct {
	r    transport.Requester
	path string
}

// NewService creates a service rooted at path, e.g. "invoicing/v1/contacts".
func NewService[T any](r transport.Requester, path string) *Service[T] {
	return &Service[T]{r: r, path: path}
}

// Path returns the collection path, or the path of a sub-resource when
// segments are given.
func (s *Service[T]) Path(segments ...string) string {
	return Join(s.path, segments...)
}

// Requester returns the requester the service sends through.
func (s *Service[T]) Requester() transport.Requester {
	return s.r
}

// List returns one page of the collection. See List for accepted params.
func (s *Service[T]) List(ctx context.Context, params any) ([]T, error) {
	return List[T](ctx, s.r, s.path, params)
}

// Pages walks the collection page by page.
func (s *Service[T]) Pages(params any) *Pager[T] {
	return NewPager[T](s.r, s.path, params)
}

// Get fetches one entity.
func (s *Service[T]) Get(ctx context.Context, id string) (*T, error) {
	return Get[T](ctx, s.r, s.Path(id), nil)
}

// GetMany fetches ids concurrently, at most limit at a time, and returns
// them in the order given. The first failure cancels the remaining fetches.
func (s *Service[T]) GetMany(ctx context.Context, ids []string, limit int) ([]*T, error) {
	if limit < 1 {
		limit = DefaultFanOut
	}
	out := make([]*T, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			v, err := s.Get(gctx, id)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds an entity.
func (s *Service[T]) Create(ctx context.Context, body any) (*Ack, error) {
	return Create(ctx, s.r, s.path, body)
}

// Update changes an entity.
func (s *Service[T]) Update(ctx context.Context, id string, body any) (*Ack, error) {
	return Update(ctx, s.r, s.Path(id), body)
}

// Delete removes an entity.
func (s *Service[T]) Delete(ctx context.Context, id string) (*Ack, error) {
	return Remove(ctx, s.r, s.Path(id))
}
