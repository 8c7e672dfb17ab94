package transport

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ExecuteAll runs reqs concurrently, bounded by the executor's concurrency
// limit, and returns responses in request order. Each call keeps its own
// retry loop. The first terminal failure cancels the calls still running.
func (e *Executor) ExecuteAll(ctx context.Context, reqs []*Request) ([]*Response, error) {
	out := make([]*Response, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			resp, err := e.Execute(gctx, req)
			if err != nil {
				return err
			}
			out[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
