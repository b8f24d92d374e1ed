package fallback

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"metalprices/internal/metal"
	"metalprices/internal/provider"
	"metalprices/internal/quote"
)

// CompositeSource labels failures where every provider was tried.
const CompositeSource = "All sources"

// Chain tries the primary source and falls back to the secondary when it
// fails. The primary is authoritative: the secondary is never consulted
// after a primary success.
type Chain struct {
	Primary   provider.Source
	Secondary provider.Source
}

func New(primary, secondary provider.Source) *Chain {
	return &Chain{Primary: primary, Secondary: secondary}
}

// Fetch is total with respect to failure: transport errors from either
// source are converted into failed Results here and never propagate.
func (c *Chain) Fetch(ctx context.Context, metalID, currency string) quote.Result {
	res := c.tryFetch(ctx, c.Primary, metalID, currency)
	if res.Success {
		return res
	}

	res = c.tryFetch(ctx, c.Secondary, metalID, currency)
	if res.Success {
		return res
	}

	return quote.Fail(fmt.Sprintf("all API sources failed for %s", metalID), CompositeSource)
}

func (c *Chain) tryFetch(ctx context.Context, src provider.Source, metalID, currency string) quote.Result {
	res, err := src.Fetch(ctx, metalID, currency)
	if err != nil {
		return quote.Fail(err.Error(), src.Name())
	}
	return res
}

// FetchAll fetches every supported metal concurrently. One metal's failure
// never affects the others; the result map always has an entry per metal.
func (c *Chain) FetchAll(ctx context.Context, currency string) map[string]quote.Result {
	results := make(map[string]quote.Result, len(metal.IDs()))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range metal.IDs() {
		g.Go(func() error {
			res := c.Fetch(ctx, id, currency)
			mu.Lock()
			results[id] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Health probes both sources independently and reports reachability by
// source name. A probe error means unreachable, never a propagated failure.
func (c *Chain) Health(ctx context.Context) map[string]bool {
	status := make(map[string]bool, 2)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, src := range []provider.Source{c.Primary, c.Secondary} {
		g.Go(func() error {
			err := src.Status(ctx)
			mu.Lock()
			status[src.Name()] = err == nil
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return status
}
