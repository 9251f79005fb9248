package http

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/textract"
	"golang.org/x/time/rate"
)

var _ textract.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter throttles requests per host using token buckets, so parallel
// workers funnelled through the same relay service share one budget while
// requests to other hosts proceed independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each host with a burst of 1. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until a request to domain is allowed. Domains are compared
// case-insensitively. Returns an error if ctx ends first.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.limit == rate.Inf {
		return ctx.Err()
	}

	domain = strings.ToLower(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
