package mock

import (
	"context"

	"github.com/fwojciec/textract"
)

// Compile-time interface verification.
var (
	_ textract.Getter        = (*Getter)(nil)
	_ textract.DomainLimiter = (*DomainLimiter)(nil)
)

// Getter is a mock implementation of textract.Getter.
type Getter struct {
	GetFn func(ctx context.Context, url string) (*textract.Response, error)
}

func (g *Getter) Get(ctx context.Context, url string) (*textract.Response, error) {
	return g.GetFn(ctx, url)
}

// DomainLimiter is a mock implementation of textract.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
