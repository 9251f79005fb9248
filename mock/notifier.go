package mock

import (
	"context"

	"github.com/fwojciec/textract"
)

var _ textract.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of textract.Notifier.
type Notifier struct {
	NotifyFn func(ctx context.Context, title, body, filename string) error
}

func (n *Notifier) Notify(ctx context.Context, title, body, filename string) error {
	return n.NotifyFn(ctx, title, body, filename)
}
