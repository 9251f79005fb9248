package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/textract"
)

// Ensure LoggingNotifier implements textract.Notifier.
var _ textract.Notifier = (*LoggingNotifier)(nil)

// LoggingNotifier wraps a Notifier with debug logging.
type LoggingNotifier struct {
	next   textract.Notifier
	logger *slog.Logger
}

// NewLoggingNotifier creates a new LoggingNotifier.
func NewLoggingNotifier(next textract.Notifier, logger *slog.Logger) *LoggingNotifier {
	return &LoggingNotifier{next: next, logger: logger}
}

// Notify delegates to the wrapped notifier and logs the delivery.
func (n *LoggingNotifier) Notify(ctx context.Context, title, body, filename string) (err error) {
	defer func(begin time.Time) {
		n.logger.Info("notify",
			"title", title,
			"filename", filename,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.Notify(ctx, title, body, filename)
}
