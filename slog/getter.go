// Package slog provides log/slog decorators for textract services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/textract"
)

// Ensure LoggingGetter implements textract.Getter.
var _ textract.Getter = (*LoggingGetter)(nil)

// LoggingGetter wraps a Getter with debug logging.
type LoggingGetter struct {
	next   textract.Getter
	logger *slog.Logger
}

// NewLoggingGetter creates a new LoggingGetter.
func NewLoggingGetter(next textract.Getter, logger *slog.Logger) *LoggingGetter {
	return &LoggingGetter{next: next, logger: logger}
}

// Get logs the request and delegates to the wrapped getter.
func (g *LoggingGetter) Get(ctx context.Context, url string) (resp *textract.Response, err error) {
	defer func(begin time.Time) {
		var status, size int
		if resp != nil {
			status, size = resp.StatusCode, len(resp.Body)
		}
		g.logger.Info("get",
			"url", url,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Get(ctx, url)
}
