package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/textract"
)

// Ensure LoggingPDFNormalizer implements textract.PDFNormalizer.
var _ textract.PDFNormalizer = (*LoggingPDFNormalizer)(nil)

// LoggingPDFNormalizer wraps a PDFNormalizer with debug logging.
type LoggingPDFNormalizer struct {
	next   textract.PDFNormalizer
	logger *slog.Logger
}

// NewLoggingPDFNormalizer creates a new LoggingPDFNormalizer.
func NewLoggingPDFNormalizer(next textract.PDFNormalizer, logger *slog.Logger) *LoggingPDFNormalizer {
	return &LoggingPDFNormalizer{next: next, logger: logger}
}

// NormalizePDF delegates to the wrapped normalizer and logs sizes and timing.
func (n *LoggingPDFNormalizer) NormalizePDF(ctx context.Context, data []byte) (text string, err error) {
	defer func(begin time.Time) {
		n.logger.Info("normalize pdf",
			"bytes", len(data),
			"chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.NormalizePDF(ctx, data)
}
