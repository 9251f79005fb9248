// Package extract orchestrates multi-source text extraction. It fetches each
// source through a chain of relays, normalizes the payload according to the
// source format and aggregates the results of a job in input order.
package extract

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/textract"
)

// SourceFetcher resolves one source by trying relays in order until one
// yields decodable content.
type SourceFetcher struct {
	// Getter is used for relays that do not carry their own.
	Getter textract.Getter

	HTML textract.HTMLNormalizer
	PDF  textract.PDFNormalizer

	// Limiter throttles requests per relay host. Optional.
	Limiter textract.DomainLimiter
}

// Fetch resolves target using relays in the given order, reporting every
// attempt to log. The first relay whose payload normalizes to non-empty text
// wins; each relay is tried at most once.
//
// Returns ECANCELED as soon as ctx is done, without trying further relays or
// logging the interrupted attempt. Returns EEXHAUSTED when every relay failed.
func (f *SourceFetcher) Fetch(ctx context.Context, target textract.SourceTarget, relays []textract.Relay, log *textract.JobLog) (*textract.ExtractedSection, error) {
	for _, relay := range relays {
		if err := ctx.Err(); err != nil {
			return nil, canceled(err)
		}

		log.Info("Trying %s for %s...", relay.Name, target.URL)

		attempt := f.attempt(ctx, target, relay)
		var text string
		err := attempt.Err
		if err == nil {
			text, err = f.normalize(ctx, target, attempt.Payload)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, canceled(ctxErr)
			}
			log.Warn("%s failed for %s: %s", relay.Name, target.URL, describe(err))
			continue
		}

		log.Success("Extracted from %s using %s.", target.URL, relay.Name)
		return &textract.ExtractedSection{
			SourceURL: target.URL,
			Format:    target.Format,
			Text:      text,
			Relay:     relay.ID,
			Hash:      computeHash(text),
		}, nil
	}

	log.Error("All relays failed for %s.", target.URL)
	return nil, textract.Errorf(textract.EEXHAUSTED, "all relays failed for %s", target.URL)
}

// attempt performs one relay request and unwraps its envelope.
func (f *SourceFetcher) attempt(ctx context.Context, target textract.SourceTarget, relay textract.Relay) textract.FetchAttempt {
	a := textract.FetchAttempt{Target: target, Relay: relay}

	requestURL := relay.Wrap(target.URL)

	getter := relay.Getter
	if getter == nil {
		getter = f.Getter
	}
	if getter == nil {
		a.Err = textract.Errorf(textract.EINTERNAL, "no transport configured for relay %s", relay.ID)
		return a
	}

	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx, hostOf(requestURL)); err != nil {
			a.Err = err
			return a
		}
	}

	resp, err := getter.Get(ctx, requestURL)
	if err != nil {
		a.Err = err
		return a
	}

	a.Payload, a.Err = relay.Unwrap(resp)
	return a
}

// normalize dispatches payload to the normalizer for the target format.
// Empty output counts as a decode failure.
func (f *SourceFetcher) normalize(ctx context.Context, target textract.SourceTarget, payload []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch target.Format {
	case textract.FormatPDF:
		if f.PDF == nil {
			return "", textract.Errorf(textract.EINTERNAL, "no PDF normalizer configured")
		}
		text, err = f.PDF.NormalizePDF(ctx, payload)
	default:
		if f.HTML == nil {
			return "", textract.Errorf(textract.EINTERNAL, "no HTML normalizer configured")
		}
		text, err = f.HTML.NormalizeHTML(string(payload))
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", textract.Errorf(textract.EDECODE, "no text extracted")
	}
	return text, nil
}

// hostOf returns the host of rawURL, or rawURL itself if it cannot be parsed.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Hostname()
}

// describe returns the human-readable reason carried by err.
func describe(err error) string {
	var e *textract.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func canceled(err error) error {
	return textract.Errorf(textract.ECANCELED, "extraction canceled: %v", err)
}

func computeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
