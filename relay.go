package textract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
)

// Response is the raw result of a relay request.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Getter performs GET requests on behalf of relays.
// Implementations return an error for transport failures and non-2xx statuses.
type Getter interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// Relay is an HTTP intermediary used to reach a source.
// Relays are static configuration shared by all jobs.
type Relay struct {
	ID   string
	Name string

	// Wrap builds the request URL for a target URL.
	Wrap func(target string) string

	// Unwrap extracts the payload from the relay's response envelope.
	Unwrap func(resp *Response) ([]byte, error)

	// Getter overrides the fetcher's default transport when set.
	Getter Getter
}

// Relay identifiers for the built-in relays.
const (
	RelayCORSProxy  = "corsproxy"
	RelayAllOrigins = "allorigins"
	RelayDirect     = "direct"
)

// DefaultRelays returns the built-in relay chain in its default order:
// a generic CORS relay, a JSON-envelope relay and a direct request.
func DefaultRelays() []Relay {
	return []Relay{
		{
			ID:     RelayCORSProxy,
			Name:   "CORS-Proxy.io",
			Wrap:   func(target string) string { return "https://corsproxy.io/?" + url.QueryEscape(target) },
			Unwrap: UnwrapBody,
		},
		{
			ID:     RelayAllOrigins,
			Name:   "AllOrigins",
			Wrap:   func(target string) string { return "https://api.allorigins.win/get?url=" + url.QueryEscape(target) },
			Unwrap: UnwrapContentsEnvelope,
		},
		{
			ID:     RelayDirect,
			Name:   "Direct",
			Wrap:   func(target string) string { return target },
			Unwrap: UnwrapBody,
		},
	}
}

// OrderRelays returns a copy of relays with the preferred relay moved to the
// front. The remaining relays keep their relative order. The second return
// value reports whether the preferred relay was found; an empty preference
// counts as found and leaves the order unchanged.
func OrderRelays(relays []Relay, preferred string) ([]Relay, bool) {
	ordered := make([]Relay, 0, len(relays))
	if preferred == "" {
		return append(ordered, relays...), true
	}

	idx := -1
	for i, r := range relays {
		if r.ID == preferred {
			idx = i
			break
		}
	}
	if idx < 0 {
		return append(ordered, relays...), false
	}

	ordered = append(ordered, relays[idx])
	ordered = append(ordered, relays[:idx]...)
	ordered = append(ordered, relays[idx+1:]...)
	return ordered, true
}

// RelayByID returns the relay with the given ID.
// Returns ENOTFOUND if no relay matches.
func RelayByID(relays []Relay, id string) (Relay, error) {
	for _, r := range relays {
		if r.ID == id {
			return r, nil
		}
	}
	return Relay{}, Errorf(ENOTFOUND, "relay %q not found", id)
}

// UnwrapBody returns the response body unchanged.
func UnwrapBody(resp *Response) ([]byte, error) {
	if len(resp.Body) == 0 {
		return nil, Errorf(ERELAY, "empty response body")
	}
	return resp.Body, nil
}

// UnwrapContentsEnvelope decodes a JSON envelope of the form
// {"contents": "..."}. Binary payloads delivered as base64 data URIs are
// decoded to raw bytes.
func UnwrapContentsEnvelope(resp *Response) ([]byte, error) {
	var envelope struct {
		Contents string `json:"contents"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, Errorf(ERELAY, "malformed envelope: %v", err)
	}
	if envelope.Contents == "" {
		return nil, Errorf(ERELAY, "could not retrieve page content from relay response")
	}

	if data, ok, err := decodeDataURI(envelope.Contents); ok {
		if err != nil {
			return nil, Errorf(ERELAY, "malformed data URI: %v", err)
		}
		return data, nil
	}
	return []byte(envelope.Contents), nil
}

// decodeDataURI decodes a base64 data URI such as
// "data:application/pdf;base64,JVBERi0...". The second return value reports
// whether s was a base64 data URI at all.
func decodeDataURI(s string) ([]byte, bool, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, false, nil
	}
	meta, payload, found := strings.Cut(s, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return nil, false, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}

// FetchAttempt is the outcome of trying one relay for one target.
type FetchAttempt struct {
	Target  SourceTarget
	Relay   Relay
	Payload []byte
	Err     error
}

// OK reports whether the attempt produced a payload.
func (a FetchAttempt) OK() bool {
	return a.Err == nil
}
