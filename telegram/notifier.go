// Package telegram delivers job output as a document message through the
// Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/fwojciec/textract"
)

// DefaultBaseURL is the Telegram Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// DefaultTimeout bounds one sendDocument call.
const DefaultTimeout = 30 * time.Second

// maxCaptionLength is the Bot API limit for document captions.
const maxCaptionLength = 1024

// Ensure Notifier implements textract.Notifier at compile time.
var _ textract.Notifier = (*Notifier)(nil)

// Notifier sends text files to one chat.
type Notifier struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
	timeout time.Duration
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithBaseURL points the notifier at a different API endpoint.
func WithBaseURL(u string) Option {
	return func(n *Notifier) {
		n.baseURL = u
	}
}

// WithTimeout sets the request timeout.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		n.timeout = d
	}
}

// NewNotifier creates a Notifier for the bot token and chat ID.
func NewNotifier(token, chatID string, opts ...Option) *Notifier {
	n := &Notifier{
		baseURL: DefaultBaseURL,
		token:   token,
		chatID:  chatID,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.client = &http.Client{Timeout: n.timeout}
	return n
}

// apiResponse is the envelope of every Bot API response.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Notify uploads body as a document named filename with title as caption.
// Returns EINVALID when credentials are missing.
func (n *Notifier) Notify(ctx context.Context, title, body, filename string) error {
	if n.token == "" || n.chatID == "" {
		return textract.Errorf(textract.EINVALID, "telegram credentials missing")
	}
	if filename == "" {
		filename = textract.DefaultNotifyFilename
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", n.chatID); err != nil {
		return err
	}
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(part, body); err != nil {
		return err
	}
	if err := w.WriteField("caption", truncate(title, maxCaptionLength)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendDocument", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return textract.Errorf(textract.EINTERNAL, "malformed telegram response (HTTP %d)", resp.StatusCode)
	}
	if !result.OK {
		if result.Description == "" {
			result.Description = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return textract.Errorf(textract.EINTERNAL, "telegram rejected the request: %s", result.Description)
	}
	return nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
