package extract_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/textract"
	"github.com/fwojciec/textract/extract"
	"github.com/fwojciec/textract/goquery"
	"github.com/fwojciec/textract/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestExtractor wires an Extractor with two test relays around getter.
func newTestExtractor(getter textract.Getter) *extract.Extractor {
	fetcher := &extract.SourceFetcher{
		Getter: getter,
		HTML:   passthroughHTML(),
		PDF: &mock.PDFNormalizer{
			NormalizePDFFn: func(_ context.Context, data []byte) (string, error) {
				return "[PAGE 1]\n" + string(data), nil
			},
		},
	}
	e := extract.NewExtractor(fetcher)
	e.Relays = []textract.Relay{testRelay("one"), testRelay("two")}
	return e
}

// targetOf returns the source URL wrapped by a test relay.
func targetOf(url string) string {
	_, target, _ := strings.Cut(url, "/?")
	return target
}

func TestExtractor_Run(t *testing.T) {
	t.Parallel()

	t.Run("extracts HTML through the real normalizer", func(t *testing.T) {
		t.Parallel()

		fetcher := &extract.SourceFetcher{
			Getter: &mock.Getter{
				GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
					return okResponse("<html><body><script>x</script><p>Hello  World</p></body></html>"), nil
				},
			},
			HTML: goquery.NewNormalizer(),
		}
		e := extract.NewExtractor(fetcher)
		e.Relays = []textract.Relay{testRelay("one")}

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/page"})

		assert.Equal(t, textract.JobCompleted, job.State())
		sections := job.Sections()
		require.Len(t, sections, 1)
		assert.Equal(t, "Hello World", sections[0].Text)
		assert.Equal(t, "[SOURCE: https://a.test/page] (HTML)\n\nHello World", job.Output())
	})

	t.Run("joins sections in input order with the separator", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, url string) (*textract.Response, error) {
				if targetOf(url) == "https://a.test/x.pdf" {
					return okResponse("Report"), nil
				}
				return okResponse("Page"), nil
			},
		})

		job := e.Run(context.Background(), textract.Request{
			Input:     "https://a.test/x.pdf\nhttps://b.test/y",
			Separator: "---",
		})

		require.Equal(t, textract.JobCompleted, job.State())
		assert.Equal(t,
			"[SOURCE: https://a.test/x.pdf] (PDF)\n\n[PAGE 1]\nReport\n\n---\n\n[SOURCE: https://b.test/y] (HTML)\n\nPage",
			job.Output())
	})

	t.Run("logs one warning then success when the first relay fails", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, url string) (*textract.Response, error) {
				if strings.HasPrefix(url, "https://one.relay") {
					return nil, textract.Errorf(textract.ERELAY, "HTTP 500 for %s", url)
				}
				return okResponse("Page"), nil
			},
		})

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/page"})

		require.Equal(t, textract.JobCompleted, job.State())
		require.Len(t, job.Sections(), 1)

		var sourceLevels []textract.Level
		for _, entry := range job.Log.Entries() {
			if strings.Contains(entry.Message, "https://a.test/page") && entry.Level != textract.LevelInfo {
				sourceLevels = append(sourceLevels, entry.Level)
			}
		}
		assert.Equal(t, []textract.Level{textract.LevelWarn, textract.LevelSuccess}, sourceLevels)
	})

	t.Run("stays idle with one error for input without URLs", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				t.Fatal("no network calls expected")
				return nil, nil
			},
		})

		job := e.Run(context.Background(), textract.Request{Input: "\n  not a url \nftp://x.test"})

		assert.Equal(t, textract.JobIdle, job.State())
		entries := job.Log.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, textract.LevelError, entries[0].Level)
		assert.Contains(t, entries[0].Message, "No valid URLs found")
		assert.Empty(t, job.Sections())
		assert.Empty(t, job.Output())
	})

	t.Run("stays idle with one error for blank input", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				t.Fatal("no network calls expected")
				return nil, nil
			},
		})

		job := e.Run(context.Background(), textract.Request{Input: "  \n"})

		assert.Equal(t, textract.JobIdle, job.State())
		entries := job.Log.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, textract.LevelError, entries[0].Level)
		assert.Contains(t, entries[0].Message, "No valid URLs found")
	})

	t.Run("completes with no sections and one error per target when every relay fails", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				return nil, errors.New("connection refused")
			},
		})
		e.Notifier = &mock.Notifier{
			NotifyFn: func(_ context.Context, _, _, _ string) error {
				t.Fatal("empty output must not be sent")
				return nil
			},
		}

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/1\nhttps://a.test/2\nhttps://a.test/3.pdf"})

		assert.Equal(t, textract.JobCompleted, job.State())
		assert.Empty(t, job.Sections())
		assert.Empty(t, job.Output())
		assert.Equal(t, 3, job.Log.Count(textract.LevelError))
		assert.Equal(t, 6, job.Log.Count(textract.LevelWarn))
	})

	t.Run("keeps input order under parallel resolution", func(t *testing.T) {
		t.Parallel()

		urls := []string{"https://a.test/0", "https://a.test/1", "https://a.test/2", "https://a.test/3", "https://a.test/4"}
		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, url string) (*textract.Response, error) {
				target := targetOf(url)
				// Earlier targets resolve later.
				for i, u := range urls {
					if u == target {
						time.Sleep(time.Duration(len(urls)-i) * 10 * time.Millisecond)
					}
				}
				// Odd targets need the second relay.
				if strings.HasPrefix(url, "https://one.relay") && (strings.HasSuffix(target, "1") || strings.HasSuffix(target, "3")) {
					return nil, errors.New("blocked")
				}
				return okResponse("text of " + target), nil
			},
		})
		e.Concurrency = len(urls)

		job := e.Run(context.Background(), textract.Request{Input: strings.Join(urls, "\n")})

		require.Equal(t, textract.JobCompleted, job.State())
		sections := job.Sections()
		require.Len(t, sections, len(urls))
		for i, s := range sections {
			assert.Equal(t, urls[i], s.SourceURL)
			assert.Equal(t, "text of "+urls[i], s.Text)
		}
		assert.Equal(t, "two", sections[1].Relay)
		assert.Equal(t, "one", sections[2].Relay)
	})

	t.Run("omits failed sources without placeholders", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, url string) (*textract.Response, error) {
				if targetOf(url) == "https://b.test/broken" {
					return nil, errors.New("down")
				}
				return okResponse("ok"), nil
			},
		})
		e.Concurrency = 3

		job := e.Run(context.Background(), textract.Request{
			Input:     "https://a.test/1\nhttps://b.test/broken\nhttps://c.test/3",
			Separator: "|",
		})

		require.Equal(t, textract.JobCompleted, job.State())
		assert.Equal(t, "[SOURCE: https://a.test/1] (HTML)\n\nok\n\n|\n\n[SOURCE: https://c.test/3] (HTML)\n\nok", job.Output())
	})

	t.Run("uses default separator", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				return okResponse("ok"), nil
			},
		})

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/1\nhttps://a.test/2"})

		assert.Equal(t, textract.DefaultSeparator, job.Separator)
		assert.Contains(t, job.Output(), "\n\n__SEP__\n\n")
	})

	t.Run("tries the preferred relay first", func(t *testing.T) {
		t.Parallel()

		var first string
		var once sync.Once
		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, url string) (*textract.Response, error) {
				once.Do(func() { first = url })
				return okResponse("ok"), nil
			},
		})

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/page", Relay: "two"})

		require.Equal(t, textract.JobCompleted, job.State())
		assert.True(t, strings.HasPrefix(first, "https://two.relay"))
		assert.Equal(t, "two", job.Sections()[0].Relay)
	})

	t.Run("warns about an unknown preferred relay", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				return okResponse("ok"), nil
			},
		})

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/page", Relay: "missing"})

		require.Equal(t, textract.JobCompleted, job.State())
		assert.Equal(t, 1, job.Log.Count(textract.LevelWarn))
		assert.Equal(t, "one", job.Sections()[0].Relay)
	})

	t.Run("fails without relays", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{})
		e.Relays = nil

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/page"})

		assert.Equal(t, textract.JobFailed, job.State())
		assert.Equal(t, 1, job.Log.Count(textract.LevelError))
	})

	t.Run("logs start and finish", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				return okResponse("ok"), nil
			},
		})

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/1\nhttps://a.test/2"})

		entries := job.Log.Entries()
		require.GreaterOrEqual(t, len(entries), 4)
		assert.Equal(t, "Starting extraction process...", entries[0].Message)
		assert.Equal(t, "Found 2 valid URL(s).", entries[1].Message)
		last := entries[len(entries)-1]
		assert.Equal(t, textract.LevelSuccess, last.Level)
		assert.True(t, strings.HasPrefix(last.Message, "Extraction finished."))
		for i, entry := range entries {
			assert.Equal(t, i+1, entry.Sequence)
		}
	})

	t.Run("streams entries to observers", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var seen []string
		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				return okResponse("ok"), nil
			},
		})
		e.Observers = []textract.LogFunc{func(entry textract.LogEntry) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, entry.Message)
		}}

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/1"})

		mu.Lock()
		defer mu.Unlock()
		assert.Len(t, seen, job.Log.Len())
	})
}

func TestExtractor_Cancel(t *testing.T) {
	t.Parallel()

	t.Run("keeps only sources resolved before cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		e := newTestExtractor(&mock.Getter{
			GetFn: func(ctx context.Context, url string) (*textract.Response, error) {
				if targetOf(url) == "https://a.test/2" {
					cancel()
					<-ctx.Done()
					return nil, ctx.Err()
				}
				return okResponse("ok"), nil
			},
		})
		e.Notifier = &mock.Notifier{
			NotifyFn: func(_ context.Context, _, _, _ string) error {
				t.Fatal("canceled jobs must not notify")
				return nil
			},
		}

		job := e.Run(ctx, textract.Request{Input: "https://a.test/1\nhttps://a.test/2\nhttps://a.test/3"})

		assert.Equal(t, textract.JobCancelled, job.State())
		sections := job.Sections()
		require.Len(t, sections, 1)
		assert.Equal(t, "https://a.test/1", sections[0].SourceURL)
		assert.Empty(t, job.Output())
		for _, entry := range job.Log.Entries() {
			assert.NotContains(t, entry.Message, "https://a.test/3")
		}
	})

	t.Run("does not wait for in-flight requests", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		t.Cleanup(func() { close(release) })

		started := make(chan struct{})
		var startedOnce sync.Once
		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				startedOnce.Do(func() { close(started) })
				<-release
				return okResponse("late"), nil
			},
		})

		ctx, cancel := context.WithCancel(context.Background())
		job := e.Start(ctx, textract.Request{Input: "https://a.test/1"})
		<-started
		cancel()

		select {
		case <-job.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("job did not stop after cancellation")
		}
		assert.Equal(t, textract.JobCancelled, job.State())
		assert.Empty(t, job.Sections())
	})

	t.Run("drops log entries after cancellation", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		finished := make(chan struct{})
		started := make(chan struct{})
		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				close(started)
				<-release
				defer close(finished)
				return okResponse("late"), nil
			},
		})
		e.Relays = e.Relays[:1]

		ctx, cancel := context.WithCancel(context.Background())
		job := e.Start(ctx, textract.Request{Input: "https://a.test/1"})
		<-started
		cancel()
		job.Wait()
		before := job.Log.Len()

		close(release)
		<-finished
		time.Sleep(20 * time.Millisecond)

		assert.Equal(t, before, job.Log.Len())
		assert.Empty(t, job.Sections())
	})
}

func TestExtractor_Notify(t *testing.T) {
	t.Parallel()

	t.Run("sends output as an attachment", func(t *testing.T) {
		t.Parallel()

		var gotTitle, gotBody, gotFilename string
		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				return okResponse("ok"), nil
			},
		})
		e.Notifier = &mock.Notifier{
			NotifyFn: func(_ context.Context, title, body, filename string) error {
				gotTitle, gotBody, gotFilename = title, body, filename
				return nil
			},
		}

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/1"})

		assert.NotEmpty(t, gotTitle)
		assert.Equal(t, job.Output(), gotBody)
		assert.Equal(t, textract.DefaultNotifyFilename, gotFilename)
		assert.Equal(t, 0, job.Log.Count(textract.LevelError))
	})

	t.Run("logs notifier failure without failing the job", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				return okResponse("ok"), nil
			},
		})
		e.Notifier = &mock.Notifier{
			NotifyFn: func(_ context.Context, _, _, _ string) error {
				return textract.Errorf(textract.EINTERNAL, "telegram rejected the request")
			},
		}

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/1"})

		assert.Equal(t, textract.JobCompleted, job.State())
		assert.Equal(t, 1, job.Log.Count(textract.LevelError))
		entries := job.Log.Entries()
		assert.Contains(t, entries[len(entries)-1].Message, "telegram rejected the request")
	})
}

func TestExtractor_Record(t *testing.T) {
	t.Parallel()

	t.Run("records completed jobs", func(t *testing.T) {
		t.Parallel()

		var recorded *textract.JobRecord
		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				return okResponse("ok"), nil
			},
		})
		e.Jobs = &mock.JobService{
			CreateJobFn: func(_ context.Context, job *textract.JobRecord) error {
				recorded = job
				return nil
			},
		}

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/1", Relay: "two"})

		require.NotNil(t, recorded)
		assert.Equal(t, job.ID, recorded.ID)
		assert.Equal(t, textract.JobCompleted, recorded.State)
		assert.Equal(t, "two", recorded.RelayPreference)
		assert.Equal(t, 1, recorded.Targets)
		assert.Len(t, recorded.Sections, 1)
		assert.Equal(t, job.Output(), recorded.Output)
		assert.Equal(t, job.Log.Len(), len(recorded.Entries))
		assert.False(t, recorded.FinishedAt.IsZero())
	})

	t.Run("records canceled jobs", func(t *testing.T) {
		t.Parallel()

		var state atomic.Value
		ctx, cancel := context.WithCancel(context.Background())
		e := newTestExtractor(&mock.Getter{
			GetFn: func(ctx context.Context, _ string) (*textract.Response, error) {
				cancel()
				return nil, ctx.Err()
			},
		})
		e.Jobs = &mock.JobService{
			CreateJobFn: func(_ context.Context, job *textract.JobRecord) error {
				state.Store(job.State)
				return nil
			},
		}

		e.Run(ctx, textract.Request{Input: "https://a.test/1"})

		assert.Equal(t, textract.JobCancelled, state.Load())
	})

	t.Run("ignores recording failures", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(&mock.Getter{
			GetFn: func(_ context.Context, _ string) (*textract.Response, error) {
				return okResponse("ok"), nil
			},
		})
		e.Jobs = &mock.JobService{
			CreateJobFn: func(_ context.Context, _ *textract.JobRecord) error {
				return errors.New("disk full")
			},
		}

		job := e.Run(context.Background(), textract.Request{Input: "https://a.test/1"})

		assert.Equal(t, textract.JobCompleted, job.State())
		assert.Equal(t, 0, job.Log.Count(textract.LevelError))
	})
}
