package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fwojciec/textract"
	"github.com/fwojciec/textract/extract"
	"github.com/fwojciec/textract/fs"
	"github.com/fwojciec/textract/goquery"
	"github.com/fwojciec/textract/htmltomarkdown"
	texthttp "github.com/fwojciec/textract/http"
	"github.com/fwojciec/textract/pdf"
	"github.com/fwojciec/textract/readability"
	"github.com/fwojciec/textract/rod"
	textslog "github.com/fwojciec/textract/slog"
	"github.com/fwojciec/textract/telegram"
	"github.com/fwojciec/textract/trafilatura"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	input, err := c.input(deps.Stdin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	if c.Relay != "" {
		if _, err := textract.RelayByID(deps.Extractor.Relays, c.Relay); err != nil {
			return textract.Errorf(textract.EINVALID, "unknown relay %q. Run 'textract relays' to list them", c.Relay)
		}
	}

	deps.Extractor.Observers = append(deps.Extractor.Observers, func(e textract.LogEntry) {
		fmt.Fprintln(deps.Stderr, e.String())
	})

	job := deps.Extractor.Run(deps.Ctx, textract.Request{
		Input:     input,
		Separator: c.Separator,
		Relay:     c.Relay,
	})

	switch job.State() {
	case textract.JobIdle:
		return textract.Errorf(textract.EINVALID, "no valid URLs found")
	case textract.JobCancelled:
		return textract.Errorf(textract.ECANCELED, "extraction canceled (job %s)", job.ID)
	case textract.JobFailed:
		return textract.Errorf(textract.EINTERNAL, "extraction failed (job %s)", job.ID)
	}

	if len(job.Sections()) == 0 {
		return textract.Errorf(textract.EEXHAUSTED, "no source could be extracted (job %s)", job.ID)
	}

	if err := c.write(deps.Stdout, job.Output()); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	if c.Split != "" {
		ext := ".txt"
		if c.Markdown {
			ext = ".md"
		}
		paths, err := fs.NewWriter(c.Split, ext).WriteSections(job.Sections())
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
		fmt.Fprintf(deps.Stderr, "Wrote %d file(s) to %s\n", len(paths), c.Split)
	}

	fmt.Fprintf(deps.Stderr, "Job %s\n", job.ID)
	return nil
}

// input returns the URL list from arguments, --file or stdin, in that order.
func (c *ExtractCmd) input(stdin io.Reader) (string, error) {
	if len(c.URLs) > 0 {
		return strings.Join(c.URLs, "\n"), nil
	}
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", c.File, err)
		}
		return string(data), nil
	}
	if stdin == nil {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func (c *ExtractCmd) write(stdout io.Writer, output string) error {
	if c.Output == "" {
		_, err := fmt.Fprintln(stdout, output)
		return err
	}
	if err := os.WriteFile(c.Output, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", c.Output, err)
	}
	return nil
}

// newExtractor wires the extraction pipeline for the command's flags. The
// returned cleanup func releases the browser when one was started.
func (c *ExtractCmd) newExtractor(jobs textract.JobService, logger *slog.Logger) (*extract.Extractor, func(), error) {
	cleanup := func() {}

	if c.Notify && (c.BotToken == "" || c.ChatID == "") {
		return nil, cleanup, fmt.Errorf("--notify requires TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
	}

	var htmlOpts []goquery.Option
	switch c.Extractor {
	case "trafilatura":
		htmlOpts = append(htmlOpts, goquery.WithExtractor(trafilatura.NewExtractor()))
	case "readability":
		htmlOpts = append(htmlOpts, goquery.WithExtractor(readability.NewExtractor()))
	}
	if c.Markdown {
		htmlOpts = append(htmlOpts, goquery.WithConverter(htmltomarkdown.NewConverter()))
	}

	pdfNormalizer := textract.NewLayoutNormalizer(pdf.NewDecoder(), textract.WithTolerance(textract.Tolerance{
		SameLine:  c.SameLine,
		LineBreak: c.LineBreak,
	}))

	fetcher := &extract.SourceFetcher{
		Getter:  textslog.NewLoggingGetter(texthttp.NewGetter(texthttp.WithTimeout(c.Timeout)), logger),
		HTML:    goquery.NewNormalizer(htmlOpts...),
		PDF:     textslog.NewLoggingPDFNormalizer(pdfNormalizer, logger),
		Limiter: texthttp.NewDomainLimiter(c.RPS),
	}

	e := extract.NewExtractor(fetcher)
	e.Concurrency = c.Concurrency
	e.Jobs = jobs

	if c.Browser {
		browser := rod.NewGetter(rod.WithTimeout(c.Timeout))
		cleanup = func() { _ = browser.Close() }
		relay := browser.Relay()
		relay.Getter = textslog.NewLoggingGetter(browser, logger)
		e.Relays = append(e.Relays, relay)
	}

	if c.Notify {
		e.Notifier = textslog.NewLoggingNotifier(telegram.NewNotifier(c.BotToken, c.ChatID), logger)
	}

	return e, cleanup, nil
}
