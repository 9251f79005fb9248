package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/textract"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency resolves sources one after another.
const DefaultConcurrency = 1

// Extractor runs extraction jobs.
type Extractor struct {
	Fetcher *SourceFetcher

	// Relays is the relay chain in default order.
	Relays []textract.Relay

	// Notifier receives the output of completed jobs. Optional.
	Notifier textract.Notifier

	// Jobs records finished jobs. Optional.
	Jobs textract.JobService

	// Concurrency bounds how many sources are resolved at once.
	// Defaults to DefaultConcurrency.
	Concurrency int

	// Observers receive every log entry of every job as it is appended.
	Observers []textract.LogFunc

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewExtractor creates an Extractor with the built-in relay chain.
func NewExtractor(fetcher *SourceFetcher) *Extractor {
	return &Extractor{
		Fetcher:     fetcher,
		Relays:      textract.DefaultRelays(),
		Concurrency: DefaultConcurrency,
	}
}

// Run executes a job for req and returns it once it stopped running.
func (e *Extractor) Run(ctx context.Context, req textract.Request) *Job {
	job := e.newJob(req)
	e.run(ctx, job)
	return job
}

// Start executes a job for req in the background and returns it
// immediately. Use Job.Wait or Job.Done to observe termination.
func (e *Extractor) Start(ctx context.Context, req textract.Request) *Job {
	job := e.newJob(req)
	go e.run(ctx, job)
	return job
}

func (e *Extractor) newJob(req textract.Request) *Job {
	return newJob(uuid.New().String(), req, e.Observers, e.now())
}

func (e *Extractor) run(ctx context.Context, job *Job) {
	defer close(job.done)

	if len(job.Targets) == 0 {
		job.Log.Error("No valid URLs found. Make sure each URL starts with http:// or https://.")
		return
	}

	relays, found := textract.OrderRelays(e.Relays, job.RelayPreference)
	if len(relays) == 0 {
		job.Log.Error("No relays configured.")
		job.finish(textract.JobFailed, e.now())
		e.record(ctx, job)
		return
	}

	job.start()
	job.Log.Info("Starting extraction process...")
	job.Log.Info("Found %d valid URL(s).", len(job.Targets))
	if !found {
		job.Log.Warn("Unknown relay %q, using default order.", job.RelayPreference)
	}

	select {
	case <-e.dispatch(ctx, job, relays):
	case <-ctx.Done():
	}

	// A job canceled while its last source resolves is still canceled.
	if ctx.Err() != nil {
		job.finish(textract.JobCancelled, e.now())
		job.Log.Close()
		e.record(context.WithoutCancel(ctx), job)
		return
	}

	job.Log.Info("Combining all extracted content...")
	job.finish(textract.JobCompleted, e.now())
	sections := job.Sections()
	job.Log.Success("Extraction finished. %d of %d source(s) extracted.", len(sections), len(job.Targets))

	if output := job.Output(); output != "" && e.Notifier != nil {
		title := fmt.Sprintf("Extracted text from %d source(s)", len(sections))
		if err := e.Notifier.Notify(ctx, title, output, textract.DefaultNotifyFilename); err != nil {
			job.Log.Error("Notification failed: %s", describe(err))
		} else {
			job.Log.Info("Notification sent.")
		}
	}

	e.record(ctx, job)
}

// dispatch resolves every target with bounded parallelism and closes the
// returned channel when all of them reached an outcome. Targets not yet
// started when ctx ends are skipped.
func (e *Extractor) dispatch(ctx context.Context, job *Job, relays []textract.Relay) <-chan struct{} {
	done := make(chan struct{})

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		defer close(done)
		for i, target := range job.Targets {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				section, err := e.Fetcher.Fetch(ctx, target, relays, job.Log)
				if err != nil {
					return nil
				}
				job.resolve(i, section)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return done
}

// record stores a finished job. Failures are reported by the JobService
// itself and never change the job outcome.
func (e *Extractor) record(ctx context.Context, job *Job) {
	if e.Jobs == nil {
		return
	}
	_ = e.Jobs.CreateJob(ctx, job.Record())
}

func (e *Extractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
