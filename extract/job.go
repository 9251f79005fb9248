package extract

import (
	"sync"
	"time"

	"github.com/fwojciec/textract"
)

// Job is one run of the extraction pipeline. Its state, sections and output
// are safe to read while the job runs.
type Job struct {
	ID              string
	Targets         []textract.SourceTarget
	Separator       string
	RelayPreference string
	Log             *textract.JobLog
	CreatedAt       time.Time

	mu         sync.Mutex
	state      textract.JobState
	results    []*textract.ExtractedSection
	sections   []textract.ExtractedSection
	output     string
	finishedAt time.Time
	done       chan struct{}
}

func newJob(id string, req textract.Request, observers []textract.LogFunc, now time.Time) *Job {
	separator := req.Separator
	if separator == "" {
		separator = textract.DefaultSeparator
	}
	targets := textract.ParseTargets(req.Input)
	return &Job{
		ID:              id,
		Targets:         targets,
		Separator:       separator,
		RelayPreference: req.Relay,
		Log:             textract.NewJobLog(observers...),
		CreatedAt:       now,
		state:           textract.JobIdle,
		results:         make([]*textract.ExtractedSection, len(targets)),
		done:            make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (j *Job) State() textract.JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Sections returns the successfully extracted sections in input order.
// While the job runs this is the set resolved so far.
func (j *Job) Sections() []textract.ExtractedSection {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state == textract.JobRunning {
		return j.resolvedLocked()
	}
	out := make([]textract.ExtractedSection, len(j.sections))
	copy(out, j.sections)
	return out
}

// Output returns the aggregated text of a completed job.
func (j *Job) Output() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.output
}

// FinishedAt returns when the job reached a terminal state.
func (j *Job) FinishedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.finishedAt
}

// Done returns a channel that is closed when the job stops running.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job stops running and returns its final state.
func (j *Job) Wait() textract.JobState {
	<-j.done
	return j.State()
}

// Record returns a persistable snapshot of the job.
func (j *Job) Record() *textract.JobRecord {
	// Taken before j.mu: observers run under the log lock.
	entries := j.Log.Entries()

	j.mu.Lock()
	defer j.mu.Unlock()

	sections := make([]textract.ExtractedSection, len(j.sections))
	copy(sections, j.sections)

	return &textract.JobRecord{
		ID:              j.ID,
		State:           j.state,
		Separator:       j.Separator,
		RelayPreference: j.RelayPreference,
		Targets:         len(j.Targets),
		Sections:        sections,
		Entries:         entries,
		Output:          j.output,
		CreatedAt:       j.CreatedAt,
		FinishedAt:      j.finishedAt,
	}
}

func (j *Job) start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = textract.JobRunning
}

// resolve stores the section of the target at index i. Sections arriving
// after the job left Running are dropped.
func (j *Job) resolve(i int, section *textract.ExtractedSection) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != textract.JobRunning {
		return
	}
	j.results[i] = section
}

// finish moves the job to a terminal state, freezing the sections resolved so
// far. It reports false if the job had already finished.
func (j *Job) finish(state textract.JobState, now time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() && j.state != textract.JobIdle {
		return false
	}
	j.sections = j.resolvedLocked()
	if state == textract.JobCompleted {
		j.output = textract.Aggregate(j.sections, j.Separator)
	}
	j.state = state
	j.finishedAt = now
	return true
}

func (j *Job) resolvedLocked() []textract.ExtractedSection {
	var out []textract.ExtractedSection
	for _, s := range j.results {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}
