package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/textract"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ textract.JobService = (*JobService)(nil)

// JobService implements textract.JobService using SQLite.
type JobService struct {
	db *DB
}

// NewJobService creates a new JobService.
func NewJobService(db *DB) *JobService {
	return &JobService{db: db}
}

// CreateJob stores a job with its sections and log entries in one
// transaction. A missing ID is generated; hashes are computed from content.
func (s *JobService) CreateJob(ctx context.Context, job *textract.JobRecord) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if err := job.Validate(); err != nil {
		return err
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	job.OutputHash = ""
	if job.Output != "" {
		job.OutputHash = hashContent(job.Output)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO jobs (id, state, separator, relay_preference, targets, output, output_hash, created_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, string(job.State), job.Separator, job.RelayPreference, job.Targets, job.Output, job.OutputHash,
		formatTime(job.CreatedAt), formatTime(job.FinishedAt)); err != nil {
		return err
	}

	for i := range job.Sections {
		section := &job.Sections[i]
		section.Hash = hashContent(section.Text)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO job_sections (job_id, position, source_url, format, relay, text, hash)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, job.ID, i, section.SourceURL, string(section.Format), section.Relay, section.Text, section.Hash); err != nil {
			return err
		}
	}

	for _, entry := range job.Entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO job_entries (job_id, sequence, level, message, logged_at)
			VALUES (?, ?, ?, ?, ?)
		`, job.ID, entry.Sequence, string(entry.Level), entry.Message, formatTime(entry.Time)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindJobByID retrieves a job with its sections and log entries.
func (s *JobService) FindJobByID(ctx context.Context, id string) (*textract.JobRecord, error) {
	job, err := scanJob(s.db.QueryRowContext(ctx, `
		SELECT id, state, separator, relay_preference, targets, output, output_hash, created_at, finished_at
		FROM jobs
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, textract.Errorf(textract.ENOTFOUND, "job not found")
	}
	if err != nil {
		return nil, err
	}

	if job.Sections, err = s.findSections(ctx, id); err != nil {
		return nil, err
	}
	if job.Entries, err = s.findEntries(ctx, id); err != nil {
		return nil, err
	}
	return job, nil
}

// FindJobs retrieves job summaries, most recent first.
func (s *JobService) FindJobs(ctx context.Context, filter textract.JobFilter) ([]*textract.JobRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, state, separator, relay_preference, targets, output, output_hash, created_at, finished_at FROM jobs WHERE 1=1")

	if filter.State != nil {
		query.WriteString(" AND state = ?")
		args = append(args, string(*filter.State))
	}

	query.WriteString(" ORDER BY created_at DESC, id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*textract.JobRecord
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// DeleteJob permanently removes a job with its sections and log entries.
func (s *JobService) DeleteJob(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return textract.Errorf(textract.ENOTFOUND, "job not found")
	}
	return nil
}

func (s *JobService) findSections(ctx context.Context, jobID string) ([]textract.ExtractedSection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_url, format, relay, text, hash
		FROM job_sections
		WHERE job_id = ?
		ORDER BY position ASC
	`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []textract.ExtractedSection
	for rows.Next() {
		var section textract.ExtractedSection
		var format string
		if err := rows.Scan(&section.SourceURL, &format, &section.Relay, &section.Text, &section.Hash); err != nil {
			return nil, err
		}
		section.Format = textract.Format(format)
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

func (s *JobService) findEntries(ctx context.Context, jobID string) ([]textract.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence, level, message, logged_at
		FROM job_entries
		WHERE job_id = ?
		ORDER BY sequence ASC
	`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []textract.LogEntry
	for rows.Next() {
		var entry textract.LogEntry
		var level, loggedAt string
		if err := rows.Scan(&entry.Sequence, &level, &entry.Message, &loggedAt); err != nil {
			return nil, err
		}
		entry.Level = textract.Level(level)
		if entry.Time, err = parseTime(loggedAt, "logged_at"); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*textract.JobRecord, error) {
	var job textract.JobRecord
	var state, createdAt, finishedAt string

	if err := row.Scan(&job.ID, &state, &job.Separator, &job.RelayPreference, &job.Targets,
		&job.Output, &job.OutputHash, &createdAt, &finishedAt); err != nil {
		return nil, err
	}
	job.State = textract.JobState(state)

	var err error
	if job.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if job.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &job, nil
}
