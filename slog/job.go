package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/textract"
)

// Ensure LoggingJobService implements textract.JobService.
var _ textract.JobService = (*LoggingJobService)(nil)

// LoggingJobService wraps a JobService with debug logging.
// Failed writes are logged at Error level.
type LoggingJobService struct {
	next   textract.JobService
	logger *slog.Logger
}

// NewLoggingJobService creates a new LoggingJobService.
func NewLoggingJobService(next textract.JobService, logger *slog.Logger) *LoggingJobService {
	return &LoggingJobService{next: next, logger: logger}
}

// CreateJob delegates to the wrapped service and logs the write.
func (s *LoggingJobService) CreateJob(ctx context.Context, job *textract.JobRecord) (err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "create job",
			"id", job.ID,
			"state", job.State,
			"sections", len(job.Sections),
			"entries", len(job.Entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateJob(ctx, job)
}

// FindJobByID delegates to the wrapped service and logs the lookup.
func (s *LoggingJobService) FindJobByID(ctx context.Context, id string) (job *textract.JobRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find job",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindJobByID(ctx, id)
}

// FindJobs delegates to the wrapped service and logs the query.
func (s *LoggingJobService) FindJobs(ctx context.Context, filter textract.JobFilter) (jobs []*textract.JobRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find jobs",
			"count", len(jobs),
			"limit", filter.Limit,
			"offset", filter.Offset,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindJobs(ctx, filter)
}

// DeleteJob delegates to the wrapped service and logs the deletion.
func (s *LoggingJobService) DeleteJob(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete job",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteJob(ctx, id)
}
