package mock

import (
	"context"

	"github.com/fwojciec/textract"
)

var _ textract.JobService = (*JobService)(nil)

// JobService is a mock implementation of textract.JobService.
type JobService struct {
	CreateJobFn   func(ctx context.Context, job *textract.JobRecord) error
	FindJobByIDFn func(ctx context.Context, id string) (*textract.JobRecord, error)
	FindJobsFn    func(ctx context.Context, filter textract.JobFilter) ([]*textract.JobRecord, error)
	DeleteJobFn   func(ctx context.Context, id string) error
}

func (s *JobService) CreateJob(ctx context.Context, job *textract.JobRecord) error {
	return s.CreateJobFn(ctx, job)
}

func (s *JobService) FindJobByID(ctx context.Context, id string) (*textract.JobRecord, error) {
	return s.FindJobByIDFn(ctx, id)
}

func (s *JobService) FindJobs(ctx context.Context, filter textract.JobFilter) ([]*textract.JobRecord, error) {
	return s.FindJobsFn(ctx, filter)
}

func (s *JobService) DeleteJob(ctx context.Context, id string) error {
	return s.DeleteJobFn(ctx, id)
}
