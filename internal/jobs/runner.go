package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prasdika/tabtrans/internal/pipeline"
	"github.com/prasdika/tabtrans/internal/table"
	"github.com/prasdika/tabtrans/pkg/log"
)

// Runner executes a static job list sequentially. The external API is
// the bottleneck, so there is no parallelism across jobs; sequencing
// also keeps the rate limiter honest.
type Runner struct {
	reader   table.Reader
	writer   table.Writer
	pipeline *pipeline.Pipeline
}

// NewRunner creates a job runner over the given table storage and
// column pipeline.
func NewRunner(reader table.Reader, writer table.Writer, p *pipeline.Pipeline) *Runner {
	return &Runner{
		reader:   reader,
		writer:   writer,
		pipeline: p,
	}
}

// Run processes every job in order and returns one result per job. A
// job's failure is caught, logged and recorded; subsequent jobs still
// run. Run always returns a result for every configured job.
func (r *Runner) Run(ctx context.Context, jobList []Job) []Result {
	results := make([]Result, 0, len(jobList))

	for _, job := range jobList {
		log.Info("Processing %s...", job.Input)
		result := r.runJob(ctx, job)
		if result.Err != nil {
			log.Error("Failed to process %s: %v", job.Input, result.Err)
		} else {
			log.Info("Finished %s: %d distinct values translated", job.Input, result.Translated)
		}
		results = append(results, result)
	}

	return results
}

func (r *Runner) runJob(ctx context.Context, job Job) Result {
	tbl, err := r.reader.Read(job.Input)
	if err != nil {
		errType := pipeline.ErrFileRead
		if errors.Is(err, os.ErrNotExist) {
			errType = pipeline.ErrFileNotFound
		}
		return Result{
			Job:    job,
			Status: StatusFailed,
			Err:    pipeline.WrapError(err, errType, fmt.Sprintf("failed to read table %s", job.Input)),
		}
	}

	writer := pipeline.NewCheckpointWriter(r.writer, job.Output)
	_, translated, err := r.pipeline.Process(ctx, tbl, job.Columns, writer)
	if err != nil {
		return Result{
			Job:        job,
			Status:     StatusFailed,
			Translated: translated,
			Err:        err,
		}
	}

	return Result{
		Job:        job,
		Status:     StatusSuccess,
		Translated: translated,
	}
}
