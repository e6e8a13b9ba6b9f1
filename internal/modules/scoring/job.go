package scoring

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// BatchScoringJob runs the nightly batch scoring run. It satisfies the
// scheduler's Job interface.
type BatchScoringJob struct {
	runner *BatchRunner
	log    zerolog.Logger
}

// NewBatchScoringJob creates the scheduled batch scoring job.
func NewBatchScoringJob(runner *BatchRunner, log zerolog.Logger) *BatchScoringJob {
	return &BatchScoringJob{
		runner: runner,
		log:    log.With().Str("job", "batch_scoring").Logger(),
	}
}

// Name returns the job name.
func (j *BatchScoringJob) Name() string {
	return "batch_scoring"
}

// Run scores the whole universe for today's date.
func (j *BatchScoringJob) Run() error {
	result, err := j.runner.Run(context.Background(), time.Now().UTC())
	if err != nil {
		return err
	}

	j.log.Info().
		Str("run_id", result.Run.ID).
		Str("status", string(result.Run.Status)).
		Int("scored", result.Run.CompaniesScored).
		Int("failed", result.Run.CompaniesFailed).
		Msg("Batch scoring run finished")

	return nil
}
