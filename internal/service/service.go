// Package service assembles the translation stack from configuration
// and drives the job runner, either once or on a cron schedule.
package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/prasdika/tabtrans/internal/config"
	"github.com/prasdika/tabtrans/internal/jobs"
	"github.com/prasdika/tabtrans/internal/persistence"
	"github.com/prasdika/tabtrans/internal/pipeline"
	"github.com/prasdika/tabtrans/internal/table"
	"github.com/prasdika/tabtrans/internal/translate"
	"github.com/prasdika/tabtrans/pkg/log"
)

// TransService owns one configured job list and the capability stack
// that processes it.
type TransService struct {
	cfg     config.Config
	jobList []jobs.Job
	cron    *cron.Cron

	store *persistence.SQLiteStore
}

// NewTransService creates a service over a static job list.
func NewTransService(cfg config.Config, jobList []jobs.Job) *TransService {
	return &TransService{
		cfg:     cfg,
		jobList: jobList,
		cron:    cron.New(),
	}
}

// Close releases the translation memory store, if one was opened.
func (s *TransService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// RunOnce processes the whole job list a single time. Individual job
// failures are logged and summarized, never propagated; the returned
// error covers only stack construction, which is fatal by design.
func (s *TransService) RunOnce(ctx context.Context) error {
	runner, err := s.buildRunner(ctx)
	if err != nil {
		return err
	}

	results := runner.Run(ctx, s.jobList)
	printSummary(results)
	return nil
}

var singleflightGroup singleflight.Group

// Schedule runs the job list on the configured cron expression and
// blocks. Overlapping triggers collapse into the in-flight run.
func (s *TransService) Schedule(ctx context.Context) error {
	log.Info("Scheduling translation runs with cron expression %q", s.cfg.System.CronExpr)

	runFunc := func() {
		_, _, _ = singleflightGroup.Do("run", func() (any, error) {
			if err := s.RunOnce(ctx); err != nil {
				log.Error("Scheduled run failed: %v", err)
			}
			return nil, nil
		})
	}
	if _, err := s.cron.AddFunc(s.cfg.System.CronExpr, runFunc); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.cfg.System.CronExpr, err)
	}

	s.cron.Run()
	return nil
}

// buildRunner wires provider, limiter, memory, pipeline and storage.
func (s *TransService) buildRunner(ctx context.Context) (*jobs.Runner, error) {
	translator, err := translate.NewProvider(ctx, translate.ProviderConfig{
		Provider:       s.cfg.Provider.Name,
		GeminiAPIKey:   s.cfg.Provider.GeminiAPIKey,
		GeminiModel:    s.cfg.Provider.GeminiModel,
		OpenAIAPIKey:   s.cfg.Provider.OpenAIAPIKey,
		OpenAIBaseURL:  s.cfg.Provider.OpenAIAPIURL,
		OpenAIModel:    s.cfg.Provider.OpenAIModel,
		SourceLanguage: s.cfg.Translate.SourceLanguage,
		TargetLanguage: s.cfg.Translate.TargetLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create translation provider: %w", err)
	}
	log.Info("Using translation provider %s (%s -> %s)",
		translator.Name(), s.cfg.Translate.SourceLanguage, s.cfg.Translate.TargetLanguage)

	memoOpts := []translate.MemoOption{
		translate.WithCheckpointEvery(s.cfg.Translate.CheckpointEvery),
	}
	if s.cfg.Translate.CacheDB != "" && s.store == nil {
		store, err := persistence.NewSQLiteStore(s.cfg.Translate.CacheDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open translation memory: %w", err)
		}
		s.store = store
	}
	if s.store != nil {
		memoOpts = append(memoOpts, translate.WithMemory(s.store.Memory(
			s.cfg.Translate.SourceLanguage.String(),
			s.cfg.Translate.TargetLanguage.String(),
		)))
	}

	memo := translate.NewMemoBuilder(
		translator,
		translate.NewFixedDelayLimiter(s.cfg.Translate.APIDelay),
		memoOpts...,
	)

	store := table.NewXLSXStore()
	p := pipeline.NewPipeline(memo, s.cfg.Translate.SourceLanguage)
	return jobs.NewRunner(store, store, p), nil
}

func printSummary(results []jobs.Result) {
	fmt.Println("=== Translation Summary ===")
	var failed int
	for _, result := range results {
		if result.Status == jobs.StatusFailed {
			failed++
			fmt.Printf("FAILED  %s: %v\n", result.Job.Input, result.Err)
			continue
		}
		fmt.Printf("OK      %s -> %s (%d distinct values translated)\n",
			result.Job.Input, result.Job.Output, result.Translated)
	}
	fmt.Printf("%d jobs, %d failed\n", len(results), failed)
}
