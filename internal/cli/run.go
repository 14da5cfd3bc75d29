package cli

import (
	"context"
	"fmt"

	"github.com/prasdika/tabtrans/internal/config"
	"github.com/prasdika/tabtrans/internal/jobs"
	"github.com/prasdika/tabtrans/internal/service"
	"github.com/prasdika/tabtrans/pkg/log"
)

// run executes the root command: resolve configuration, assemble the
// job list and hand it to the service.
func run(flags *Flags, args []string) error {
	InitConfig(flags.CfgFile)

	cfg, err := config.NewFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if flags.CronExpr != "" {
		cfg.System.CronExpr = flags.CronExpr
	}

	if err := initLogger(cfg); err != nil {
		return err
	}

	jobList, err := resolveJobs(flags, args, cfg)
	if err != nil {
		return err
	}
	log.Info("Loaded %d translation jobs", len(jobList))

	svc := service.NewTransService(*cfg, jobList)
	defer svc.Close()

	ctx := context.Background()
	if cfg.System.CronExpr != "" {
		return svc.Schedule(ctx)
	}
	return svc.RunOnce(ctx)
}

// resolveJobs prefers an ad-hoc job from argv, falling back to the job
// list in the config file.
func resolveJobs(flags *Flags, args []string, cfg *config.Config) ([]jobs.Job, error) {
	if len(args) == 1 {
		if len(flags.Columns) == 0 {
			return nil, fmt.Errorf("--columns is required when translating a single file")
		}
		output := flags.Output
		if output == "" {
			output = DerivedOutputPath(args[0], flags.OutputDir, cfg.Translate.TargetLanguage)
		}
		return []jobs.Job{{
			Input:   args[0],
			Output:  output,
			Columns: flags.Columns,
		}}, nil
	}

	jobList, err := LoadJobs(flags.OutputDir, cfg.Translate.TargetLanguage)
	if err != nil {
		return nil, err
	}
	if len(jobList) == 0 {
		return nil, fmt.Errorf("no jobs configured: pass an input file or define jobs in the config file")
	}
	return jobList, nil
}

func initLogger(cfg *config.Config) error {
	level := log.ParseLevel(cfg.System.LogLevel)
	if cfg.System.LogFile != "" {
		fileLogger, err := log.NewFileLogger(cfg.System.LogFile, level)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetGlobalLogger(fileLogger.Logger)
		return nil
	}
	log.InitLogger(level)
	return nil
}
