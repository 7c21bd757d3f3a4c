package app

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/tradelens/config"
	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/generator"
	"github.com/guttosm/tradelens/internal/ingestion"
	"github.com/guttosm/tradelens/internal/logger"
	"github.com/guttosm/tradelens/internal/report"
	"github.com/guttosm/tradelens/internal/service"
)

// Result summarizes a pipeline run.
type Result struct {
	Seed      uint64
	Dataset   string
	Report    *models.Report
	Artifacts report.Artifacts
}

// GenerateDataset synthesizes cfg.Generator.Count transactions and writes
// them to cfg.Paths.Dataset. It returns the seed actually used.
func GenerateDataset(ctx context.Context, cfg config.Config) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	g, err := generator.New(generator.Options{
		Count: cfg.Generator.Count,
		Seed:  cfg.Generator.Seed,
		Start: cfg.Generator.Start,
		End:   cfg.Generator.End,
	}, models.DefaultVocabulary())
	if err != nil {
		return 0, err
	}
	if err := ingestion.WriteFile(cfg.Paths.Dataset, g.Generate()); err != nil {
		return 0, fmt.Errorf("write dataset: %w", err)
	}
	return g.Seed(), nil
}

// BuildReport loads and validates the dataset at cfg.Paths.Dataset and
// computes every view. Nothing is written.
func BuildReport(ctx context.Context, cfg config.Config) (*models.Report, error) {
	ds, err := ingestion.LoadFile(ctx, cfg.Paths.Dataset, models.DefaultVocabulary())
	if err != nil {
		return nil, err
	}
	svc, err := service.NewReportService(service.Options{
		TopN:         cfg.Analysis.TopN,
		RecentMonths: cfg.Analysis.RecentMonths,
	})
	if err != nil {
		return nil, err
	}
	return svc.Compute(ctx, ds)
}

// Analyze builds the report from the existing dataset and writes the
// artifacts. Any failure before rendering leaves cfg.Paths.ReportDir untouched.
func Analyze(ctx context.Context, cfg config.Config) (Result, error) {
	r, err := BuildReport(ctx, cfg)
	if err != nil {
		return Result{}, err
	}
	arts, err := report.Write(cfg.Paths.ReportDir, r)
	if err != nil {
		return Result{}, err
	}
	return Result{Dataset: cfg.Paths.Dataset, Report: r, Artifacts: arts}, nil
}

// RunPipeline runs generate → load → aggregate → report in order, stopping
// at the first error.
func RunPipeline(ctx context.Context, cfg config.Config) (Result, error) {
	lg := logger.Component("pipeline")
	start := time.Now()

	seed, err := GenerateDataset(ctx, cfg)
	if err != nil {
		return Result{}, err
	}
	res, err := Analyze(ctx, cfg)
	if err != nil {
		return Result{}, err
	}
	res.Seed = seed

	lg.Info().
		Uint64("seed", seed).
		Str("dataset", res.Dataset).
		Str("summary", res.Artifacts.Summary).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline completed")
	return res, nil
}
