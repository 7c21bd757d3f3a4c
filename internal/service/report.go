package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/logger"
)

// Options parameterize the views that take arguments.
type Options struct {
	TopN         int `validate:"gt=0"`
	RecentMonths int `validate:"gt=0"`
}

// DefaultOptions returns TopN=5 and a one-month performance window.
func DefaultOptions() Options {
	return Options{TopN: 5, RecentMonths: 1}
}

var validate = validator.New()

// ReportService computes the full set of views for a dataset.
type ReportService interface {
	Compute(ctx context.Context, ds *models.Dataset) (*models.Report, error)
}

type reportService struct {
	opts Options
}

// NewReportService validates opts and returns a ReportService bound to them.
func NewReportService(opts Options) (ReportService, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return &reportService{opts: opts}, nil
}

func (s *reportService) Compute(ctx context.Context, ds *models.Dataset) (*models.Report, error) {
	return ComputeAll(ctx, ds, s.opts)
}

// ComputeAll evaluates every view concurrently. Views only read the dataset,
// so each goroutine writes its own field of the report. The first failure
// cancels the rest and no partial report is returned.
func ComputeAll(ctx context.Context, ds *models.Dataset, opts Options) (*models.Report, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	lg := logger.Component("engine")
	start := time.Now()

	r := &models.Report{GeneratedAt: time.Now().UTC(), Transactions: ds.Len()}
	g, gctx := errgroup.WithContext(ctx)

	run := func(name string, fn func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(); err != nil {
				lg.Error().Err(err).Str("view", name).Msg("view failed")
				return err
			}
			return nil
		})
	}

	run(models.ViewSectorAllocation, func() error { r.SectorAllocation = SectorAllocation(ds); return nil })
	run(models.ViewSectorPerformance, func() error {
		r.SectorPerformance = SectorPerformance(ds, opts.RecentMonths)
		return nil
	})
	run(models.ViewMonthlyTrend, func() error { r.MonthlyTrend = MonthlyTrend(ds); return nil })
	run(models.ViewRiskAnalysis, func() error { r.RiskAnalysis = RiskAnalysis(ds); return nil })
	run(models.ViewReturnAnalysis, func() error { r.ReturnAnalysis = ReturnAnalysis(ds); return nil })
	run(models.ViewTopInvestments, func() error { r.TopInvestments = TopInvestments(ds, opts.TopN); return nil })
	run(models.ViewTransactionVolume, func() error { r.TransactionVolume = TransactionVolume(ds); return nil })
	run(models.ViewProfitLoss, func() error { r.ProfitLoss = ProfitLoss(ds); return nil })
	run(models.ViewBrokerPerformance, func() error { r.BrokerPerformance = BrokerPerformance(ds); return nil })
	run(models.ViewDemographics, func() error {
		d, err := Demographics(ds)
		r.Demographics = d
		return err
	})
	run(models.ViewOutliers, func() error {
		o, err := Outliers(ds)
		r.Outliers = o
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	lg.Info().Int("rows", ds.Len()).Int("views", len(models.ViewNames)).Dur("elapsed", time.Since(start)).Msg("views computed")
	return r, nil
}

func validateOptions(opts Options) error {
	if err := validate.Struct(opts); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &models.ConfigError{Field: fe.Field(), Reason: "must be " + fe.Tag() + " " + fe.Param()}
		}
		return &models.ConfigError{Field: "options", Reason: err.Error()}
	}
	return nil
}
