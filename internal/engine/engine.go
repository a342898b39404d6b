// Package engine turns a market snapshot into metrics, reports and a delivery plan.
// It performs no I/O; the caller supplies every input, including the clock.
package engine

import (
	"fmt"
	"time"

	"GoldSentinel/internal/calculator"
	"GoldSentinel/internal/calendar"
	"GoldSentinel/internal/model"
	"GoldSentinel/internal/portfolio"
	"GoldSentinel/internal/report"
)

// ErrDataUnavailable is returned when no spot price could be derived.
var ErrDataUnavailable = model.ErrDataUnavailable

// DefaultTrendDays is the number of closes shown in the trend section.
const DefaultTrendDays = 5

// Config holds the engine settings.
type Config struct {
	Params     calculator.Params
	Calendar   *calendar.Classifier
	Report     report.Options
	Recipients []model.Recipient
	TrendDays  int
}

// Input is one run's worth of fetched data.
type Input struct {
	Snapshot *model.MarketSnapshot
	Holdings []model.HoldingsLot
	Retail   model.RetailResult
	Now      time.Time
}

// Result is the engine output for one run.
type Result struct {
	Metrics   model.DerivedMetrics
	Portfolio *model.PortfolioSummary
	Status    model.TradingStatus
	Trend     []model.PriceSample
	Reports   []model.Report
	Urgent    bool
	Plan      []model.Delivery
	Row       model.LedgerRow
}

// Engine is the alert decision engine.
type Engine struct {
	cfg Config
}

// New creates an Engine. Report windows and dip default to the calculator params.
func New(cfg Config) *Engine {
	if cfg.TrendDays <= 0 {
		cfg.TrendDays = DefaultTrendDays
	}
	if cfg.Report.ShortWindow == 0 {
		cfg.Report.ShortWindow = cfg.Params.ShortWindow
	}
	if cfg.Report.LongWindow == 0 {
		cfg.Report.LongWindow = cfg.Params.LongWindow
	}
	if cfg.Report.DipPercentage.IsZero() {
		cfg.Report.DipPercentage = cfg.Params.DipPercentage
	}
	if cfg.Calendar == nil {
		cfg.Calendar = calendar.NewClassifier(nil, calendar.DefaultWeekendPolicy(), "", nil)
	}
	return &Engine{cfg: cfg}
}

// Recipients returns the configured recipients.
func (e *Engine) Recipients() []model.Recipient {
	return e.cfg.Recipients
}

// Evaluate computes the full result for one run.
func (e *Engine) Evaluate(in Input) (*Result, error) {
	metrics, err := calculator.Derive(in.Snapshot, e.cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	var summary *model.PortfolioSummary
	if e.cfg.Report.ShowPortfolio {
		summary = portfolio.Summarize(in.Holdings, metrics.SpotLocal)
	}

	status := e.cfg.Calendar.Classify(in.Now)
	trend := calculator.ConvertSamples(
		calculator.RecentTrend(in.Snapshot.History, e.cfg.TrendDays),
		in.Snapshot.Rate.Rate,
	)

	reports := report.Compose(report.Input{
		Date:      in.Now,
		Metrics:   metrics,
		Portfolio: summary,
		Status:    status,
		Trend:     trend,
		Retail:    in.Retail,
		Options:   e.cfg.Report,
	})
	urgent := report.IsUrgent(metrics)

	return &Result{
		Metrics:   metrics,
		Portfolio: summary,
		Status:    status,
		Trend:     trend,
		Reports:   reports,
		Urgent:    urgent,
		Plan:      BuildPlan(reports, e.cfg.Recipients, urgent),
		Row: model.LedgerRow{
			Time:           in.Now,
			SpotLocal:      metrics.SpotLocal,
			SpotSecondary:  metrics.SpotSecondary,
			MovingAvgShort: metrics.MovingAvgShort,
			MovingAvgLong:  metrics.MovingAvgLong,
			Retail:         in.Retail,
		},
	}, nil
}
