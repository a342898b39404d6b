package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"GoldSentinel/internal/calculator"
	"GoldSentinel/internal/engine"
	"GoldSentinel/internal/ledger"
	"GoldSentinel/internal/model"
	"GoldSentinel/internal/notifier"
	"GoldSentinel/internal/retail"
)

// MarketCollector fetches the market snapshot for a run.
type MarketCollector interface {
	Collect(ctx context.Context) (*model.MarketSnapshot, error)
}

// Deliverer sends a delivery plan.
type Deliverer interface {
	Deliver(ctx context.Context, plan []model.Delivery) []notifier.Outcome
}

// Pipeline runs fetch, compute, compose and deliver once.
type Pipeline struct {
	Collector  MarketCollector
	Retail     retail.Source
	Ledger     ledger.Store
	Engine     *engine.Engine
	Dispatcher Deliverer
	Clock      func() time.Time
	Logger     zerolog.Logger

	// DryRun computes the reports without writing the ledger or delivering.
	DryRun bool
}

// RunSummary describes a finished run.
type RunSummary struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	Result      *engine.Result
	Outcomes    []notifier.Outcome
	HoldingsErr error
	LedgerErr   error
}

// Delivered counts the successful deliveries.
func (s *RunSummary) Delivered() int {
	return len(s.Outcomes) - notifier.Failed(s.Outcomes)
}

// State converts the summary into its persisted form.
func (s *RunSummary) State() RunState {
	st := RunState{
		StartedAt: s.StartedAt,
		Delivered: s.Delivered(),
		Planned:   len(s.Outcomes),
	}
	if s.Result != nil {
		m := s.Result.Metrics
		st.SpotLocal = calculator.FormatMoney(m.SpotLocal)
		if m.DipTargetLocal.Valid {
			st.DipTarget = calculator.FormatMoney(m.DipTargetLocal.Decimal)
		}
		st.Status = s.Result.Status.Kind.String()
		st.Urgent = s.Result.Urgent
	}
	return st
}

// Text renders a short plain-text status.
func (s *RunSummary) Text() string {
	return s.State().Text()
}

// Run executes one pass. Only missing market data or an engine failure is returned as an error.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}
	summary := &RunSummary{StartedAt: clock()}
	log := p.Logger.With().Str("component", "pipeline").Logger()

	snap, err := p.Collector.Collect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("collect failed, nothing will be sent")
		return nil, err
	}

	holdings, err := p.Ledger.ReadHoldings()
	if err != nil {
		summary.HoldingsErr = err
		log.Warn().Err(err).Msg("holdings unavailable, portfolio section skipped")
		holdings = nil
	}

	retailResult := p.Retail.FetchRetailPrice(ctx)

	res, err := p.Engine.Evaluate(engine.Input{
		Snapshot: snap,
		Holdings: holdings,
		Retail:   retailResult,
		Now:      summary.StartedAt,
	})
	if err != nil {
		log.Error().Err(err).Msg("evaluate failed, nothing will be sent")
		return nil, err
	}
	summary.Result = res

	log.Info().
		Str("spot_local", calculator.FormatMoney(res.Metrics.SpotLocal)).
		Str("status", res.Status.Kind.String()).
		Str("retail", retailResult.Kind.String()).
		Bool("urgent", res.Urgent).
		Int("deliveries", len(res.Plan)).
		Msg("evaluated")

	if p.DryRun {
		summary.FinishedAt = clock()
		return summary, nil
	}

	if err := p.Ledger.AppendRow(res.Row); err != nil {
		summary.LedgerErr = err
		log.Error().Err(err).Msg("ledger append failed")
	}

	summary.Outcomes = p.Dispatcher.Deliver(ctx, res.Plan)
	summary.FinishedAt = clock()

	log.Info().
		Int("delivered", summary.Delivered()).
		Int("failed", notifier.Failed(summary.Outcomes)).
		Dur("elapsed", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("run finished")
	return summary, nil
}
