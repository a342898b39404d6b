package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"GoldSentinel/internal/calculator"
	"GoldSentinel/internal/calendar"
	"GoldSentinel/internal/collector"
	"GoldSentinel/internal/config"
	"GoldSentinel/internal/engine"
	"GoldSentinel/internal/ledger"
	"GoldSentinel/internal/logger"
	"GoldSentinel/internal/model"
	"GoldSentinel/internal/notifier"
	"GoldSentinel/internal/report"
	"GoldSentinel/internal/retail"
	"GoldSentinel/internal/scheduler"
)

// app holds the wired components for one process.
type app struct {
	cfg        *config.Config
	log        zerolog.Logger
	loc        *time.Location
	recipients []model.Recipient
	pipeline   *scheduler.Pipeline
	ledger     ledger.Store
	telegram   *notifier.TelegramChannel
}

// newApp loads config and wires every component. Validation is skipped for
// dry runs so a preview works without credentials.
func newApp(cfgPath string, dryRun bool) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !dryRun {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation: %w", err)
		}
	}

	logOut := os.Stdout
	if dryRun {
		logOut = os.Stderr // keep previews readable
	}
	log := logger.NewWithWriter(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}, logOut)
	logger.SetGlobalLogger(log)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	weekend, err := cfg.WeekendPolicy()
	if err != nil {
		return nil, err
	}
	recipients, err := cfg.ParsedRecipients()
	if err != nil {
		return nil, err
	}

	source, err := buildSource(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("source", source.Name()).Str("symbol", cfg.DataSource.Symbol).Msg("data source ready")

	col := collector.NewCollector(source, cfg.DataSource.Symbol, cfg.DataSource.LookbackDays,
		config.RatePair(cfg.DataSource.LocalCurrency), config.RatePair(cfg.DataSource.SecondaryCurrency))

	store, err := ledger.Open(cfg.Ledger.CSVPath, cfg.Ledger.HoldingsPath, cfg.Ledger.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init ledger failed, using csv only")
		store = ledger.NewCSVStore(cfg.Ledger.CSVPath, cfg.Ledger.HoldingsPath)
	}
	if dryRun {
		// Preview still shows the portfolio but never writes history.
		store = readOnlyStore{store}
	}

	params := calculator.Params{
		ShortWindow:   cfg.Alert.ShortWindow,
		LongWindow:    cfg.Alert.LongWindow,
		DipPercentage: cfg.DipPercentage(),
	}
	classifier := calendar.NewClassifier(cfg.HolidayTable(), weekend, cfg.Calendar.OpenNote, loc)
	if year := time.Now().In(loc).Year(); !classifier.HasYear(year) {
		log.Warn().Int("year", year).Ints("configured", classifier.Years()).
			Msg("no holiday table for the current year, store status will be unknown")
	} else {
		log.Debug().Ints("years", classifier.Years()).Msg("holiday tables loaded")
	}
	eng := engine.New(engine.Config{
		Params:   params,
		Calendar: classifier,
		Report: report.Options{
			LocalCurrency:     cfg.DataSource.LocalCurrency,
			SecondaryCurrency: cfg.DataSource.SecondaryCurrency,
			LocalSymbol:       cfg.DataSource.LocalSymbol,
			SecondarySymbol:   cfg.DataSource.SecondarySymbol,
			ShowLongAverage:   *cfg.Alert.ShowLongAverage,
			ShowPortfolio:     *cfg.Alert.ShowPortfolio,
			RetailName:        cfg.Retail.Name,
			RetailURL:         cfg.Retail.URL,
		},
		Recipients: recipients,
		TrendDays:  cfg.Alert.TrendDays,
	})

	a := &app{cfg: cfg, log: log, loc: loc, recipients: recipients, ledger: store}

	dispatcher := notifier.NewDispatcher(log)
	dispatcher.Register(model.ChannelEmail, notifier.NewEmailChannel(
		cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.Username, cfg.Email.AppPassword, cfg.Email.From))
	if cfg.Telegram.BotToken != "" {
		a.telegram = notifier.NewTelegramChannel(cfg.Telegram.BotToken, cfg.Proxy)
		dispatcher.Register(model.ChannelTelegram, a.telegram)
	}

	a.pipeline = &scheduler.Pipeline{
		Collector: col,
		Retail: retail.New(retail.Config{
			URL:              cfg.Retail.URL,
			PriceSelector:    cfg.Retail.PriceSelector,
			ClosedMarker:     cfg.Retail.ClosedMarker,
			Timeout:          cfg.Retail.Timeout,
			DecimalSeparator: cfg.DecimalSeparator(),
		}, log),
		Ledger:     store,
		Engine:     eng,
		Dispatcher: dispatcher,
		Clock:      func() time.Time { return time.Now().In(loc) },
		Logger:     log,
		DryRun:     dryRun,
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.ledger.Close(); err != nil {
		a.log.Error().Err(err).Msg("close ledger")
	}
}

// buildSource picks the market data provider.
func buildSource(cfg *config.Config) (collector.Source, error) {
	var src collector.Source
	switch cfg.DataSource.Provider {
	case "yahoo":
		y := collector.NewYahooSource(cfg.Proxy)
		if cfg.DataSource.BaseURL != "" {
			y.BaseURL = cfg.DataSource.BaseURL
		}
		src = y
	case "rest":
		src = collector.NewRESTSource(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		src = &collector.MockSource{
			Price: decimal.NewFromInt(2400),
			Rates: map[string]decimal.Decimal{
				config.RatePair(cfg.DataSource.LocalCurrency):     decimal.RequireFromString("1.52"),
				config.RatePair(cfg.DataSource.SecondaryCurrency): decimal.RequireFromString("7.18"),
			},
		}
	default:
		return nil, fmt.Errorf("unknown data_source.provider %q", cfg.DataSource.Provider)
	}
	if cfg.DataSource.CacheTTL > 0 {
		src = collector.NewCachedSource(src, cfg.DataSource.CacheTTL)
	}
	return src, nil
}

// readOnlyStore reads holdings and drops appended rows.
type readOnlyStore struct {
	ledger.Store
}

func (readOnlyStore) AppendRow(model.LedgerRow) error { return nil }

// telegramChats returns the chat ids of the telegram recipients.
func telegramChats(recipients []model.Recipient) []string {
	var ids []string
	for _, r := range recipients {
		if r.Channel == model.ChannelTelegram {
			ids = append(ids, r.Address)
		}
	}
	return ids
}
