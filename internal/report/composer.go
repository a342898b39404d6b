// Package report composes the language-tagged alert reports. Composition is
// pure: identical inputs always produce identical reports.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"GoldSentinel/internal/calculator"
	"GoldSentinel/internal/model"
)

// Options carries the presentation settings.
type Options struct {
	LocalCurrency     string // e.g. "AUD"
	SecondaryCurrency string // e.g. "CNY"
	LocalSymbol       string
	SecondarySymbol   string
	DipPercentage     decimal.Decimal
	ShortWindow       int
	LongWindow        int
	ShowLongAverage   bool
	ShowPortfolio     bool
	RetailName        string
	RetailURL         string
}

// Input is everything the composer renders.
type Input struct {
	Date      time.Time
	Metrics   model.DerivedMetrics
	Portfolio *model.PortfolioSummary
	Status    model.TradingStatus
	Trend     []model.PriceSample // local currency per gram, most recent first
	Retail    model.RetailResult
	Options   Options
}

// Languages lists the supported report languages in output order.
var Languages = []model.Language{model.LanguagePrimary, model.LanguageSecondary}

// IsUrgent reports whether spot is at or below the dip target.
// An unavailable target is never urgent.
func IsUrgent(m model.DerivedMetrics) bool {
	return m.DipTargetLocal.Valid && m.SpotLocal.LessThanOrEqual(m.DipTargetLocal.Decimal)
}

// Compose builds one report per supported language.
func Compose(in Input) []model.Report {
	reports := make([]model.Report, 0, len(Languages))
	for _, lang := range Languages {
		reports = append(reports, ComposeLanguage(in, lang))
	}
	return reports
}

// ComposeLanguage builds the report for a single language.
func ComposeLanguage(in Input, lang model.Language) model.Report {
	p, ok := languages[lang]
	if !ok {
		p = languages[model.LanguagePrimary]
		lang = model.LanguagePrimary
	}
	c := composer{in: in, opt: withDefaults(in.Options), p: p}
	urgent := IsUrgent(in.Metrics)

	sections := []string{
		c.headline(urgent),
		c.prices(),
		c.trend(),
		c.store(),
	}
	if in.Options.ShowPortfolio && in.Portfolio != nil {
		sections = append(sections, c.portfolio())
	}
	sections = append(sections, c.closing(urgent))

	return model.Report{
		Language: lang,
		Subject:  c.subject(urgent),
		Sections: sections,
	}
}

func withDefaults(o Options) Options {
	if o.LocalCurrency == "" {
		o.LocalCurrency = "AUD"
	}
	if o.SecondaryCurrency == "" {
		o.SecondaryCurrency = "CNY"
	}
	if o.LocalSymbol == "" {
		o.LocalSymbol = "$"
	}
	if o.SecondarySymbol == "" {
		o.SecondarySymbol = "¥"
	}
	if o.RetailName == "" {
		o.RetailName = "Retail"
	}
	return o
}

type composer struct {
	in  Input
	opt Options
	p   phrases
}

func (c composer) subject(urgent bool) string {
	spot := calculator.FormatMoney(c.in.Metrics.SpotLocal)
	if urgent {
		return fmt.Sprintf(c.p.subjectUrgent, c.opt.LocalSymbol, spot, c.opt.LocalCurrency)
	}
	return fmt.Sprintf(c.p.subjectRoutine, c.opt.LocalSymbol, spot, c.opt.LocalCurrency)
}

func (c composer) headline(urgent bool) string {
	if urgent {
		return c.p.headlineUrgent
	}
	return fmt.Sprintf(c.p.headlineRoutine, c.in.Date.Format("2006-01-02"))
}

func (c composer) closing(urgent bool) string {
	if urgent {
		return c.p.closingUrgent
	}
	return c.p.closingRoutine
}

// perGram renders "$128.50 AUD/gram".
func (c composer) perGram(symbol, currency string, v decimal.Decimal) string {
	return fmt.Sprintf("%s%s %s/%s", symbol, calculator.FormatMoney(v), currency, c.p.gramUnit)
}

func (c composer) optionalPerGram(v decimal.NullDecimal) string {
	if !v.Valid {
		return c.p.unavailable
	}
	return c.perGram(c.opt.LocalSymbol, c.opt.LocalCurrency, v.Decimal)
}

func (c composer) prices() string {
	m := c.in.Metrics
	lines := []string{
		fmt.Sprintf(c.p.spotLocal, c.opt.LocalCurrency) + ": " + c.perGram(c.opt.LocalSymbol, c.opt.LocalCurrency, m.SpotLocal),
		fmt.Sprintf(c.p.spotSecondary, c.opt.SecondaryCurrency) + ": " + c.perGram(c.opt.SecondarySymbol, c.opt.SecondaryCurrency, m.SpotSecondary),
		fmt.Sprintf(c.p.movingAvg, c.opt.ShortWindow) + ": " + c.optionalPerGram(m.MovingAvgShort),
	}
	if c.opt.ShowLongAverage {
		lines = append(lines, fmt.Sprintf(c.p.movingAvg, c.opt.LongWindow)+": "+c.optionalPerGram(m.MovingAvgLong))
	}
	pct := c.opt.DipPercentage.Mul(decimal.NewFromInt(100)).String()
	lines = append(lines, fmt.Sprintf(c.p.dipTarget, pct, c.opt.ShortWindow)+": "+c.optionalPerGram(m.DipTargetLocal))
	return strings.Join(lines, "\n")
}

func (c composer) trend() string {
	if len(c.in.Trend) == 0 {
		return c.p.trendEmpty
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf(c.p.trendHeader, len(c.in.Trend)))
	for _, s := range c.in.Trend {
		b.WriteString(fmt.Sprintf("\n  %s: %s%s", s.Time.Format("2006-01-02"), c.opt.LocalSymbol, calculator.FormatMoney(s.Close)))
	}
	return b.String()
}

func (c composer) store() string {
	name := c.opt.RetailName
	var status string
	switch c.in.Status.Kind {
	case model.StatusOpen:
		status = fmt.Sprintf(c.p.storeOpen, name, c.in.Status.Detail)
	case model.StatusClosedWeekly:
		status = fmt.Sprintf(c.p.storeWeekly, name, c.p.weekday(c.in.Status.Detail))
	case model.StatusClosedHoliday:
		status = fmt.Sprintf(c.p.storeHoliday, name, c.in.Status.Detail)
	default:
		status = fmt.Sprintf(c.p.storeUnknown, name)
	}
	return status + "\n" + c.retailLine()
}

// retailLine never shows a scraped price unless the store is known to be open.
func (c composer) retailLine() string {
	name := c.opt.RetailName
	switch c.in.Status.Kind {
	case model.StatusClosedWeekly, model.StatusClosedHoliday:
		return fmt.Sprintf(c.p.retailVisit, name)
	case model.StatusOpen:
		if c.in.Retail.Kind == model.RetailPrice {
			return fmt.Sprintf(c.p.retailPrice, name) + ": " +
				fmt.Sprintf("%s%s %s", c.opt.LocalSymbol, calculator.FormatMoney(c.in.Retail.Price), c.opt.LocalCurrency)
		}
		return fmt.Sprintf(c.p.retailLink, name, c.opt.RetailURL)
	default:
		return fmt.Sprintf(c.p.retailUnknown, name, c.opt.RetailURL)
	}
}

func (c composer) portfolio() string {
	s := c.in.Portfolio
	cur := c.opt.LocalCurrency
	lines := []string{
		c.p.portfolioHeader,
		fmt.Sprintf("%s: %s %s", c.p.totalHoldings, calculator.FormatMoney(s.TotalGrams), c.p.gramShort),
		fmt.Sprintf("%s: %s", c.p.avgCost, c.perGram(c.opt.LocalSymbol, cur, s.AvgCostLocal)),
		fmt.Sprintf("%s: %s%s %s", c.p.currentValue, c.opt.LocalSymbol, calculator.FormatMoney(s.CurrentValueLocal), cur),
		fmt.Sprintf("%s: %s %s (%s%%)", c.p.profitLoss, calculator.FormatSigned(s.ProfitLossLocal), cur, calculator.FormatSigned(s.ProfitLossPercent)),
	}
	return strings.Join(lines, "\n")
}
