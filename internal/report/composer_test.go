package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldSentinel/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

func baseInput() Input {
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	return Input{
		Date: day,
		Metrics: model.DerivedMetrics{
			SpotLocal:      d("128.50"),
			SpotSecondary:  d("610.25"),
			MovingAvgShort: nd("135.00"),
			MovingAvgLong:  nd("130.10"),
			DipTargetLocal: nd("128.25"),
		},
		Status: model.Open("Standard hours 9:00-17:00"),
		Trend: []model.PriceSample{
			{Time: day.AddDate(0, 0, -1), Close: d("128.50")},
			{Time: day.AddDate(0, 0, -2), Close: d("129.10")},
		},
		Retail: model.RetailPriceOf(d("4150.00")),
		Options: Options{
			LocalCurrency:     "AUD",
			SecondaryCurrency: "CNY",
			DipPercentage:     d("0.05"),
			ShortWindow:       50,
			LongWindow:        200,
			ShowLongAverage:   true,
			ShowPortfolio:     true,
			RetailName:        "ABC Bullion",
			RetailURL:         "https://example.com/gold-1oz",
		},
	}
}

func byLang(t *testing.T, reports []model.Report, lang model.Language) model.Report {
	t.Helper()
	for _, r := range reports {
		if r.Language == lang {
			return r
		}
	}
	t.Fatalf("no report for %s", lang)
	return model.Report{}
}

func TestIsUrgent(t *testing.T) {
	m := model.DerivedMetrics{SpotLocal: d("128.50"), DipTargetLocal: nd("128.25")}
	assert.False(t, IsUrgent(m), "128.50 > 128.25")

	m.SpotLocal = d("128.00")
	assert.True(t, IsUrgent(m))

	m.SpotLocal = d("128.25")
	assert.True(t, IsUrgent(m), "equal to target is urgent")

	m.DipTargetLocal = decimal.NullDecimal{}
	assert.False(t, IsUrgent(m), "unavailable target is never urgent")
}

func TestCompose_OneReportPerLanguage(t *testing.T) {
	reports := Compose(baseInput())
	require.Len(t, reports, 2)
	assert.Equal(t, model.LanguagePrimary, reports[0].Language)
	assert.Equal(t, model.LanguageSecondary, reports[1].Language)
}

func TestCompose_RoutineEnglish(t *testing.T) {
	r := byLang(t, Compose(baseInput()), model.LanguagePrimary)
	assert.Equal(t, "Daily Gold Update: $128.50 AUD", r.Subject)

	body := r.Body()
	assert.Contains(t, body, "Here is your daily gold price update for 2026-10-14.")
	assert.Contains(t, body, "Current Price (AUD): $128.50 AUD/gram")
	assert.Contains(t, body, "Current Price (CNY): ¥610.25 CNY/gram")
	assert.Contains(t, body, "50-day Average: $135.00 AUD/gram")
	assert.Contains(t, body, "200-day Average: $130.10 AUD/gram")
	assert.Contains(t, body, "Dip Target (5% below 50-day average): $128.25 AUD/gram")
	assert.Contains(t, body, "ABC Bullion price: $4150.00 AUD")
	assert.Contains(t, body, "The price has not reached your target yet.")
}

func TestCompose_UrgentSubjects(t *testing.T) {
	in := baseInput()
	in.Metrics.SpotLocal = d("128.00")
	reports := Compose(in)

	assert.Equal(t, "URGENT: Gold dropped to $128.00 AUD!", byLang(t, reports, model.LanguagePrimary).Subject)
	assert.Equal(t, "紧急通知：金价已降至 $128.00 AUD!", byLang(t, reports, model.LanguageSecondary).Subject)
	assert.Contains(t, byLang(t, reports, model.LanguagePrimary).Body(), "ACTION REQUIRED")
	assert.Contains(t, byLang(t, reports, model.LanguageSecondary).Body(), "需要采取行动")
}

func TestCompose_ConfiguredSymbols(t *testing.T) {
	in := baseInput()
	in.Options.LocalCurrency = "EUR"
	in.Options.LocalSymbol = "€"
	in.Options.SecondarySymbol = "CN¥"
	reports := Compose(in)

	en := byLang(t, reports, model.LanguagePrimary)
	assert.Equal(t, "Daily Gold Update: €128.50 EUR", en.Subject)
	assert.Equal(t, "每日黄金价格更新：€128.50 EUR", byLang(t, reports, model.LanguageSecondary).Subject)
	assert.Contains(t, en.Body(), "Current Price (EUR): €128.50 EUR/gram")
	assert.Contains(t, en.Body(), "CN¥610.25 CNY/gram")
	assert.NotContains(t, en.Subject+en.Body(), "$")

	in.Metrics.SpotLocal = d("128.00")
	assert.Equal(t, "URGENT: Gold dropped to €128.00 EUR!", byLang(t, Compose(in), model.LanguagePrimary).Subject)
}

func TestCompose_TrendOrderPreserved(t *testing.T) {
	body := byLang(t, Compose(baseInput()), model.LanguagePrimary).Body()
	first := strings.Index(body, "2026-10-13: $128.50")
	second := strings.Index(body, "2026-10-12: $129.10")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.Contains(t, body, "Last 2 closes (most recent first):")
}

func TestCompose_RetailLinePolicy(t *testing.T) {
	tests := []struct {
		name    string
		status  model.TradingStatus
		retail  model.RetailResult
		want    string
		notWant string
	}{
		{
			name:    "holiday hides scraped price",
			status:  model.ClosedHoliday("Christmas Day"),
			retail:  model.RetailPriceOf(d("4150.00")),
			want:    "ABC Bullion price: store closed, visit store next trading day",
			notWant: "4150.00",
		},
		{
			name:    "weekly close hides scraped price",
			status:  model.ClosedWeekly("Sunday"),
			retail:  model.RetailPriceOf(d("4150.00")),
			want:    "visit store next trading day",
			notWant: "4150.00",
		},
		{
			name:   "open with scrape failure falls back to link",
			status: model.Open("Standard hours"),
			retail: model.RetailNotAvailable(),
			want:   "ABC Bullion price: unavailable, check official link https://example.com/gold-1oz",
		},
		{
			name:   "open but page says closed falls back to link",
			status: model.Open("Standard hours"),
			retail: model.RetailClosed(),
			want:   "check official link https://example.com/gold-1oz",
		},
		{
			name:    "unknown status never shows scraped price",
			status:  model.UnknownStatus(),
			retail:  model.RetailPriceOf(d("4150.00")),
			want:    "trading hours unknown, check official link",
			notWant: "4150.00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			in.Status = tt.status
			in.Retail = tt.retail
			body := byLang(t, Compose(in), model.LanguagePrimary).Body()
			assert.Contains(t, body, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, body, tt.notWant)
			}
		})
	}
}

func TestCompose_StoreStatusSecondaryLanguage(t *testing.T) {
	in := baseInput()
	in.Status = model.ClosedWeekly("Sunday")
	body := byLang(t, Compose(in), model.LanguageSecondary).Body()
	assert.Contains(t, body, "ABC Bullion门店状态：今日休息（星期日）")
	assert.Contains(t, body, "门店休息，请于下一个交易日到店查询")
}

func TestCompose_UnavailableAverages(t *testing.T) {
	in := baseInput()
	in.Metrics.MovingAvgShort = decimal.NullDecimal{}
	in.Metrics.MovingAvgLong = decimal.NullDecimal{}
	in.Metrics.DipTargetLocal = decimal.NullDecimal{}
	reports := Compose(in)

	en := byLang(t, reports, model.LanguagePrimary)
	assert.Contains(t, en.Body(), "50-day Average: unavailable")
	assert.Contains(t, en.Body(), "200-day Average: unavailable")
	assert.Contains(t, en.Body(), "Dip Target (5% below 50-day average): unavailable")
	assert.NotContains(t, en.Body(), "$0.00")
	assert.True(t, strings.HasPrefix(en.Subject, "Daily Gold Update"))

	zh := byLang(t, reports, model.LanguageSecondary)
	assert.Contains(t, zh.Body(), "50日均线: 暂无数据")
	assert.Contains(t, zh.Body(), "目标价格 (低于50日均线5%): 暂无数据")
}

func TestCompose_LongAverageToggle(t *testing.T) {
	in := baseInput()
	in.Options.ShowLongAverage = false
	body := byLang(t, Compose(in), model.LanguagePrimary).Body()
	assert.NotContains(t, body, "200-day Average")
}

func TestCompose_PortfolioSection(t *testing.T) {
	in := baseInput()
	in.Portfolio = &model.PortfolioSummary{
		TotalGrams:        d("15"),
		TotalCost:         d("1550"),
		AvgCostLocal:      d("103.3333333333333333"),
		CurrentValueLocal: d("1800"),
		ProfitLossLocal:   d("250"),
		ProfitLossPercent: d("16.129032258064516"),
	}
	body := byLang(t, Compose(in), model.LanguagePrimary).Body()
	assert.Contains(t, body, "Your Portfolio:")
	assert.Contains(t, body, "Total Holdings: 15.00 g")
	assert.Contains(t, body, "Average Cost: $103.33 AUD/gram")
	assert.Contains(t, body, "Current Value: $1800.00 AUD")
	assert.Contains(t, body, "Profit/Loss: +250.00 AUD (+16.13%)")

	in.Options.ShowPortfolio = false
	assert.NotContains(t, byLang(t, Compose(in), model.LanguagePrimary).Body(), "Your Portfolio:")

	in.Options.ShowPortfolio = true
	in.Portfolio = nil
	assert.NotContains(t, byLang(t, Compose(in), model.LanguagePrimary).Body(), "Your Portfolio:")
}

func TestCompose_Deterministic(t *testing.T) {
	in := baseInput()
	first := Compose(in)
	second := Compose(in)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Subject, second[i].Subject)
		assert.Equal(t, first[i].Body(), second[i].Body())
	}
}

func TestCompose_EmptyTrend(t *testing.T) {
	in := baseInput()
	in.Trend = nil
	assert.Contains(t, byLang(t, Compose(in), model.LanguagePrimary).Body(), "Recent closes: unavailable")
}
