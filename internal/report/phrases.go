package report

import "GoldSentinel/internal/model"

// phrases holds every localized string used by the composer.
type phrases struct {
	subjectUrgent  string // symbol, spot, currency
	subjectRoutine string // symbol, spot, currency

	headlineUrgent  string
	headlineRoutine string // date
	closingUrgent   string
	closingRoutine  string

	unavailable string
	gramUnit    string
	gramShort   string

	spotLocal     string // currency
	spotSecondary string // currency
	movingAvg     string // window
	dipTarget     string // percent, window

	trendHeader string // n
	trendEmpty  string

	storeOpen    string // name, note
	storeWeekly  string // name, day
	storeHoliday string // name, holiday
	storeUnknown string // name

	retailPrice   string // name
	retailVisit   string // name
	retailLink    string // name, url
	retailUnknown string // name, url

	portfolioHeader string
	totalHoldings   string
	avgCost         string
	currentValue    string
	profitLoss      string

	weekdays map[string]string
}

var languages = map[model.Language]phrases{
	model.LanguagePrimary: {
		subjectUrgent:  "URGENT: Gold dropped to %s%s %s!",
		subjectRoutine: "Daily Gold Update: %s%s %s",

		headlineUrgent:  "ACTION REQUIRED: The price of gold has reached your dip target!",
		headlineRoutine: "Here is your daily gold price update for %s.",
		closingUrgent:   "The market conditions are currently meeting your requirements.",
		closingRoutine:  "The price has not reached your target yet.",

		unavailable: "unavailable",
		gramUnit:    "gram",
		gramShort:   "g",

		spotLocal:     "Current Price (%s)",
		spotSecondary: "Current Price (%s)",
		movingAvg:     "%d-day Average",
		dipTarget:     "Dip Target (%s%% below %d-day average)",

		trendHeader: "Last %d closes (most recent first):",
		trendEmpty:  "Recent closes: unavailable",

		storeOpen:    "%s status: Open (%s)",
		storeWeekly:  "%s status: Closed today (%s)",
		storeHoliday: "%s status: Closed today for %s",
		storeUnknown: "%s status: trading hours unknown for this date",

		retailPrice:   "%s price",
		retailVisit:   "%s price: store closed, visit store next trading day",
		retailLink:    "%s price: unavailable, check official link %s",
		retailUnknown: "%s price: trading hours unknown, check official link %s",

		portfolioHeader: "Your Portfolio:",
		totalHoldings:   "Total Holdings",
		avgCost:         "Average Cost",
		currentValue:    "Current Value",
		profitLoss:      "Profit/Loss",
	},
	model.LanguageSecondary: {
		subjectUrgent:  "紧急通知：金价已降至 %s%s %s!",
		subjectRoutine: "每日黄金价格更新：%s%s %s",

		headlineUrgent:  "需要采取行动：金价已达到您的目标价格！",
		headlineRoutine: "这是您的每日黄金价格更新（%s）。",
		closingUrgent:   "目前的市场状况符合您的要求。",
		closingRoutine:  "价格尚未达到您的目标。",

		unavailable: "暂无数据",
		gramUnit:    "克",
		gramShort:   "克",

		spotLocal:     "当前价格 (%s)",
		spotSecondary: "当前价格 (%s)",
		movingAvg:     "%d日均线",
		dipTarget:     "目标价格 (低于%[2]d日均线%[1]s%%)",

		trendHeader: "最近%d个交易日收盘价（最新在前）：",
		trendEmpty:  "最近收盘价：暂无数据",

		storeOpen:    "%s门店状态：营业中（%s）",
		storeWeekly:  "%s门店状态：今日休息（%s）",
		storeHoliday: "%s门店状态：今日因%s休息",
		storeUnknown: "%s门店状态：该日期营业时间未知",

		retailPrice:   "%s门店价格",
		retailVisit:   "%s门店价格：门店休息，请于下一个交易日到店查询",
		retailLink:    "%s门店价格：暂无数据，请查看官方链接 %s",
		retailUnknown: "%s门店价格：营业时间未知，请查看官方链接 %s",

		portfolioHeader: "您的持仓：",
		totalHoldings:   "总持有",
		avgCost:         "平均成本",
		currentValue:    "当前市值",
		profitLoss:      "盈亏",

		weekdays: map[string]string{
			"Sunday":    "星期日",
			"Monday":    "星期一",
			"Tuesday":   "星期二",
			"Wednesday": "星期三",
			"Thursday":  "星期四",
			"Friday":    "星期五",
			"Saturday":  "星期六",
		},
	},
}

func (p phrases) weekday(name string) string {
	if v, ok := p.weekdays[name]; ok {
		return v
	}
	return name
}
