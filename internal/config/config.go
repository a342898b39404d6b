package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // timezone lookups without system zoneinfo

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"GoldSentinel/internal/calendar"
	"GoldSentinel/internal/model"
)

// Recipient is a recipient entry as written in the config file.
type Recipient struct {
	Address  string `yaml:"address"`
	Language string `yaml:"language"` // primary-only | secondary-only | both
	Channel  string `yaml:"channel"`  // email | telegram
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider          string        `yaml:"provider"` // yahoo | rest | mock
		BaseURL           string        `yaml:"base_url"`
		APIKey            string        `yaml:"api_key"`
		Symbol            string        `yaml:"symbol"`
		LookbackDays      int           `yaml:"lookback_days"`
		LocalCurrency     string        `yaml:"local_currency"`
		SecondaryCurrency string        `yaml:"secondary_currency"`
		LocalSymbol       string        `yaml:"local_symbol"`
		SecondarySymbol   string        `yaml:"secondary_symbol"`
		CacheTTL          time.Duration `yaml:"cache_ttl"`
	} `yaml:"data_source"`
	Alert struct {
		DipPercentage   *float64 `yaml:"dip_percentage"`
		ShortWindow     int      `yaml:"short_window"`
		LongWindow      int      `yaml:"long_window"`
		TrendDays       int      `yaml:"trend_days"`
		ShowLongAverage *bool    `yaml:"show_long_average"`
		ShowPortfolio   *bool    `yaml:"show_portfolio"`
	} `yaml:"alert"`
	Retail struct {
		Name          string        `yaml:"name"`
		URL           string        `yaml:"url"`
		PriceSelector string        `yaml:"price_selector"`
		ClosedMarker  string        `yaml:"closed_marker"`
		Timeout       time.Duration `yaml:"timeout"`
		// DecimalSeparator is "." or ",", the other one groups thousands.
		DecimalSeparator string `yaml:"decimal_separator"`
	} `yaml:"retail"`
	Calendar struct {
		Timezone       string                    `yaml:"timezone"`
		OpenNote       string                    `yaml:"open_note"`
		ClosedDays     []string                  `yaml:"closed_days"`
		RestrictedDays map[string]string         `yaml:"restricted_days"`
		Holidays       map[int]map[string]string `yaml:"holidays"`
	} `yaml:"calendar"`
	Email struct {
		SMTPHost    string `yaml:"smtp_host"`
		SMTPPort    int    `yaml:"smtp_port"`
		Username    string `yaml:"username"`
		AppPassword string `yaml:"app_password"`
		From        string `yaml:"from"`
	} `yaml:"email"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		Polling  bool   `yaml:"polling"`
	} `yaml:"telegram"`
	Recipients []Recipient `yaml:"recipients"`
	Ledger     struct {
		CSVPath      string `yaml:"csv_path"`
		HoldingsPath string `yaml:"holdings_path"`
		SQLitePath   string `yaml:"sqlite_path"`
	} `yaml:"ledger"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
		StateFile string `yaml:"state_file"`
	} `yaml:"schedule"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GMAIL_ADDRESS"); v != "" {
		if c.Email.Username == "" {
			c.Email.Username = v
		}
		if c.Email.From == "" {
			c.Email.From = v
		}
		c.addRecipient(Recipient{Address: v, Language: string(model.ModePrimaryOnly), Channel: string(model.ChannelEmail)})
	}
	if v := os.Getenv("SECONDARY_GMAIL_ADDRESS"); v != "" {
		c.addRecipient(Recipient{Address: v, Language: string(model.ModeSecondaryOnly), Channel: string(model.ChannelEmail)})
	}
	if v := os.Getenv("GMAIL_APP_PASSWORD"); v != "" {
		c.Email.AppPassword = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
		c.Email.SMTPPort = port
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.addRecipient(Recipient{Address: v, Language: string(model.ModeBoth), Channel: string(model.ChannelTelegram)})
	}
	if v := os.Getenv("DIP_PERCENTAGE"); v != "" {
		dip, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DIP_PERCENTAGE: %w", err)
		}
		c.Alert.DipPercentage = &dip
	}
	if v := os.Getenv("MA_SHORT_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MA_SHORT_WINDOW: %w", err)
		}
		c.Alert.ShortWindow = n
	}
	if v := os.Getenv("MA_LONG_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MA_LONG_WINDOW: %w", err)
		}
		c.Alert.LongWindow = n
	}
	if v := os.Getenv("RETAIL_URL"); v != "" {
		c.Retail.URL = v
	}
	if v := os.Getenv("SATURDAY_POLICY"); v != "" {
		if err := c.applySaturdayPolicy(v); err != nil {
			return err
		}
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		c.Schedule.DailyCron = v
	}
	if v := os.Getenv("LEDGER_CSV_PATH"); v != "" {
		c.Ledger.CSVPath = v
	}
	if v := os.Getenv("HOLDINGS_CSV_PATH"); v != "" {
		c.Ledger.HoldingsPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Ledger.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func (c *Config) addRecipient(r Recipient) {
	for _, existing := range c.Recipients {
		if existing.Address == r.Address && strings.EqualFold(existing.Channel, r.Channel) {
			return
		}
	}
	c.Recipients = append(c.Recipients, r)
}

const defaultSaturdayNote = "Saturday hours 9:00-13:00"

func (c *Config) applySaturdayPolicy(policy string) error {
	closed := make([]string, 0, len(c.Calendar.ClosedDays)+1)
	for _, d := range c.Calendar.ClosedDays {
		if day, err := calendar.ParseWeekday(d); err == nil && day == time.Saturday {
			continue
		}
		closed = append(closed, d)
	}
	if len(closed) == 0 {
		closed = append(closed, "sunday")
	}

	switch strings.ToLower(policy) {
	case "closed":
		c.Calendar.ClosedDays = append(closed, "saturday")
		delete(c.Calendar.RestrictedDays, "saturday")
	case "restricted":
		c.Calendar.ClosedDays = closed
		if c.Calendar.RestrictedDays == nil {
			c.Calendar.RestrictedDays = map[string]string{}
		}
		if _, ok := c.Calendar.RestrictedDays["saturday"]; !ok {
			c.Calendar.RestrictedDays["saturday"] = defaultSaturdayNote
		}
	default:
		return fmt.Errorf("SATURDAY_POLICY must be closed or restricted, got %q", policy)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
		if c.DataSource.BaseURL != "" {
			c.DataSource.Provider = "rest"
		}
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "GC=F"
	}
	if c.DataSource.LocalCurrency == "" {
		c.DataSource.LocalCurrency = "AUD"
	}
	if c.DataSource.SecondaryCurrency == "" {
		c.DataSource.SecondaryCurrency = "CNY"
	}
	if c.DataSource.LocalSymbol == "" {
		c.DataSource.LocalSymbol = "$"
	}
	if c.DataSource.SecondarySymbol == "" {
		c.DataSource.SecondarySymbol = "¥"
	}
	if c.DataSource.CacheTTL == 0 {
		c.DataSource.CacheTTL = 10 * time.Minute
	}
	if c.Alert.DipPercentage == nil {
		dip := 0.05
		c.Alert.DipPercentage = &dip
	}
	if c.Alert.ShortWindow == 0 {
		c.Alert.ShortWindow = 50
	}
	if c.Alert.LongWindow == 0 {
		c.Alert.LongWindow = 200
	}
	if c.DataSource.LookbackDays == 0 {
		c.DataSource.LookbackDays = max(250, c.Alert.ShortWindow, c.Alert.LongWindow)
	}
	if c.Alert.TrendDays == 0 {
		c.Alert.TrendDays = 5
	}
	if c.Alert.ShowLongAverage == nil {
		v := true
		c.Alert.ShowLongAverage = &v
	}
	if c.Alert.ShowPortfolio == nil {
		v := true
		c.Alert.ShowPortfolio = &v
	}
	if c.Retail.Name == "" {
		c.Retail.Name = "Retail store"
	}
	if c.Retail.Timeout == 0 {
		c.Retail.Timeout = 15 * time.Second
	}
	if c.Retail.DecimalSeparator == "" {
		c.Retail.DecimalSeparator = "."
	}
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = "Australia/Sydney"
	}
	if c.Calendar.OpenNote == "" {
		c.Calendar.OpenNote = "Standard hours 9:00-17:00"
	}
	if c.Calendar.ClosedDays == nil && c.Calendar.RestrictedDays == nil {
		c.Calendar.ClosedDays = []string{"sunday"}
		c.Calendar.RestrictedDays = map[string]string{"saturday": defaultSaturdayNote}
	}
	if c.Email.SMTPHost == "" {
		c.Email.SMTPHost = "smtp.gmail.com"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 465
	}
	if c.Ledger.CSVPath == "" {
		c.Ledger.CSVPath = "data/gold_history.csv"
	}
	if c.Ledger.HoldingsPath == "" {
		c.Ledger.HoldingsPath = "data/holdings.csv"
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 0 8 * * *"
	}
	if c.Schedule.StateFile == "" {
		c.Schedule.StateFile = "data/run_state.json"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	recipients, err := c.ParsedRecipients()
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	var wantEmail, wantTelegram bool
	for _, r := range recipients {
		switch r.Channel {
		case model.ChannelEmail:
			wantEmail = true
		case model.ChannelTelegram:
			wantTelegram = true
		}
	}
	if wantEmail && (c.Email.Username == "" || c.Email.AppPassword == "") {
		return fmt.Errorf("email.username and email.app_password are required for email recipients")
	}
	if wantTelegram && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required for telegram recipients")
	}
	if dip := *c.Alert.DipPercentage; dip < 0 || dip >= 1 {
		return fmt.Errorf("alert.dip_percentage must be in [0, 1), got %v", dip)
	}
	if c.Alert.ShortWindow <= 0 || c.Alert.LongWindow <= 0 {
		return fmt.Errorf("alert moving average windows must be positive")
	}
	if need := max(c.Alert.ShortWindow, c.Alert.LongWindow); c.DataSource.LookbackDays < need {
		return fmt.Errorf("data_source.lookback_days must cover the longest moving average window (%d), got %d",
			need, c.DataSource.LookbackDays)
	}
	if sep := c.Retail.DecimalSeparator; sep != "." && sep != "," {
		return fmt.Errorf("retail.decimal_separator must be \".\" or \",\", got %q", sep)
	}
	if c.DataSource.Provider == "rest" && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required for the rest provider")
	}
	if _, err := c.WeekendPolicy(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := c.HolidayTable().Validate(); err != nil {
		return fmt.Errorf("calendar.holidays: %w", err)
	}
	return nil
}

// DecimalSeparator returns the retail page's decimal separator.
func (c *Config) DecimalSeparator() rune {
	if c.Retail.DecimalSeparator == "," {
		return ','
	}
	return '.'
}

// ParsedRecipients converts the configured recipients into model recipients.
// Entries with an empty address are dropped.
func (c *Config) ParsedRecipients() ([]model.Recipient, error) {
	out := make([]model.Recipient, 0, len(c.Recipients))
	for i, r := range c.Recipients {
		if strings.TrimSpace(r.Address) == "" {
			continue
		}
		mode, err := model.ParseLanguageMode(r.Language)
		if err != nil {
			return nil, fmt.Errorf("recipients[%d]: %w", i, err)
		}
		ch, err := model.ParseChannelKind(r.Channel)
		if err != nil {
			return nil, fmt.Errorf("recipients[%d]: %w", i, err)
		}
		out = append(out, model.Recipient{Address: strings.TrimSpace(r.Address), Mode: mode, Channel: ch})
	}
	return out, nil
}

// WeekendPolicy builds the calendar weekend policy.
func (c *Config) WeekendPolicy() (calendar.WeekendPolicy, error) {
	policy := calendar.WeekendPolicy{RestrictedDays: map[time.Weekday]string{}}
	for _, name := range c.Calendar.ClosedDays {
		day, err := calendar.ParseWeekday(name)
		if err != nil {
			return policy, fmt.Errorf("calendar.closed_days: %w", err)
		}
		policy.ClosedDays = append(policy.ClosedDays, day)
	}
	for name, note := range c.Calendar.RestrictedDays {
		day, err := calendar.ParseWeekday(name)
		if err != nil {
			return policy, fmt.Errorf("calendar.restricted_days: %w", err)
		}
		policy.RestrictedDays[day] = note
	}
	return policy, nil
}

// HolidayTable returns the configured holiday table.
func (c *Config) HolidayTable() calendar.HolidayTable {
	return calendar.HolidayTable(c.Calendar.Holidays)
}

// Location loads the store timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone: %w", err)
	}
	return loc, nil
}

// DipPercentage returns the dip threshold as a decimal.
func (c *Config) DipPercentage() decimal.Decimal {
	if c.Alert.DipPercentage == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*c.Alert.DipPercentage)
}

// RatePair returns the "USD/XXX" pair for a currency code.
func RatePair(currency string) string {
	return "USD/" + strings.ToUpper(currency)
}
