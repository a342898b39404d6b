package model

import (
	"fmt"
	"strings"
)

// Language identifies one of the two supported report languages.
type Language string

const (
	LanguagePrimary   Language = "en"
	LanguageSecondary Language = "zh"
)

// Report is a composed, language-tagged message.
type Report struct {
	Language Language
	Subject  string
	Sections []string
}

// Body renders the sections separated by blank lines.
func (r Report) Body() string {
	return strings.Join(r.Sections, "\n\n")
}

// LanguageMode selects which reports a recipient receives.
type LanguageMode string

const (
	ModePrimaryOnly   LanguageMode = "primary-only"
	ModeSecondaryOnly LanguageMode = "secondary-only"
	ModeBoth          LanguageMode = "both"
)

// ParseLanguageMode accepts the three modes plus the language names used by
// older configurations ("English", "Mandarin").
func ParseLanguageMode(s string) (LanguageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary-only", "primary", "english", "en":
		return ModePrimaryOnly, nil
	case "secondary-only", "secondary", "mandarin", "zh":
		return ModeSecondaryOnly, nil
	case "both":
		return ModeBoth, nil
	}
	return "", fmt.Errorf("unknown language mode %q", s)
}

// ChannelKind selects the notification channel for a recipient.
type ChannelKind string

const (
	ChannelEmail    ChannelKind = "email"
	ChannelTelegram ChannelKind = "telegram"
)

// ParseChannelKind validates a channel name; empty means email.
func ParseChannelKind(s string) (ChannelKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "email":
		return ChannelEmail, nil
	case "telegram":
		return ChannelTelegram, nil
	}
	return "", fmt.Errorf("unknown channel %q", s)
}

// Recipient is a delivery target. Address is an email address or a Telegram chat id.
type Recipient struct {
	Address string
	Mode    LanguageMode
	Channel ChannelKind
}

// Delivery is one entry of the delivery plan.
type Delivery struct {
	Recipient Recipient
	Subject   string
	Body      string
	Urgent    bool
}
