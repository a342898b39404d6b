package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldSentinel/internal/config"
	"GoldSentinel/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GMAIL_ADDRESS", "SECONDARY_GMAIL_ADDRESS", "GMAIL_APP_PASSWORD", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "CONFIG_PATH"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestPreview_MockProvider(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, `
data_source:
  provider: mock
calendar:
  timezone: UTC
recipients:
  - address: en@example.com
    language: english
  - address: "42"
    language: both
    channel: telegram
ledger:
  csv_path: `+filepath.Join(dir, "history.csv")+`
  holdings_path: `+filepath.Join(dir, "holdings.csv")+`
`)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "preview"})
	require.NoError(t, root.Execute())

	assert.Equal(t, 2, strings.Count(out.String(), "Subject: "))
	assert.Contains(t, out.String(), "2 deliveries planned")
	_, err := os.Stat(filepath.Join(dir, "history.csv"))
	assert.True(t, os.IsNotExist(err), "preview must not write the ledger")
}

func TestRun_InvalidConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "data_source:\n  provider: mock\n")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "run"})
	err := root.Execute()
	assert.ErrorContains(t, err, "at least one recipient")
}

func TestBuildSource(t *testing.T) {
	tests := []struct {
		provider string
		ttl      bool
		want     string
		wantErr  bool
	}{
		{provider: "yahoo", want: "yahoo"},
		{provider: "rest", want: "rest"},
		{provider: "mock", ttl: true, want: "mock+cache"},
		{provider: "bloomberg", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.DataSource.Provider = tt.provider
			cfg.DataSource.BaseURL = "http://localhost:1"
			cfg.DataSource.LocalCurrency = "AUD"
			cfg.DataSource.SecondaryCurrency = "CNY"
			if tt.ttl {
				cfg.DataSource.CacheTTL = 1
			}
			src, err := buildSource(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Name())
		})
	}
}

func TestTelegramChats(t *testing.T) {
	chats := telegramChats([]model.Recipient{
		{Address: "a@example.com", Channel: model.ChannelEmail},
		{Address: "42", Channel: model.ChannelTelegram},
	})
	assert.Equal(t, []string{"42"}, chats)
}

func TestHoldings_AddThenList(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, `
ledger:
  holdings_path: `+filepath.Join(dir, "holdings.csv")+`
  sqlite_path: `+filepath.Join(dir, "ledger.db")+`
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "holdings.csv"), []byte("grams,price_paid\n7,99\n"), 0o644))

	exec := func(args ...string) (string, error) {
		var out bytes.Buffer
		root := newRootCmd()
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(append([]string{"--config", path}, args...))
		err := root.Execute()
		return out.String(), err
	}

	out, err := exec("holdings", "add", "--grams", "2.5", "--price", "130.1")
	require.NoError(t, err)
	assert.Contains(t, out, "added 2.5 g at 130.10 per gram")

	out, err = exec("holdings", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2.5 g @ 130.10")
	assert.Contains(t, out, "1 lots, 2.5 g total")
	assert.NotContains(t, out, "7 g", "holdings.csv is ignored once sqlite_path is set")
}

func TestHoldings_AddRejects(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	withDB := writeConfig(t, "ledger:\n  sqlite_path: "+filepath.Join(dir, "ledger.db")+"\n")
	withoutDB := writeConfig(t, "ledger:\n  csv_path: "+filepath.Join(dir, "h.csv")+"\n")

	tests := []struct {
		name string
		cfg  string
		args []string
		want string
	}{
		{"no sqlite path", withoutDB, []string{"--grams", "1", "--price", "100"}, "sqlite_path"},
		{"zero grams", withDB, []string{"--grams", "0", "--price", "100"}, "--grams"},
		{"bad price", withDB, []string{"--grams", "1", "--price", "abc"}, "--price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(append([]string{"--config", tt.cfg, "holdings", "add"}, tt.args...))
			err := root.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
