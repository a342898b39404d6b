package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguageMode(t *testing.T) {
	tests := []struct {
		in      string
		want    LanguageMode
		wantErr bool
	}{
		{in: "primary-only", want: ModePrimaryOnly},
		{in: " English ", want: ModePrimaryOnly},
		{in: "zh", want: ModeSecondaryOnly},
		{in: "Mandarin", want: ModeSecondaryOnly},
		{in: "BOTH", want: ModeBoth},
		{in: "", wantErr: true},
		{in: "french", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLanguageMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChannelKind(t *testing.T) {
	got, err := ParseChannelKind("")
	require.NoError(t, err)
	assert.Equal(t, ChannelEmail, got)

	got, err = ParseChannelKind("Telegram")
	require.NoError(t, err)
	assert.Equal(t, ChannelTelegram, got)

	_, err = ParseChannelKind("sms")
	assert.Error(t, err)
}

func TestReportBody(t *testing.T) {
	r := Report{Sections: []string{"Headline", "Prices", "Closing"}}
	assert.Equal(t, "Headline\n\nPrices\n\nClosing", r.Body())
	assert.Empty(t, Report{}.Body())
}

func TestStatus(t *testing.T) {
	assert.True(t, ClosedWeekly("Sunday").IsClosed())
	assert.True(t, ClosedHoliday("Christmas Day").IsClosed())
	assert.False(t, Open("Standard hours").IsClosed())
	assert.False(t, UnknownStatus().IsClosed())
	assert.Equal(t, StatusUnknown, TradingStatus{}.Kind)
	assert.Equal(t, RetailUnavailable, RetailResult{}.Kind)
	assert.Equal(t, "STORE_CLOSED", RetailClosed().Kind.String())
}
