package calculator

import "GoldSentinel/internal/model"

// RecentTrend returns the last n samples, most recent first.
func RecentTrend(samples []model.PriceSample, n int) []model.PriceSample {
	if n <= 0 || len(samples) == 0 {
		return nil
	}
	if n > len(samples) {
		n = len(samples)
	}
	out := make([]model.PriceSample, 0, n)
	for i := len(samples) - 1; i >= len(samples)-n; i-- {
		out = append(out, samples[i])
	}
	return out
}
