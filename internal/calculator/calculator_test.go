package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenvanduocit/rag-cost-calculator/internal/model"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/pricing"
)

func referenceConfig() model.UsageConfig {
	return model.UsageConfig{
		Model:                   "gpt-4o",
		DailyUsers:              100,
		ConversationsPerUser:    3,
		MessagesPerConversation: 5,
		WordsPerChunk:           200,
		ChunksPerQuery:          2,
		QueryWords:              18,
		ResponseWords:           60,
	}
}

func TestCalculateCostsReferenceScenario(t *testing.T) {
	result := CalculateCosts(referenceConfig(), pricing.Default())

	// chunk 200w -> 266t, query 18w -> 24t, response 60w -> 80t
	// history: (0+1+2+3+4) * (24+80) / 5 = 208
	// input per message: 2*266 + 24 + 208 = 764
	assert.Equal(t, float64(1500), result.TotalDailyMessages)
	assert.Equal(t, float64(208), result.AverageHistoryTokens)
	assert.Equal(t, float64(844), result.TokensPerMessage)
	assert.Equal(t, float64(635), result.WordsPerMessage)

	// gpt-4o: 0.0025 in / 0.01 out per 1K
	assert.InDelta(t, 4.065, result.DailyCost, 1e-9)
	assert.InDelta(t, 121.95, result.MonthlyCost, 1e-9)
	assert.InDelta(t, 1483.725, result.AnnualCost, 1e-9)
	assert.InDelta(t, 121.95/45000, result.CostPerMessage, 1e-12)
	assert.InDelta(t, 1.2195, result.CostPerUser, 1e-9)

	assert.True(t, result.Backcheck.IsValid)
	assert.True(t, result.Backcheck.Details.TotalMessagesMatch)
	assert.True(t, result.Backcheck.Details.DailyCostMatch)
	assert.Equal(t, float64(1500), result.Backcheck.Details.Expected.TotalMessages)
	assert.Equal(t, result.Backcheck.Details.Expected.TotalMessages, result.Backcheck.Details.Actual.TotalMessages)
}

func TestCostScaling(t *testing.T) {
	result := CalculateCosts(referenceConfig(), pricing.Default())

	assert.Equal(t, result.DailyCost*30, result.MonthlyCost)
	assert.Equal(t, result.DailyCost*365, result.AnnualCost)
}

func TestZeroGuard(t *testing.T) {
	zeroed := []func(*model.UsageConfig){
		func(c *model.UsageConfig) { c.DailyUsers = 0 },
		func(c *model.UsageConfig) { c.ConversationsPerUser = 0 },
		func(c *model.UsageConfig) { c.MessagesPerConversation = 0 },
	}

	for _, zero := range zeroed {
		cfg := referenceConfig()
		zero(&cfg)
		result := CalculateCosts(cfg, pricing.Default())

		assert.Equal(t, float64(0), result.TokensPerMessage)
		assert.Equal(t, float64(0), result.WordsPerMessage)
		assert.Equal(t, float64(0), result.TotalDailyMessages)
		assert.Equal(t, float64(0), result.DailyCost)
		assert.Equal(t, float64(0), result.MonthlyCost)
		assert.Equal(t, float64(0), result.AnnualCost)
		assert.Equal(t, float64(0), result.CostPerMessage)
		assert.Equal(t, float64(0), result.CostPerUser)
		assert.Equal(t, float64(0), result.AverageHistoryTokens)

		// Zero usage trivially passes verification
		assert.True(t, result.Backcheck.IsValid)
		assert.True(t, result.Backcheck.Details.TotalMessagesMatch)
		assert.True(t, result.Backcheck.Details.DailyCostMatch)
		assert.Equal(t, model.BackcheckValues{}, result.Backcheck.Details.Expected)
		assert.Equal(t, model.BackcheckValues{}, result.Backcheck.Details.Actual)
	}
}

func TestUnknownModelYieldsZeroCost(t *testing.T) {
	cfg := referenceConfig()
	cfg.Model = "does-not-exist"
	result := CalculateCosts(cfg, pricing.Default())

	// Token and message counts are still computed normally
	assert.Equal(t, float64(1500), result.TotalDailyMessages)
	assert.Equal(t, float64(844), result.TokensPerMessage)

	assert.Equal(t, float64(0), result.DailyCost)
	assert.Equal(t, float64(0), result.MonthlyCost)
	assert.Equal(t, float64(0), result.AnnualCost)
	assert.True(t, result.Backcheck.IsValid)
}

func TestHistoryTokensBaseCase(t *testing.T) {
	cfg := referenceConfig()
	cfg.MessagesPerConversation = 1
	result := CalculateCosts(cfg, pricing.Default())

	assert.Equal(t, float64(0), result.AverageHistoryTokens)
}

func TestMonotonicity(t *testing.T) {
	base := CalculateCosts(referenceConfig(), pricing.Default())

	bumps := []func(*model.UsageConfig){
		func(c *model.UsageConfig) { c.DailyUsers++ },
		func(c *model.UsageConfig) { c.ConversationsPerUser++ },
		func(c *model.UsageConfig) { c.MessagesPerConversation++ },
	}

	for _, bump := range bumps {
		cfg := referenceConfig()
		bump(&cfg)
		result := CalculateCosts(cfg, pricing.Default())

		assert.Greater(t, result.TotalDailyMessages, base.TotalDailyMessages)
		assert.Greater(t, result.DailyCost, base.DailyCost)
	}
}

func TestNegativeInputsPropagate(t *testing.T) {
	cfg := referenceConfig()
	cfg.DailyUsers = -10

	// Not rejected; pushed through the arithmetic
	result := CalculateCosts(cfg, pricing.Default())
	assert.Equal(t, float64(-150), result.TotalDailyMessages)
	assert.True(t, result.Backcheck.Details.TotalMessagesMatch)
}

func TestPerformBackcheckKnownValues(t *testing.T) {
	// totalInput 1320, output 100, 1500 messages at 0.0025/0.01 per 1K
	cfg := model.UsageConfig{
		DailyUsers:              100,
		ConversationsPerUser:    3,
		MessagesPerConversation: 5,
	}
	entry := &model.PriceEntry{InputPer1K: 0.0025, OutputPer1K: 0.01}

	result := model.CalculationResult{TotalDailyMessages: 1500, DailyCost: 6.45}
	check := PerformBackcheck(cfg, result, entry, 1320, 100)

	require.True(t, check.IsValid)
	assert.InDelta(t, 6.45, check.Details.Expected.DailyCost, 1e-9)
	assert.InDelta(t, 6.45*30, check.Details.Expected.DailyCost*30, 1e-9)
	assert.InDelta(t, 6.45*365, check.Details.Expected.DailyCost*365, 1e-9)
	assert.Equal(t, float64(1500), check.Details.Expected.TotalMessages)
	assert.Equal(t, float64(1320), check.Details.Expected.InputTokens)
	assert.Equal(t, float64(100), check.Details.Expected.OutputTokens)
}

func TestPerformBackcheckDetectsDrift(t *testing.T) {
	cfg := model.UsageConfig{
		DailyUsers:              100,
		ConversationsPerUser:    3,
		MessagesPerConversation: 5,
	}

	// Claimed message volume disagrees with the configuration
	result := model.CalculationResult{TotalDailyMessages: 1400}
	check := PerformBackcheck(cfg, result, nil, 764, 80)

	assert.False(t, check.IsValid)
	assert.False(t, check.Details.TotalMessagesMatch)
	assert.True(t, check.Details.DailyCostMatch) // zero pricing on both sides
	assert.True(t, check.Details.InputTokensMatch)
	assert.True(t, check.Details.OutputTokensMatch)
}

func TestPerformBackcheckTolerance(t *testing.T) {
	cfg := model.UsageConfig{
		DailyUsers:              1,
		ConversationsPerUser:    1,
		MessagesPerConversation: 1,
	}

	within := model.CalculationResult{TotalDailyMessages: 1 + 0.00009}
	assert.True(t, PerformBackcheck(cfg, within, nil, 0, 0).Details.TotalMessagesMatch)

	outside := model.CalculationResult{TotalDailyMessages: 1 + 0.0002}
	assert.False(t, PerformBackcheck(cfg, outside, nil, 0, 0).Details.TotalMessagesMatch)
}
