package calculator

import (
	"log"
	"math"

	"github.com/nguyenvanduocit/rag-cost-calculator/internal/model"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/pricing"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/tokens"
)

const (
	daysPerMonth = 30
	daysPerYear  = 365

	// backcheckTolerance is the maximum absolute difference allowed between
	// the primary calculation and the independent recomputation.
	backcheckTolerance = 0.0001
)

// CalculateCosts projects token volumes and costs for a usage configuration
// against a pricing table, then self-verifies the result with a backcheck.
//
// Total from the caller's perspective: a model identifier missing from the
// table is priced at zero, a zero value for any of the three multiplicative
// usage counts short-circuits to an all-zero result, and any fault on the
// computation path is recovered and returned as an all-zero result with an
// invalid backcheck. It never panics past this boundary.
func CalculateCosts(cfg model.UsageConfig, table map[string]model.PriceEntry) (result model.CalculationResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("calculator: recovered fault during cost calculation: %v", r)
			result = faultResult()
		}
	}()

	if cfg.DailyUsers == 0 || cfg.ConversationsPerUser == 0 || cfg.MessagesPerConversation == 0 {
		return zeroResult()
	}

	entry := pricing.Lookup(table, cfg.Model)
	var inputPrice, outputPrice float64
	if entry != nil {
		inputPrice = entry.InputPer1K
		outputPrice = entry.OutputPer1K
	}

	chunkTokens := tokens.WordsToTokens(cfg.WordsPerChunk)
	queryTokens := tokens.WordsToTokens(cfg.QueryWords)
	outputTokens := tokens.WordsToTokens(cfg.ResponseWords)

	// Each prior exchange (one query plus one response) stays in the context
	// window, so message i carries i full exchanges of history and the first
	// message carries none.
	exchangeTokens := queryTokens + outputTokens
	var historySum float64
	for i := float64(0); i < cfg.MessagesPerConversation; i++ {
		historySum += i * exchangeTokens
	}
	averageHistoryTokens := historySum / cfg.MessagesPerConversation

	totalInputTokens := cfg.ChunksPerQuery*chunkTokens + queryTokens + averageHistoryTokens
	totalDailyMessages := cfg.DailyUsers * cfg.ConversationsPerUser * cfg.MessagesPerConversation

	dailyInputCost := totalInputTokens * totalDailyMessages / 1000 * inputPrice
	dailyOutputCost := outputTokens * totalDailyMessages / 1000 * outputPrice
	dailyCost := dailyInputCost + dailyOutputCost
	monthlyCost := dailyCost * daysPerMonth

	var costPerMessage float64
	if totalDailyMessages > 0 {
		costPerMessage = monthlyCost / (totalDailyMessages * daysPerMonth)
	}
	var costPerUser float64
	if cfg.DailyUsers > 0 {
		costPerUser = monthlyCost / cfg.DailyUsers
	}

	result = model.CalculationResult{
		TokensPerMessage:     totalInputTokens + outputTokens,
		WordsPerMessage:      tokens.TokensToWords(totalInputTokens + outputTokens),
		TotalDailyMessages:   totalDailyMessages,
		DailyCost:            dailyCost,
		MonthlyCost:          monthlyCost,
		AnnualCost:           dailyCost * daysPerYear,
		CostPerMessage:       costPerMessage,
		CostPerUser:          costPerUser,
		AverageHistoryTokens: math.Round(averageHistoryTokens),
	}
	result.Backcheck = PerformBackcheck(cfg, result, entry, totalInputTokens, outputTokens)
	return result
}

// PerformBackcheck independently recomputes total message volume and daily
// cost from the configuration and compares them against the assembled
// result. entry may be nil for an unresolvable model identifier, in which
// case both prices default to zero.
func PerformBackcheck(cfg model.UsageConfig, result model.CalculationResult, entry *model.PriceEntry, totalInputTokens, outputTokens float64) model.BackcheckResult {
	var inputPrice, outputPrice float64
	if entry != nil {
		inputPrice = entry.InputPer1K
		outputPrice = entry.OutputPer1K
	}

	expectedMessages := cfg.DailyUsers * cfg.ConversationsPerUser * cfg.MessagesPerConversation
	expectedDailyCost := totalInputTokens*expectedMessages*inputPrice/1000 +
		outputTokens*expectedMessages*outputPrice/1000

	details := model.BackcheckDetails{
		// Both sides read the same precomputed token values, so the token
		// flags always match. Kept in the report for display and audit.
		InputTokensMatch:   true,
		OutputTokensMatch:  true,
		TotalMessagesMatch: math.Abs(expectedMessages-result.TotalDailyMessages) < backcheckTolerance,
		DailyCostMatch:     math.Abs(expectedDailyCost-result.DailyCost) < backcheckTolerance,
		Expected: model.BackcheckValues{
			InputTokens:   totalInputTokens,
			OutputTokens:  outputTokens,
			TotalMessages: expectedMessages,
			DailyCost:     expectedDailyCost,
		},
		Actual: model.BackcheckValues{
			InputTokens:   totalInputTokens,
			OutputTokens:  outputTokens,
			TotalMessages: result.TotalDailyMessages,
			DailyCost:     result.DailyCost,
		},
	}

	return model.BackcheckResult{
		IsValid: details.InputTokensMatch && details.OutputTokensMatch &&
			details.TotalMessagesMatch && details.DailyCostMatch,
		Details: details,
	}
}

// zeroResult is the degenerate result for zero usage. Zero expected equals
// zero actual, so the backcheck passes trivially.
func zeroResult() model.CalculationResult {
	return model.CalculationResult{
		Backcheck: model.BackcheckResult{
			IsValid: true,
			Details: model.BackcheckDetails{
				InputTokensMatch:   true,
				OutputTokensMatch:  true,
				TotalMessagesMatch: true,
				DailyCostMatch:     true,
			},
		},
	}
}

// faultResult is returned when the calculation itself failed. All numeric
// fields are zero and the backcheck is explicitly invalid.
func faultResult() model.CalculationResult {
	return model.CalculationResult{
		Backcheck: model.BackcheckResult{IsValid: false},
	}
}
