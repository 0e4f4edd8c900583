package output

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/nguyenvanduocit/rag-cost-calculator/internal/model"
)

// FormatNumber formats a numeric quantity with thousand separators.
// Integral values drop the decimals; fractional values keep two.
func FormatNumber(n float64) string {
	if n != math.Trunc(n) {
		return fmt.Sprintf("%.2f", n)
	}

	str := fmt.Sprintf("%.0f", math.Abs(n))
	var result strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	if n < 0 {
		return "-" + result.String()
	}
	return result.String()
}

// FormatCost formats a cost value as currency
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.2f", cost)
}

// FormatUnitCost keeps extra precision for small per-message amounts
func FormatUnitCost(cost float64) string {
	return fmt.Sprintf("$%.4f", cost)
}

// PrintResult renders a calculation result as an aligned two-column table
func PrintResult(result model.CalculationResult) {
	rows := []struct {
		label string
		value string
	}{
		{"Tokens per message", FormatNumber(result.TokensPerMessage)},
		{"Words per message", FormatNumber(result.WordsPerMessage)},
		{"Avg. history tokens/message", FormatNumber(result.AverageHistoryTokens)},
		{"Total messages per day", FormatNumber(result.TotalDailyMessages)},
		{"Daily cost", FormatCost(result.DailyCost)},
		{"Monthly cost (30 days)", FormatCost(result.MonthlyCost)},
		{"Annual cost (365 days)", FormatCost(result.AnnualCost)},
		{"Cost per message", FormatUnitCost(result.CostPerMessage)},
		{"Cost per user per month", FormatUnitCost(result.CostPerUser)},
	}

	width := 0
	for _, row := range rows {
		if len(row.label) > width {
			width = len(row.label)
		}
	}

	for _, row := range rows {
		fmt.Printf("%-*s  %s\n", width, row.label, row.value)
	}

	fmt.Println()
	if result.Backcheck.IsValid {
		fmt.Println("Backcheck: OK")
	} else {
		fmt.Println("Backcheck: MISMATCH")
		d := result.Backcheck.Details
		fmt.Printf("  total messages  expected %s, actual %s\n",
			FormatNumber(d.Expected.TotalMessages), FormatNumber(d.Actual.TotalMessages))
		fmt.Printf("  daily cost      expected %s, actual %s\n",
			FormatUnitCost(d.Expected.DailyCost), FormatUnitCost(d.Actual.DailyCost))
	}
}

// PrintModels renders the pricing table
func PrintModels(ids []string, table map[string]model.PriceEntry) {
	fmt.Printf("%-20s %-20s %12s %12s\n", "ID", "Name", "In $/1K", "Out $/1K")
	for _, id := range ids {
		entry := table[id]
		fmt.Printf("%-20s %-20s %12s %12s\n",
			id, entry.DisplayName,
			FormatUnitCost(entry.InputPer1K), FormatUnitCost(entry.OutputPer1K))
	}
}

// PrintJSON outputs any value as indented JSON
func PrintJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
