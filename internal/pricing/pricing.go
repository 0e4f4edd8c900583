package pricing

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nguyenvanduocit/rag-cost-calculator/internal/model"
)

// Default returns the built-in pricing table. Prices are USD per 1,000
// tokens. Static configuration data: more entries can be added without
// touching the calculator, since lookups degrade to zero pricing on miss.
func Default() map[string]model.PriceEntry {
	return map[string]model.PriceEntry{
		"gpt-4o": {
			DisplayName: "GPT-4o",
			Description: "OpenAI flagship multimodal model",
			InputPer1K:  0.0025,
			OutputPer1K: 0.01,
		},
		"gpt-4o-mini": {
			DisplayName: "GPT-4o mini",
			Description: "OpenAI small, low-cost model",
			InputPer1K:  0.00015,
			OutputPer1K: 0.0006,
		},
		"gpt-4.1": {
			DisplayName: "GPT-4.1",
			Description: "OpenAI long-context model",
			InputPer1K:  0.002,
			OutputPer1K: 0.008,
		},
		"claude-sonnet-4": {
			DisplayName: "Claude Sonnet 4",
			Description: "Anthropic balanced model",
			InputPer1K:  0.003,
			OutputPer1K: 0.015,
		},
		"claude-opus-4": {
			DisplayName: "Claude Opus 4",
			Description: "Anthropic most capable model",
			InputPer1K:  0.015,
			OutputPer1K: 0.075,
		},
		"claude-3-5-haiku": {
			DisplayName: "Claude 3.5 Haiku",
			Description: "Anthropic fast, low-cost model",
			InputPer1K:  0.0008,
			OutputPer1K: 0.004,
		},
		"gemini-2.0-flash": {
			DisplayName: "Gemini 2.0 Flash",
			Description: "Google fast multimodal model",
			InputPer1K:  0.0001,
			OutputPer1K: 0.0004,
		},
	}
}

// Load returns the pricing table from a YAML file keyed by model
// identifier. An empty path or any read/parse failure falls back to the
// built-in table, so callers always get a usable table.
func Load(path string) map[string]model.PriceEntry {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}

	var table map[string]model.PriceEntry
	if err := yaml.Unmarshal(data, &table); err != nil || len(table) == 0 {
		return Default()
	}

	return table
}

// Lookup returns the entry for a model identifier, or nil when the table
// has no such entry.
func Lookup(table map[string]model.PriceEntry, id string) *model.PriceEntry {
	if entry, ok := table[id]; ok {
		return &entry
	}
	return nil
}

// IDs returns the table's model identifiers in sorted order, for stable
// listings in the UI and CLI.
func IDs(table map[string]model.PriceEntry) []string {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
