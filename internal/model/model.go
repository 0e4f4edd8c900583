package model

// PriceEntry holds the per-1,000-token pricing for a named model tier.
// Entries are static configuration data, defined once at load time.
type PriceEntry struct {
	DisplayName string  `json:"display_name" yaml:"display_name"`
	Description string  `json:"description" yaml:"description"`
	InputPer1K  float64 `json:"input_per_1k" yaml:"input_per_1k"`
	OutputPer1K float64 `json:"output_per_1k" yaml:"output_per_1k"`
}

// UsageConfig describes the RAG workload being estimated. Fields are not
// validated at construction time; the calculator only guards against the
// three multiplicative counts being zero.
type UsageConfig struct {
	Model                   string  `json:"model" yaml:"model"`
	DailyUsers              float64 `json:"daily_users" yaml:"daily_users"`
	ConversationsPerUser    float64 `json:"conversations_per_user" yaml:"conversations_per_user"`
	MessagesPerConversation float64 `json:"messages_per_conversation" yaml:"messages_per_conversation"`
	WordsPerChunk           float64 `json:"words_per_chunk" yaml:"words_per_chunk"`
	ChunksPerQuery          float64 `json:"chunks_per_query" yaml:"chunks_per_query"`
	QueryWords              float64 `json:"query_words" yaml:"query_words"`
	ResponseWords           float64 `json:"response_words" yaml:"response_words"`
}

// CalculationResult is the projected token and cost breakdown for one
// UsageConfig. Immutable once produced.
type CalculationResult struct {
	TokensPerMessage     float64         `json:"tokens_per_message"`
	WordsPerMessage      float64         `json:"words_per_message"`
	TotalDailyMessages   float64         `json:"total_daily_messages"`
	DailyCost            float64         `json:"daily_cost"`
	MonthlyCost          float64         `json:"monthly_cost"`
	AnnualCost           float64         `json:"annual_cost"`
	CostPerMessage       float64         `json:"cost_per_message"`
	CostPerUser          float64         `json:"cost_per_user"`
	AverageHistoryTokens float64         `json:"average_history_tokens"`
	Backcheck            BackcheckResult `json:"backcheck"`
}

// BackcheckResult reports whether an independent recomputation of the key
// aggregates agrees with the primary calculation. A mismatch is reported
// data for the caller to display, not an error.
type BackcheckResult struct {
	IsValid bool             `json:"is_valid"`
	Details BackcheckDetails `json:"details"`
}

// BackcheckDetails carries the per-quantity match flags plus the expected
// and actual values for display and audit.
type BackcheckDetails struct {
	InputTokensMatch   bool            `json:"input_tokens_match"`
	OutputTokensMatch  bool            `json:"output_tokens_match"`
	TotalMessagesMatch bool            `json:"total_messages_match"`
	DailyCostMatch     bool            `json:"daily_cost_match"`
	Expected           BackcheckValues `json:"expected"`
	Actual             BackcheckValues `json:"actual"`
}

// BackcheckValues holds one side of the expected/actual comparison.
type BackcheckValues struct {
	InputTokens   float64 `json:"input_tokens"`
	OutputTokens  float64 `json:"output_tokens"`
	TotalMessages float64 `json:"total_messages"`
	DailyCost     float64 `json:"daily_cost"`
}
