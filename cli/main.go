package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nguyenvanduocit/rag-cost-calculator/cli/internal/config"
	"github.com/nguyenvanduocit/rag-cost-calculator/cli/internal/output"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/calculator"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/model"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/pricing"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/share"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/tokens"
)

const version = "0.1.0"

func main() {
	// Detect subcommand first
	command := "estimate"
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "estimate", "convert", "models", "config":
			command = args[0]
			args = args[1:]
		case "version", "--version", "-v":
			fmt.Printf("ragcost version %s\n", version)
			return
		}
	}

	switch command {
	case "estimate":
		runEstimate(args)
	case "convert":
		runConvert(args)
	case "models":
		runModels(args)
	case "config":
		runConfig(args)
	}
}

// workloadFlags registers the usage configuration flags with defaults
// taken from the saved config file
func workloadFlags(fs *flag.FlagSet, cfg *model.UsageConfig) {
	fs.StringVar(&cfg.Model, "model", cfg.Model, "Pricing model identifier")
	fs.Float64Var(&cfg.DailyUsers, "daily-users", cfg.DailyUsers, "Daily active users")
	fs.Float64Var(&cfg.ConversationsPerUser, "conversations", cfg.ConversationsPerUser, "Conversations per user per day")
	fs.Float64Var(&cfg.MessagesPerConversation, "messages", cfg.MessagesPerConversation, "Messages per conversation")
	fs.Float64Var(&cfg.WordsPerChunk, "chunk-words", cfg.WordsPerChunk, "Words per retrieved chunk")
	fs.Float64Var(&cfg.ChunksPerQuery, "chunks", cfg.ChunksPerQuery, "Chunks retrieved per query")
	fs.Float64Var(&cfg.QueryWords, "query-words", cfg.QueryWords, "Words per user query")
	fs.Float64Var(&cfg.ResponseWords, "response-words", cfg.ResponseWords, "Words per model response")
}

func loadDefaults() (model.UsageConfig, string) {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		return model.UsageConfig{Model: "gpt-4o"}, ""
	}
	defaults := cfg.Defaults
	if defaults.Model == "" {
		defaults.Model = "gpt-4o"
	}
	return defaults, cfg.PricingPath
}

func runEstimate(args []string) {
	fs := flag.NewFlagSet("estimate", flag.ExitOnError)

	workload, savedPricing := loadDefaults()
	workloadFlags(fs, &workload)

	var (
		jsonOut     bool
		shareCode   bool
		pricingPath string
	)
	fs.BoolVar(&jsonOut, "json", false, "Output as JSON")
	fs.BoolVar(&shareCode, "share", false, "Print a shareable code for this workload")
	fs.StringVar(&pricingPath, "pricing", savedPricing, "Path to a YAML pricing table override")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ragcost - RAG workload cost estimator

Usage: ragcost [command] [options]

Commands:
  estimate  Project token counts and costs (default)
  convert   Convert between words and tokens
  models    List the pricing table
  config    Save default workload settings

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ragcost --daily-users 500 --model claude-sonnet-4
  ragcost estimate --json
  ragcost estimate --share
  ragcost convert --words 120
  ragcost models
`)
	}

	fs.Parse(args)

	table := pricing.Load(pricingPath)
	result := calculator.CalculateCosts(workload, table)

	if shareCode {
		code, err := share.Encode(workload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating share code: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(code)
		return
	}

	if jsonOut {
		output.PrintJSON(result)
		return
	}

	output.PrintResult(result)
}

func runConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	var (
		words float64
		toks  float64
	)
	fs.Float64Var(&words, "words", 0, "Word count to convert to tokens")
	fs.Float64Var(&toks, "tokens", 0, "Token count to convert to words")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ragcost convert [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ragcost convert --words 120
  ragcost convert --tokens 1000
`)
	}

	fs.Parse(args)

	if words != 0 {
		fmt.Printf("%s words ≈ %s tokens\n",
			output.FormatNumber(words), output.FormatNumber(tokens.WordsToTokens(words)))
		return
	}
	if toks != 0 {
		fmt.Printf("%s tokens ≈ %s words\n",
			output.FormatNumber(toks), output.FormatNumber(tokens.TokensToWords(toks)))
		return
	}

	fs.Usage()
}

func runModels(args []string) {
	fs := flag.NewFlagSet("models", flag.ExitOnError)

	_, savedPricing := loadDefaults()
	var pricingPath string
	fs.StringVar(&pricingPath, "pricing", savedPricing, "Path to a YAML pricing table override")
	fs.Parse(args)

	table := pricing.Load(pricingPath)
	output.PrintModels(pricing.IDs(table), table)
}

func runConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)

	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{}
	}
	workloadFlags(fs, &cfg.Defaults)

	var (
		pricingPath string
		show        bool
	)
	fs.StringVar(&pricingPath, "pricing", cfg.PricingPath, "Path to a YAML pricing table override")
	fs.BoolVar(&show, "show", false, "Show current configuration")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ragcost config [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ragcost config --daily-users 500 --model claude-sonnet-4
  ragcost config --show
`)
	}

	fs.Parse(args)

	if show {
		output.PrintJSON(cfg)
		return
	}

	cfg.PricingPath = pricingPath

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration saved.")
}
