package sampletext

import (
	"math/rand"
	"strings"
)

// vocabulary is the fixed word list for illustrative filler text. The
// output is non-authoritative display content, never fed back into any
// calculation.
var vocabulary = []string{
	"retrieval", "augmented", "generation", "pipeline", "context", "window",
	"embedding", "vector", "index", "query", "document", "chunk", "passage",
	"ranking", "relevance", "semantic", "search", "knowledge", "base",
	"response", "prompt", "token", "model", "inference", "latency", "cache",
	"corpus", "snippet", "summary", "answer", "citation", "source", "score",
	"threshold", "rerank", "filter", "metadata", "storage", "throughput",
	"budget",
}

// Generate returns exactly n words drawn uniformly at random, with
// replacement, from the fixed vocabulary, joined by single spaces.
func Generate(n int) string {
	if n <= 0 {
		return ""
	}
	words := make([]string, n)
	for i := range words {
		words[i] = vocabulary[rand.Intn(len(vocabulary))]
	}
	return strings.Join(words, " ")
}
