package tokens

import "math"

// TokensPerWord is the fixed heuristic ratio used in place of a real
// tokenizer. Roughly accurate for English prose across common models.
const TokensPerWord = 1.33

// WordsToTokens estimates the token count for a word count. Returns 0 for
// any input <= 0; otherwise the ceiling of words * TokensPerWord.
func WordsToTokens(words float64) float64 {
	if words <= 0 {
		return 0
	}
	return math.Ceil(words * TokensPerWord)
}

// TokensToWords estimates the word count for a token count. Returns 0 for
// any input <= 0; otherwise the ceiling of tokens / TokensPerWord.
//
// Not an exact inverse of WordsToTokens: the two independent ceilings mean
// a round trip can come back larger than the original.
func TokensToWords(tokens float64) float64 {
	if tokens <= 0 {
		return 0
	}
	return math.Ceil(tokens / TokensPerWord)
}
