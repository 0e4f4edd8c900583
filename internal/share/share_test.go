package share

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenvanduocit/rag-cost-calculator/internal/model"
)

func TestRoundTrip(t *testing.T) {
	original := model.UsageConfig{
		Model:                   "claude-sonnet-4",
		DailyUsers:              250,
		ConversationsPerUser:    2.5,
		MessagesPerConversation: 8,
		WordsPerChunk:           180,
		ChunksPerQuery:          3,
		QueryWords:              22,
		ResponseWords:           90,
	}

	code, err := Encode(original)
	require.NoError(t, err)
	require.NotEmpty(t, code)

	var decoded model.UsageConfig
	require.NoError(t, Decode(code, &decoded))
	assert.Equal(t, original, decoded)
}

func TestCodeIsURLSafe(t *testing.T) {
	code, err := Encode(model.UsageConfig{Model: "gpt-4o", DailyUsers: 100})
	require.NoError(t, err)

	assert.NotContains(t, code, "+")
	assert.NotContains(t, code, "/")
	assert.NotContains(t, code, "=")
	assert.NotContains(t, code, " ")
}

func TestDecodeRejectsGarbage(t *testing.T) {
	var cfg model.UsageConfig

	assert.Error(t, Decode("not!!valid!!base64", &cfg))
	// Valid base64 that is not a DEFLATE stream
	assert.Error(t, Decode("aGVsbG8gd29ybGQ", &cfg))
}

func TestDecodeRejectsTruncatedCode(t *testing.T) {
	code, err := Encode(model.UsageConfig{Model: strings.Repeat("x", 200)})
	require.NoError(t, err)

	var cfg model.UsageConfig
	assert.Error(t, Decode(code[:len(code)/2], &cfg))
}
