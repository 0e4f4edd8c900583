package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := Default()

	entry, ok := table["gpt-4o"]
	require.True(t, ok)
	assert.Equal(t, 0.0025, entry.InputPer1K)
	assert.Equal(t, 0.01, entry.OutputPer1K)
	assert.NotEmpty(t, entry.DisplayName)

	for id, e := range table {
		assert.GreaterOrEqual(t, e.InputPer1K, 0.0, "model %s", id)
		assert.GreaterOrEqual(t, e.OutputPer1K, 0.0, "model %s", id)
	}
}

func TestLookup(t *testing.T) {
	table := Default()

	assert.NotNil(t, Lookup(table, "gpt-4o"))
	assert.Nil(t, Lookup(table, "no-such-model"))
	assert.Nil(t, Lookup(table, ""))
}

func TestLoadFallsBackOnMissingFile(t *testing.T) {
	table := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, Default(), table)
}

func TestLoadFallsBackOnBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))

	assert.Equal(t, Default(), Load(path))
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	content := `
custom-model:
  display_name: Custom Model
  description: In-house fine-tune
  input_per_1k: 0.001
  output_per_1k: 0.002
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table := Load(path)
	require.Len(t, table, 1)
	entry := Lookup(table, "custom-model")
	require.NotNil(t, entry)
	assert.Equal(t, "Custom Model", entry.DisplayName)
	assert.Equal(t, 0.001, entry.InputPer1K)
	assert.Equal(t, 0.002, entry.OutputPer1K)
}

func TestIDsSorted(t *testing.T) {
	ids := IDs(Default())
	require.NotEmpty(t, ids)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}
