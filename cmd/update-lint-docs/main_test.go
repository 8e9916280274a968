package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/rules/standard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docGenerator(t *testing.T) *linter.DocGenerator {
	t.Helper()

	reg, err := standard.NewRegistry()
	require.NoError(t, err)
	return linter.NewDocGenerator(reg)
}

func TestGenerateRulesTable(t *testing.T) {
	t.Parallel()

	table := generateRulesTable(docGenerator(t))
	lines := strings.Split(strings.TrimSuffix(table, "\n"), "\n")

	require.Len(t, lines, 2+len(standard.Providers()))
	assert.True(t, strings.HasPrefix(lines[2], "| [`curly-spacing`](docs/rules.md#curly-spacing) | wrapping |"), lines[2])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "| [`try-catch-finally-spacing`]"), "rules are sorted by id")
}

func TestReplaceBetweenMarkers(t *testing.T) {
	t.Parallel()

	content := "# cstlint\n\n" + startMarker + "\nold\n" + endMarker + "\n\nMore.\n"
	got, err := replaceBetweenMarkers(content, "new\n")
	require.NoError(t, err)
	assert.Equal(t, "# cstlint\n\n"+startMarker+"\n\nnew\n\n"+endMarker+"\n\nMore.\n", got)

	_, err = replaceBetweenMarkers("no markers", "new")
	require.Error(t, err)
}

func TestWriteRulesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "docs", "rules.md")
	require.NoError(t, writeRulesFile(docGenerator(t), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "### max-line-length")
}
