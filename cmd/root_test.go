package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chtmp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"import", "compare", "export", "analyze", "mock", "sanity", "serve"} {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

func TestImportDryRun(t *testing.T) {
	dir := chtmp(t)

	file := filepath.Join(dir, "companies.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"companies": [{"name": "Acme", "quarterly_data": [
			{"quarter": "Q1", "perception_score": 80, "marketing_intensity_score": 70}
		]}]
	}`), 0644))

	rootCmd.SetArgs([]string{"import", "--dry-run", file})
	require.NoError(t, rootCmd.Execute())
}

func TestImportMissingFile(t *testing.T) {
	chtmp(t)

	rootCmd.SetArgs([]string{"import", filepath.Join(t.TempDir(), "nope.json")})
	assert.Error(t, rootCmd.Execute())
}

func TestMockPersistAndCompare(t *testing.T) {
	chtmp(t)

	rootCmd.SetArgs([]string{"mock", "--persist", "--count", "3"})
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"compare", "--format", "json", "--out", "metrics.json"})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile("metrics.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "compositeScore")
}

func TestSanityOnStore(t *testing.T) {
	chtmp(t)

	rootCmd.SetArgs([]string{"mock", "--persist", "--count", "2"})
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"sanity"})
	require.NoError(t, rootCmd.Execute())
}

func TestCompareEmptyStoreFails(t *testing.T) {
	chtmp(t)

	rootCmd.SetArgs([]string{"compare"})
	assert.Error(t, rootCmd.Execute())
}

func TestExportRoundTrip(t *testing.T) {
	chtmp(t)

	rootCmd.SetArgs([]string{"mock", "--persist", "--count", "2"})
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"export", "--out", "export.json"})
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"import", "export.json"})
	require.NoError(t, rootCmd.Execute())
}
