package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs jsonfmt with the given stdin and arguments
func runCLI(t testing.TB, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = append(os.Environ(), "JSONFMT_OUTPUT_COLOR=never")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// sameJSON asserts that two documents decode to the same data
func sameJSON(t *testing.T, expected, actual string) {
	t.Helper()
	var want, got interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &want))
	require.NoError(t, json.Unmarshal([]byte(actual), &got))
	assert.Equal(t, want, got)
}

// TestEndToEnd_ComplexNestedStructures formats a nested document from file to
// file with sorted keys
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{
		"id": 12345,
		"uuid": "550e8400-e29b-41d4-a716-446655440000",
		"created_at": "2023-05-20T14:56:23Z",
		"updated_at": null,
		"config": {
			"enabled": true,
			"timeout_seconds": 30,
			"features": ["logging", "metrics", "alerting"],
			"rate_limits": {"per_second": 100, "per_minute": 1000, "burst": 150},
			"environments": {
				"production": {"debug": false, "log_level": "info"},
				"development": {"debug": true, "log_level": "debug"}
			}
		},
		"users": [
			{"id": 1, "name": "Alice", "roles": ["admin", "user"], "score": 98.5},
			{"id": 2, "name": "Bob", "roles": [], "score": -1.25e2}
		]
	}`
	jsonFile := filepath.Join(tempDir, "complex.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0644))
	outputFile := filepath.Join(tempDir, "complex_formatted.json")

	_, stderr, err := runCLI(t, "", "-i", jsonFile, "-o", outputFile, "--indent", "2", "--sort-keys")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	formatted, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	out := string(formatted)

	sameJSON(t, jsonContent, out)

	// Keys are sorted at every level
	assert.Less(t, strings.Index(out, `"config"`), strings.Index(out, `"created_at"`))
	assert.Less(t, strings.Index(out, `"development"`), strings.Index(out, `"production"`))
	assert.Less(t, strings.Index(out, `"burst"`), strings.Index(out, `"per_minute"`))

	// Arrays keep their order and number literals survive unchanged
	assert.Less(t, strings.Index(out, `"logging"`), strings.Index(out, `"alerting"`))
	assert.Contains(t, out, "-1.25e2")
	assert.Contains(t, out, `"roles": []`)

	// Formatting the output again changes nothing
	_, _, err = runCLI(t, "", "-i", outputFile, "--indent", "2", "--check")
	assert.NoError(t, err)
}

// TestEndToEnd_LargeJSON pretty-prints and minifies a generated document
func TestEndToEnd_LargeJSON(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large JSON test in short mode")
	}

	tempDir := t.TempDir()
	jsonFile := filepath.Join(tempDir, "large.json")
	generateLargeJSON(t, jsonFile, 1000)

	original, err := os.ReadFile(jsonFile)
	require.NoError(t, err)

	pretty, stderr, err := runCLI(t, "", "-i", jsonFile)
	require.NoError(t, err, "CLI command failed: %s", stderr)
	sameJSON(t, string(original), pretty)

	minified, stderr, err := runCLI(t, pretty, "--minify")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	sameJSON(t, string(original), minified)
	assert.Equal(t, 1, strings.Count(minified, "\n"))
	assert.Less(t, len(minified), len(pretty))
}

// generateLargeJSON writes an array of itemCount records to filePath
func generateLargeJSON(t testing.TB, filePath string, itemCount int) {
	t.Helper()
	rng := rand.New(rand.NewSource(42))

	items := make([]map[string]interface{}, itemCount)
	for i := range items {
		items[i] = map[string]interface{}{
			"id":     i,
			"name":   fmt.Sprintf("Item %d", i),
			"active": rng.Intn(2) == 1,
			"tags":   []string{"tag1", "tag2", fmt.Sprintf("tag_%d", rng.Intn(10))},
			"metadata": map[string]interface{}{
				"priority":    rng.Intn(5) + 1,
				"score":       rng.Float64(),
				"retry_count": rng.Intn(5),
			},
		}
	}

	jsonData, err := json.MarshalIndent(items, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, jsonData, 0644))
}

// TestEndToEnd_EdgeCases tests various edge cases
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		json     string
		args     []string
		expected string
		isError  bool
	}{
		{name: "EmptyObject", json: `{}`, expected: "{}\n"},
		{name: "EmptyArray", json: ` [ ] `, expected: "[]\n"},
		{name: "TopLevelString", json: `"hi"`, expected: "\"hi\"\n"},
		{name: "TopLevelNull", json: "null\n", expected: "null\n"},
		{name: "UnicodeKept", json: `{"é":"ü😀"}`, args: []string{"-m"}, expected: "{\"é\":\"ü😀\"}\n"},
		{name: "HTMLNotEscaped", json: `{"a":"<b>&</b>"}`, args: []string{"-m"}, expected: "{\"a\":\"<b>&</b>\"}\n"},
		{name: "BigNumberKept", json: `[12345678901234567890, 1.0, 1e400]`, args: []string{"-m"}, expected: "[12345678901234567890,1.0,1e400]\n"},
		{name: "DuplicateKeysLastWins", json: `{"a":1,"b":0,"a":2}`, args: []string{"-m"}, expected: "{\"a\":2,\"b\":0}\n"},
		{name: "CodePointOrder", json: `{"b":1,"a":2,"B":3,"é":4}`, args: []string{"-m", "-s"}, expected: "{\"B\":3,\"a\":2,\"b\":1,\"é\":4}\n"},
		{name: "TrailingComma", json: `[1,2,]`, isError: true},
		{name: "SingleQuotes", json: `{'a':1}`, isError: true},
		{name: "TwoValues", json: `{} {}`, isError: true},
		{name: "Empty", json: "", isError: true},
		{name: "WhitespaceOnly", json: " \n\t ", isError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, tc.json, tc.args...)
			if tc.isError {
				assert.Error(t, err, "Expected an error for %s", tc.name)
				assert.Empty(t, stdout)
				assert.Contains(t, stderr, "JSON parsing error")
				return
			}
			require.NoError(t, err, "CLI command failed: %s", stderr)
			assert.Equal(t, tc.expected, stdout)
		})
	}
}

// TestEndToEnd_DeepNesting checks the nesting limit end to end
func TestEndToEnd_DeepNesting(t *testing.T) {
	deep := strings.Repeat("[", 200) + strings.Repeat("]", 200)

	stdout, stderr, err := runCLI(t, deep, "-m")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, deep+"\n", stdout)

	_, stderr, err = runCLI(t, deep, "-m", "--max-depth", "100")
	assert.Error(t, err)
	assert.Contains(t, stderr, "exceeded max depth of 100")
}
