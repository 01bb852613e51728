package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/fdl/internal/metrics"
)

// fixedCounter counts one token per byte so that expectations are exact.
type fixedCounter struct{}

func (fixedCounter) Count(text string) (int, int, int) {
	return len(text), len(text), 1
}

func TestPrint(t *testing.T) {
	assert := assert.New(t)

	m := metrics.NewOutputMetrics(fixedCounter{}, 1)
	m.Add(metrics.TypeFile, "src/main.go", strings.Repeat("x", 600))
	m.Add(metrics.TypeFile, "src/util.go", strings.Repeat("x", 300))
	m.Add(metrics.TypeFile, "docs/a.md", "tiny")
	m.Add(metrics.TypeFile, "docs/b.md", "tiny")
	m.Add(metrics.TypeFile, "README.md", strings.Repeat("x", 92))

	var out bytes.Buffer
	require.NoError(t, Print(m, DefaultOptions(80, &out)))

	text := out.String()
	lines := strings.Split(strings.TrimSpace(text), "\n")

	assert.Contains(text, "src/main.go")
	assert.Contains(text, "docs/**", "docs holds under 1% of tokens")
	assert.NotContains(text, "docs/a.md")
	assert.Contains(lines[len(lines)-3], "TOTAL")
	assert.Contains(lines[len(lines)-3], "1000")
	assert.Contains(text, "Summary: 5 files, 1000 bytes, 1000 tokens")

	// the largest row sits just above the total
	assert.Contains(lines[len(lines)-4], "src/main.go")
	assert.Contains(lines[len(lines)-4], " 60.0%")
}

func TestPrintEmpty(t *testing.T) {
	m := metrics.NewOutputMetrics(fixedCounter{}, 1)
	var out bytes.Buffer
	require.NoError(t, Print(m, DefaultOptions(80, &out)))
	assert.Equal(t, "No tokens recorded\n", out.String())
}

func TestTrimPrefix(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("short", trimPrefix("short", 10))
	assert.Equal("…/file.go", trimPrefix("very/long/path/to/file.go", 9))
}
