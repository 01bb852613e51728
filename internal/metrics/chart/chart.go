// Package chart prints a per-path token breakdown of an export as an ASCII
// bar chart. Directories holding less than a threshold share of the tokens
// are folded into a single "dir/**" row.
package chart

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/hayeah/fdl/internal/metrics"
)

// Options controls layout and I/O behaviour.
type Options struct {
	BarWidth     int     // 0 = auto (35 % of Width, at most 30)
	FillRune     rune    // default '█'
	ThresholdPct float64 // directories below this share of tokens are folded
	Width        int     // total line width
	Writer       io.Writer
}

// DefaultOptions returns the options used by the pack command.
func DefaultOptions(width int, w io.Writer) Options {
	return Options{
		FillRune:     '█',
		ThresholdPct: 1,
		Width:        width,
		Writer:       w,
	}
}

// row is one line of the chart.
type row struct {
	Label  string
	Tokens int
	Bytes  int
}

// Print writes the chart for m. It waits for m's workers to finish.
func Print(m *metrics.OutputMetrics, opt Options) error {
	m.Wait()

	var files []row
	var extra []row
	for k, v := range m.Items {
		r := row{Label: k.Key, Tokens: v.Tokens, Bytes: v.Bytes}
		if k.Type == metrics.TypeFile {
			files = append(files, r)
		} else {
			r.Label = k.String()
			extra = append(extra, r)
		}
	}

	total := m.Total()
	rows := append(fold(files, total.Tokens, opt.ThresholdPct), extra...)
	for _, ln := range layout(rows, total, len(files), opt) {
		if _, err := fmt.Fprintln(opt.Writer, ln); err != nil {
			return err
		}
	}
	return nil
}

// dirNode accumulates the tokens of a directory prefix.
type dirNode struct {
	name     string
	file     *row
	tokens   int
	bytes    int
	children map[string]*dirNode
}

func (n *dirNode) child(name string) *dirNode {
	c, ok := n.children[name]
	if !ok {
		c = &dirNode{name: name, children: map[string]*dirNode{}}
		n.children[name] = c
	}
	return c
}

// fold builds a directory tree from slash-separated file paths and returns
// one row per file, except that a directory worth less than thresholdPct of
// total is reported as a single "dir/**" row.
func fold(files []row, total int, thresholdPct float64) []row {
	root := &dirNode{children: map[string]*dirNode{}}
	for i := range files {
		cur := root
		for _, part := range strings.Split(files[i].Label, "/") {
			cur.tokens += files[i].Tokens
			cur.bytes += files[i].Bytes
			cur = cur.child(part)
		}
		cur.tokens += files[i].Tokens
		cur.bytes += files[i].Bytes
		cur.file = &files[i]
	}

	thresh := float64(total) * thresholdPct / 100
	var out []row
	var walk func(n *dirNode, prefix string)
	walk = func(n *dirNode, prefix string) {
		for _, c := range n.children {
			label := path.Join(prefix, c.name)
			switch {
			case c.file != nil:
				out = append(out, row{Label: label, Tokens: c.tokens, Bytes: c.bytes})
			case float64(c.tokens) < thresh:
				out = append(out, row{Label: label + "/**", Tokens: c.tokens, Bytes: c.bytes})
			default:
				walk(c, label)
			}
		}
	}
	walk(root, "")
	return out
}

func layout(rows []row, total metrics.MetricItem, fileCount int, opt Options) []string {
	if len(rows) == 0 || total.Tokens == 0 {
		return []string{"No tokens recorded"}
	}
	const pctW, tokensW, gapW = 6, 7, 2

	// smallest first, so the largest rows end up next to the total
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Tokens != rows[j].Tokens {
			return rows[i].Tokens < rows[j].Tokens
		}
		return rows[i].Label < rows[j].Label
	})

	barW := opt.BarWidth
	if barW <= 0 {
		barW = min(int(float64(opt.Width)*0.35), 30)
	}
	keyW := max(opt.Width-(barW+pctW+tokensW+gapW*3), 8)

	maxTokens := rows[len(rows)-1].Tokens
	fill := opt.FillRune
	if fill == 0 {
		fill = '█'
	}

	var lines []string
	for _, r := range rows {
		barLen := 0
		if maxTokens > 0 {
			barLen = int(float64(r.Tokens)/float64(maxTokens)*float64(barW) + 0.5)
		}
		if barLen == 0 && r.Tokens > 0 {
			barLen = 1
		}
		lines = append(lines, line(strings.Repeat(string(fill), barLen), pct(r.Tokens, total.Tokens), r.Tokens, trimPrefix(r.Label, keyW), barW, tokensW))
	}

	lines = append(lines, line(strings.Repeat("─", barW), 100, total.Tokens, "TOTAL", barW, tokensW))
	lines = append(lines, fmt.Sprintf("\nSummary: %d files, %d bytes, %d tokens", fileCount, total.Bytes, total.Tokens))
	return lines
}

func line(bar string, p float64, tokens int, label string, barW, tokensW int) string {
	// pad by rune count: the bar is made of multi-byte runes
	pad := barW - len([]rune(bar))
	if pad < 0 {
		pad = 0
	}
	return fmt.Sprintf("%s%s  %5.1f%%  %*d  %s", bar, strings.Repeat(" ", pad), p, tokensW, tokens, label)
}

// trimPrefix returns s unchanged if it fits in n runes; otherwise "…" and
// the last n-1 runes.
func trimPrefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}

func pct(part, total int) float64 { return float64(part) * 100 / float64(total) }
