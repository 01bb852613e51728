package ui

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/fdl/internal/assert"
	"github.com/hayeah/fdl/internal/clip"
	"github.com/hayeah/fdl/internal/history"
	"github.com/hayeah/fdl/internal/term"
	"github.com/hayeah/fdl/internal/tree"
)

const binary = assert.Binary

var scenario = map[string]string{
	"a.txt":     "0123456789",
	"b.bin":     binary,
	"sub/c.txt": "hello",
}

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

type recorder struct {
	entries []history.Entry
	err     error
}

func (r *recorder) Record(e history.Entry) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.entries = append(r.entries, e)
	return int64(len(r.entries)), nil
}

type harness struct {
	*App
	root    string
	out     string
	clip    *clip.Memory
	history *recorder
}

// newHarness builds files, scans them synchronously and returns a browser
// sized 80x24 in the browse mode.
func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()
	h := &harness{
		root:    assert.WriteTree(t, files),
		out:     t.TempDir(),
		clip:    &clip.Memory{},
		history: &recorder{},
	}
	h.App = New(Options{
		Builder:   &tree.Builder{Root: h.root},
		Clipboard: h.clip,
		History:   h.history,
		OutputDir: h.out,
		Renderer:  lipgloss.NewRenderer(io.Discard),
		Now:       func() time.Time { return fixedNow },
	})
	h.SetSize(80, 24)
	h.Load(h.opt.Builder.Build())
	return h
}

// press feeds raw terminal input through the key decoder.
func (h *harness) press(input string) {
	for _, k := range term.Decode([]byte(input)) {
		h.HandleKey(k)
	}
}

func (h *harness) current() string {
	return h.View().Current().Rel
}

func (h *harness) frameText() string {
	return strings.Join(h.Frame(), "\n")
}

func TestLoadScenario(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, scenario)

	assert.Equal(ModeBrowse, h.Mode())
	assert.True(h.takeRedraw(), "leaving the loading mode forces a redraw")
	assert.Equal(1, h.View().Len(), "root starts collapsed")
	assert.Equal(2, h.Totals().Count)
	assert.Equal(int64(15), h.Totals().Size)

	frame := h.Frame()
	assert.Len(frame, 24)
	for i, line := range frame {
		assert.Equal(80, ansi.StringWidth(line), "row %d", i)
	}
	assert.Contains(frame[0], "Selected: 15 B (2)")
	assert.Contains(frame[0], "Total: 15 B (2)")
	assert.Contains(frame[0], "Sort: Name")
	assert.Contains(frame[1], "[✓] ▸ "+filepath.Base(h.root)+"/")
}

func TestLoadIgnoredOnceBrowsing(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, scenario)

	other := assert.Tree(map[string]string{"x.txt": "x"})
	h.Load((&tree.Builder{Root: other}).Build())
	assert.Equal(int64(15), h.Totals().Size)
}

func TestPollFinishesLoading(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree(scenario)
	a := New(Options{
		Builder:  &tree.Builder{Root: root},
		Renderer: lipgloss.NewRenderer(io.Discard),
	})
	a.SetSize(80, 24)

	assert.False(a.Poll(), "nothing to poll before Start")
	assert.Contains(strings.Join(a.Frame(), "\n"), "Scanned 0 / 0 entries")

	a.Start()
	require.Eventually(t, func() bool {
		a.Poll()
		return a.Mode() == ModeBrowse
	}, 5*time.Second, time.Millisecond)
	assert.Equal(2, a.Totals().Count)
	assert.False(a.Poll())
}

func TestLoadingIgnoresKeysButAbort(t *testing.T) {
	assert := assert.New(t)
	a := New(Options{
		Builder:  &tree.Builder{Root: t.TempDir()},
		Renderer: lipgloss.NewRenderer(io.Discard),
	})
	a.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(ModeLoading, a.Mode())
	assert.False(a.Quit())

	a.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(a.Quit())
}

func TestNavigateAndSelect(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, scenario)

	h.press("l")
	assert.Equal([]string{"", "sub", "a.txt", "b.bin"}, rowRels(h))

	h.press("l")
	assert.Equal(4, h.View().Len(), "expanding an expanded directory is a no-op")

	h.press("j")
	assert.Equal("sub", h.current())
	h.press(" ")
	assert.Equal(1, h.Totals().Count)
	assert.Equal(int64(10), h.Totals().Size)

	h.press("-")
	assert.Equal(1, h.Totals().Count, "deselecting a deselected directory changes nothing")

	h.press("+")
	assert.Equal(2, h.Totals().Count)
	assert.Equal(int64(15), h.Totals().Size)

	h.press("G")
	assert.Equal("b.bin", h.current())
	h.press(" ")
	assert.Equal(2, h.Totals().Count, "a binary file cannot be selected")

	h.press("n")
	assert.True(h.Totals().IsZero())
	h.press("a")
	assert.Equal(2, h.Totals().Count)

	h.press("g")
	assert.Equal("", h.current())
	h.press("h")
	assert.Equal(1, h.View().Len())

	// arrow keys move the same way
	h.press("\x1b[C\x1b[B\x1b[B")
	assert.Equal("a.txt", h.current())
	h.press("\x1b[A")
	assert.Equal("sub", h.current())
}

func rowRels(h *harness) []string {
	var out []string
	for _, n := range h.View().Rows() {
		out = append(out, n.Rel)
	}
	return out
}

func TestSortToggle(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, map[string]string{
		"small.txt": "1",
		"big.txt":   "1234567890",
		"d/x.txt":   "12",
	})
	h.press("l")
	assert.Equal([]string{"", "d", "big.txt", "small.txt"}, rowRels(h))

	h.press("G")
	h.press("\t")
	assert.Equal(tree.BySize, h.View().Order())
	assert.Equal("Sorted by Size", h.Message())
	assert.Equal("small.txt", h.current(), "cursor stays on the same node")
	assert.Contains(h.Frame()[0], "Sort: Size")

	h.press("j")
	assert.Equal("", h.Message(), "the message lasts one key")
}

func TestExportClipboard(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, scenario)

	h.press("c")
	text, err := h.clip.ReadAll()
	assert.NoError(err)
	assert.Equal("$$FILE sub/c.txt\nhello\n$$FILE a.txt\n0123456789", text)
	assert.Contains(h.Message(), "Copied 2 files")
	assert.Contains(h.Message(), "tokens")

	if assert.Len(h.history.entries, 1) {
		e := h.history.entries[0]
		assert.Equal(history.KindClipboard, e.Kind)
		assert.Equal("clipboard", e.Target)
		assert.Equal(2, e.Files)
		assert.Equal(int64(len(text)), e.Bytes)
		assert.Equal(fixedNow, e.CreatedAt)
	}
	assert.Contains(h.Frame()[23], "Copied 2 files")
}

func TestExportSaveFile(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, scenario)

	h.press("s")
	path := filepath.Join(h.out, "fdl_output_20240102_030405.txt")
	assert.FileContent(path, "$$FILE sub/c.txt\nhello\n$$FILE a.txt\n0123456789")
	assert.Contains(h.Message(), path)

	if assert.Len(h.history.entries, 1) {
		assert.Equal(history.KindFile, h.history.entries[0].Kind)
		assert.Equal(path, h.history.entries[0].Target)
	}
}

func TestExportNothingSelected(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, scenario)

	h.press("nc")
	assert.Equal("Nothing selected", h.Message())
	text, _ := h.clip.ReadAll()
	assert.Empty(text)
	assert.Empty(h.history.entries)
}

func TestExportFailures(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, scenario)

	h.history.err = errors.New("db locked")
	h.press("c")
	assert.Contains(h.Message(), "Copied 2 files", "history failures are not fatal")

	h.clip.Err = errors.New("no clipboard")
	h.press("c")
	assert.Equal("Copy failed: no clipboard", h.Message())
}

func TestPreview(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, scenario)
	h.press("lG")
	assert.Equal("b.bin", h.current())
	h.press("p")
	assert.Equal(ModeBrowse, h.Mode(), "a binary file has no preview")

	h.press("k")
	assert.Equal("a.txt", h.current())
	h.press(" p")
	assert.Equal(ModeBrowse, h.Mode(), "an unselected file has no preview")

	h.press(" p")
	assert.Equal(ModePreview, h.Mode())
	frame := h.Frame()
	assert.Len(frame, 24)
	text := strings.Join(frame, "\n")
	assert.Contains(text, " a.txt ")
	assert.Contains(text, "0123456789")
	assert.Contains(text, "Ln 1/1")

	h.takeRedraw()
	h.press("q")
	assert.Equal(ModeBrowse, h.Mode())
	assert.True(h.takeRedraw(), "closing the preview forces a redraw")
}

func TestPreviewScrollClamps(t *testing.T) {
	assert := assert.New(t)
	var lines []string
	for i := 1; i <= 100; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	h := newHarness(t, map[string]string{"long.txt": strings.Join(lines, "\n") + "\n"})
	h.press("ljp")
	assert.Equal(ModePreview, h.Mode())

	// a 24 row screen gives an 18 row box with 15 rows of text
	assert.Equal(15, h.preview.vp.Height)
	assert.Len(h.preview.lines, 100)

	h.press("k")
	assert.Equal(0, h.preview.vp.YOffset)
	h.press("jj")
	assert.Equal(2, h.preview.vp.YOffset)
	assert.Contains(h.frameText(), "Ln 3/100")

	h.press("G")
	assert.Equal(85, h.preview.vp.YOffset)
	h.press("j")
	assert.Equal(85, h.preview.vp.YOffset)
	assert.Contains(h.frameText(), "line 100")

	h.press("g")
	assert.Equal(0, h.preview.vp.YOffset)
}

func TestPreviewMarkdownToggle(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, map[string]string{
		"readme.md": "# Title\n\nSome body text.\n",
		"plain.txt": "# Title",
	})
	h.press("l")
	assert.Equal([]string{"", "plain.txt", "readme.md"}, rowRels(h))

	h.press("jp")
	h.press("m")
	assert.False(h.preview.markdown, "only markdown files render")
	h.press("q")

	h.press("jp")
	assert.Contains(h.frameText(), "# Title")
	h.press("m")
	assert.True(h.preview.markdown)
	assert.NotContains(h.frameText(), "# Title")
	assert.Contains(h.frameText(), "(rendered)")

	h.press("m")
	assert.False(h.preview.markdown)
	assert.Contains(h.frameText(), "# Title")
}

func TestQuitConfirm(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, scenario)
	h.takeRedraw()

	h.press("q")
	assert.Equal(ModeQuitConfirm, h.Mode())
	assert.Contains(h.frameText(), "Are you sure you want to quit? [y/N]")

	h.press("x")
	assert.Equal(ModeBrowse, h.Mode())
	assert.False(h.Quit())
	assert.True(h.takeRedraw())

	h.press("q\r")
	assert.Equal(ModeBrowse, h.Mode())

	h.press("qy")
	assert.True(h.Quit())
}

func TestSearch(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, map[string]string{
		"a.txt":               "a",
		"docs/guide/intro.md": "intro",
		"docs/notes.txt":      "notes",
	})

	h.press("/")
	assert.Equal(ModeSearch, h.Mode())
	h.press("intro")
	assert.Equal("docs/guide/intro.md", h.search.best)
	assert.Contains(h.Frame()[23], "intro")

	h.press("\r")
	assert.Equal(ModeBrowse, h.Mode())
	assert.Equal("docs/guide/intro.md", h.current())
	assert.Equal("Found docs/guide/intro.md", h.Message())
	assert.Equal([]string{"", "docs", "docs/guide", "docs/guide/intro.md", "docs/notes.txt", "a.txt"}, rowRels(h))

	h.press("g/notes\x1b")
	assert.Equal(ModeBrowse, h.Mode())
	assert.Equal("", h.current(), "escape cancels the jump")

	h.press("/zzz\r")
	assert.Equal("No match", h.Message())
	assert.Equal("", h.current())

	h.press("/!")
	assert.Error(h.search.err)
	assert.Contains(h.Frame()[23], "empty search term")
	h.press("\x1b")

	h.press("/^docs/n\r")
	assert.Equal("docs/notes.txt", h.current())
}

func TestResize(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t, scenario)
	h.takeRedraw()

	h.SetSize(80, 24)
	assert.False(h.takeRedraw())

	h.SetSize(100, 10)
	assert.True(h.takeRedraw())
	assert.Equal(8, h.View().Viewport())
	assert.Len(h.Frame(), 10)
}

// fakeTerminal hands out scripted input once the browser is ready.
type fakeTerminal struct {
	bytes.Buffer
	app   *App
	input []string
	polls int
}

func (f *fakeTerminal) Size() (int, int, error) { return 60, 12, nil }

func (f *fakeTerminal) ReadKeys(time.Duration) ([]tea.KeyMsg, error) {
	f.polls++
	if f.polls > 10000 {
		return nil, errors.New("browser never quit")
	}
	if f.app.Mode() == ModeLoading || len(f.input) == 0 {
		time.Sleep(time.Millisecond)
		return nil, nil
	}
	in := f.input[0]
	f.input = f.input[1:]
	return term.Decode([]byte(in)), nil
}

func TestRun(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree(scenario)
	mem := &clip.Memory{}
	a := New(Options{
		Builder:      &tree.Builder{Root: root},
		Clipboard:    mem,
		Renderer:     lipgloss.NewRenderer(io.Discard),
		PollInterval: time.Millisecond,
	})
	ft := &fakeTerminal{app: a, input: []string{"c", "q", "y"}}

	assert.NoError(a.Run(ft))
	assert.True(a.Quit())
	assert.Contains(ft.String(), "FDL Exporter")
	assert.Contains(ft.String(), "Are you sure")

	text, _ := mem.ReadAll()
	assert.True(strings.HasPrefix(text, "$$FILE sub/c.txt\n"))
}
