// Package ui is the interactive browser: a mode state machine that turns key
// events into changes of the tree, the selection and the view, and renders
// the result as a frame of terminal rows.
package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/hayeah/fdl/internal/clip"
	"github.com/hayeah/fdl/internal/history"
	"github.com/hayeah/fdl/internal/logging"
	"github.com/hayeah/fdl/internal/metrics"
	prog "github.com/hayeah/fdl/internal/progress"
	"github.com/hayeah/fdl/internal/selection"
	"github.com/hayeah/fdl/internal/tree"
	"github.com/hayeah/fdl/internal/view"
	"github.com/hayeah/fdl/render"
)

// Mode is the state of the browser.
type Mode int

const (
	ModeLoading Mode = iota
	ModeBrowse
	ModePreview
	ModeQuitConfirm
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeBrowse:
		return "browse"
	case ModePreview:
		return "preview"
	case ModeQuitConfirm:
		return "quit-confirm"
	case ModeSearch:
		return "search"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Terminal is the surface Run draws on and reads keys from.
type Terminal interface {
	io.Writer
	Size() (width, height int, err error)
	// ReadKeys waits up to timeout for input.
	ReadKeys(timeout time.Duration) ([]tea.KeyMsg, error)
}

// Options configures an App.
type Options struct {
	Builder   *tree.Builder // scans the tree in the background; required
	Clipboard clip.Clipboard
	History   history.Recorder
	Counter   metrics.Counter
	OutputDir string // directory for saved exports

	Renderer     *lipgloss.Renderer
	Logger       *zap.Logger
	Now          func() time.Time
	PollInterval time.Duration
}

// App is the browser state machine. It is not safe for concurrent use; the
// only concurrency is the background scan, which hands over its result
// through a channel read by Poll.
type App struct {
	opt    Options
	log    *zap.Logger
	styles styles

	mode          Mode
	width, height int
	redraw        bool
	quit          bool
	message       string

	// loading
	tracker *prog.Tracker
	results <-chan *tree.Result
	bar     progress.Model

	// browse
	result *tree.Result
	view   *view.Model
	sel    *selection.Engine
	help   help.Model

	preview previewState
	cache   *cache.Cache

	search searchState
}

// New returns an App in the loading mode. Call Start to begin the scan.
func New(opt Options) *App {
	if opt.Clipboard == nil {
		opt.Clipboard = clip.System{}
	}
	if opt.History == nil {
		opt.History = history.Nop{}
	}
	if opt.Counter == nil {
		opt.Counter = &metrics.SimpleCounter{}
	}
	if opt.OutputDir == "" {
		opt.OutputDir = "."
	}
	if opt.Renderer == nil {
		opt.Renderer = lipgloss.DefaultRenderer()
	}
	if opt.Logger == nil {
		opt.Logger = logging.L()
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.PollInterval <= 0 {
		opt.PollInterval = 100 * time.Millisecond
	}
	if opt.Builder.Progress == nil {
		opt.Builder.Progress = prog.New()
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "fuzzy find"

	return &App{
		opt:     opt,
		log:     opt.Logger,
		styles:  newStyles(opt.Renderer),
		mode:    ModeLoading,
		tracker: opt.Builder.Progress,
		bar:     progress.New(progress.WithDefaultGradient()),
		help:    help.New(),
		cache:   cache.New(cache.NoExpiration, 0),
		search:  searchState{input: ti},
	}
}

func (a *App) Mode() Mode        { return a.mode }
func (a *App) Message() string   { return a.message }
func (a *App) Quit() bool        { return a.quit }
func (a *App) View() *view.Model { return a.view }

// Totals returns the current selection totals, zero while loading.
func (a *App) Totals() selection.Totals {
	if a.sel == nil {
		return selection.Totals{}
	}
	return a.sel.Totals()
}

// Start launches the background scan.
func (a *App) Start() {
	a.results = a.opt.Builder.Start()
}

// Poll collects the scan result once it is ready. It reports whether the
// frame may have changed: always while loading, since progress moves.
func (a *App) Poll() bool {
	if a.mode != ModeLoading || a.results == nil {
		return false
	}
	select {
	case res, ok := <-a.results:
		if ok && res != nil {
			a.Load(res)
		}
	default:
	}
	return true
}

// Load hands a finished scan to the browser and leaves the loading mode.
func (a *App) Load(res *tree.Result) {
	if a.mode != ModeLoading {
		return
	}
	a.result = res
	a.view = view.New(res.Root, a.opt.Builder.Sort)
	a.view.SetViewport(a.listRows())
	a.sel = selection.New(res.Root)
	a.search.index(res.Root)
	a.mode = ModeBrowse
	a.redraw = true

	a.log.Info("browser ready",
		zap.Int("entries", res.Entries),
		zap.Int("encodable", res.EncodableCount),
		zap.Duration("elapsed", res.Elapsed))
}

// SetSize records the terminal size.
func (a *App) SetSize(width, height int) {
	if width == a.width && height == a.height {
		return
	}
	a.width, a.height = width, height
	a.help.Width = width
	if a.view != nil {
		a.view.SetViewport(a.listRows())
	}
	if a.mode == ModePreview {
		_ = a.layoutPreview()
	}
	a.redraw = true
}

// listRows is the height of the tree list: the screen minus header and footer.
func (a *App) listRows() int {
	return a.height - 2
}

// HandleKey applies one key event to the current mode.
func (a *App) HandleKey(k tea.KeyMsg) {
	if key.Matches(k, browseKeys.Abort) {
		a.quit = true
		return
	}
	if a.mode == ModeLoading {
		return
	}
	a.message = ""

	switch a.mode {
	case ModeBrowse:
		a.browseKey(k)
	case ModePreview:
		a.previewKey(k)
	case ModeQuitConfirm:
		if k.Type == tea.KeyRunes && (string(k.Runes) == "y" || string(k.Runes) == "Y") {
			a.quit = true
			return
		}
		a.mode = ModeBrowse
		a.redraw = true
	case ModeSearch:
		a.searchKey(k)
	}
}

// takeRedraw reports and clears a pending request for a full redraw.
func (a *App) takeRedraw() bool {
	r := a.redraw
	a.redraw = false
	return r
}

// Frame renders the current state as one string per terminal row.
func (a *App) Frame() []string {
	if a.width <= 0 || a.height <= 0 {
		return nil
	}
	switch a.mode {
	case ModeLoading:
		return a.loadingFrame()
	case ModePreview:
		return a.previewFrame()
	case ModeQuitConfirm:
		return a.quitFrame()
	}
	return a.browseFrame()
}

// Run drives the browser on t until the user quits. The scan starts here.
func (a *App) Run(t Terminal) error {
	w, h, err := t.Size()
	if err != nil {
		return fmt.Errorf("failed to query terminal size: %w", err)
	}
	a.SetSize(w, h)
	screen := render.NewScreen(t, w, h)

	a.Start()
	for !a.quit {
		if w, h, err := t.Size(); err == nil && (w != a.width || h != a.height) {
			a.SetSize(w, h)
			screen.Resize(w, h)
		}
		a.Poll()
		if a.takeRedraw() {
			screen.Invalidate()
		}
		if _, err := screen.Draw(a.Frame()); err != nil {
			return fmt.Errorf("failed to draw: %w", err)
		}

		keys, err := t.ReadKeys(a.opt.PollInterval)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		for _, k := range keys {
			a.HandleKey(k)
			if a.quit {
				break
			}
		}
	}
	return nil
}

// loadingFrame shows the scan progress.
func (a *App) loadingFrame() []string {
	w := a.width
	snap := a.tracker.Snapshot()

	barWidth := w - 4
	if barWidth > 60 {
		barWidth = 60
	}
	a.bar.Width = barWidth

	frame := make([]string, a.height)
	frame[0] = a.styles.Header.Render(render.Fit("FDL Exporter | Scanning "+a.opt.Builder.Root, w))
	lines := []string{
		"",
		"  " + a.bar.ViewAs(snap.Fraction()),
		fmt.Sprintf("  Scanned %d / %d entries", snap.Scanned, snap.Total),
		"  " + snap.Path,
	}
	for i, l := range lines {
		if 1+i < a.height-1 {
			frame[1+i] = render.Fit(l, w)
		}
	}
	for i := 1 + len(lines); i < a.height-1; i++ {
		frame[i] = render.Fit("", w)
	}
	if a.height > 1 {
		frame[a.height-1] = a.styles.Footer.Render(render.Fit("ctrl+c to abort", w))
	}
	return frame
}

// quitFrame overlays the quit prompt on the browser.
func (a *App) quitFrame() []string {
	const prompt = "Are you sure you want to quit? [y/N]"
	bw := len(prompt) + 4
	if bw > a.width {
		bw = a.width
	}
	box := render.Box("", nil, " "+a.styles.Prompt.Render(prompt), bw, 3)
	return render.Overlay(a.browseFrame(), box, (a.width-bw)/2, (a.height-3)/2, a.width)
}
