// internal/tui/app.go
//
// This is the main TUI for the council tool. It uses bubbletea, which
// follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lyzr-Apps/llm-council-super-edge/internal/config"
	"github.com/Lyzr-Apps/llm-council-super-edge/internal/gateway"
	"github.com/Lyzr-Apps/llm-council-super-edge/internal/logbook"
	"github.com/Lyzr-Apps/llm-council-super-edge/internal/report"
	"github.com/Lyzr-Apps/llm-council-super-edge/internal/workflow"
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithGatewayClient overrides the agent gateway client used by the workflow.
func WithGatewayClient(client gateway.Client) AppOption {
	return func(a *App) {
		if client != nil {
			a.gateway = client
		}
	}
}

// conveneDoneMsg signals that a Convene call settled. err carries only
// validation and busy rejections; gateway failures land in the snapshot.
type conveneDoneMsg struct{ err error }

// synthesizeDoneMsg signals that a Synthesize call settled.
type synthesizeDoneMsg struct{ err error }

// exportDoneMsg signals that a report export finished.
type exportDoneMsg struct {
	path string
	err  error
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config     *config.Config
	gateway    gateway.Client
	controller *workflow.Controller
	logbook    *logbook.Logbook

	// snap is the last workflow snapshot; every render reads from it.
	snap workflow.Snapshot

	// UI components
	input     textarea.Model
	spin      spinner.Model
	voteBar   progress.Model
	report    viewport.Model
	loading   bool
	selected  int
	expanded  map[int]bool
	noticeMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp creates a new App instance rooted at projectDir.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}

	httpClient := gateway.NewHTTPClient(cfg.Project.Gateway)
	logPath := filepath.Join(cfg.LogsDir(), "session.log")
	lb, err := logbook.New(logPath, shortSession(httpClient.SessionID()))
	if err != nil {
		lb = nil
	}

	input := textarea.New()
	input.Placeholder = "Describe the problem the council should deliberate on..."
	input.ShowLineNumbers = false
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	app := &App{
		config:   cfg,
		gateway:  httpClient,
		logbook:  lb,
		input:    input,
		spin:     spin,
		voteBar:  progress.New(progress.WithDefaultGradient()),
		report:   viewport.New(0, 0),
		expanded: map[int]bool{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.controller = workflow.New(app.gateway, cfg, lb)
	app.snap = app.controller.Snapshot()
	if lb != nil {
		lb.Info("Session opened · council of %d convenable", config.MemberCount)
	}
	return app, nil
}

func shortSession(session string) string {
	if len(session) > 8 {
		return session[:8]
	}
	return session
}

func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

// refresh pulls the latest workflow snapshot into the model.
func (a *App) refresh() {
	prev := a.snap.Screen
	a.snap = a.controller.Snapshot()
	if a.snap.Screen != prev {
		a.noticeMsg = ""
		switch a.snap.Screen {
		case workflow.ScreenInput:
			a.input.Reset()
			a.input.Focus()
			a.selected = 0
			a.expanded = map[int]bool{}
		case workflow.ScreenDeliberation:
			a.selected = 0
			a.expanded = map[int]bool{}
		case workflow.ScreenConsensus:
			a.report.SetContent(a.renderReportBody())
			a.report.GotoTop()
		}
	}
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.SetWidth(max(20, msg.Width-8))
		a.input.SetHeight(max(3, min(8, msg.Height-14)))
		a.voteBar.Width = max(10, min(48, msg.Width-30))
		a.report.Width = max(20, msg.Width-6)
		a.report.Height = max(5, msg.Height-12)
		if a.snap.Screen == workflow.ScreenConsensus {
			a.report.SetContent(a.renderReportBody())
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case conveneDoneMsg:
		a.loading = false
		a.refresh()
		if a.snap.Screen == workflow.ScreenInput && !a.input.Focused() {
			a.input.Focus()
		}
		return a, nil

	case synthesizeDoneMsg:
		a.loading = false
		a.refresh()
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.noticeMsg = "Export failed: " + msg.err.Error()
		} else {
			a.noticeMsg = "Report exported to " + msg.path
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateFocused(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		if a.snap.Err != "" {
			a.controller.DismissError()
			a.refresh()
			return a, nil
		}
	}

	switch a.snap.Screen {
	case workflow.ScreenInput:
		if key == "ctrl+s" {
			return a.submitProblem()
		}

	case workflow.ScreenDeliberation:
		switch key {
		case "q":
			return a, tea.Quit
		case "up", "k":
			if a.selected > 0 {
				a.selected--
			}
			return a, nil
		case "down", "j":
			if a.snap.Deliberation != nil && a.selected < len(a.snap.Deliberation.Members)-1 {
				a.selected++
			}
			return a, nil
		case "enter", " ":
			a.expanded[a.selected] = !a.expanded[a.selected]
			return a, nil
		case "s":
			return a.startSynthesis()
		case "r":
			a.controller.Reset()
			a.refresh()
			return a, nil
		}

	case workflow.ScreenConsensus:
		switch key {
		case "q":
			return a, tea.Quit
		case "e":
			return a, a.exportReport()
		case "r":
			a.controller.Reset()
			a.refresh()
			return a, nil
		}
	}

	return a.updateFocused(msg)
}

// updateFocused forwards a message to whichever component owns the focus.
func (a *App) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.snap.Screen {
	case workflow.ScreenInput:
		if !a.loading {
			a.input, cmd = a.input.Update(msg)
		}
	case workflow.ScreenConsensus:
		a.report, cmd = a.report.Update(msg)
	}
	return a, cmd
}

// submitProblem starts a Convene call. The guard keeps empty input and
// in-flight calls from ever reaching the controller.
func (a *App) submitProblem() (tea.Model, tea.Cmd) {
	problem := strings.TrimSpace(a.input.Value())
	if problem == "" || a.loading || a.snap.Busy {
		return a, nil
	}
	a.loading = true
	a.input.Blur()
	return a, tea.Batch(a.conveneCmd(problem), a.spin.Tick)
}

func (a *App) startSynthesis() (tea.Model, tea.Cmd) {
	if a.loading || a.snap.Busy || a.snap.Deliberation == nil {
		return a, nil
	}
	a.loading = true
	return a, tea.Batch(a.synthesizeCmd(), a.spin.Tick)
}

func (a *App) conveneCmd(problem string) tea.Cmd {
	return func() tea.Msg {
		return conveneDoneMsg{err: a.controller.Convene(context.Background(), problem)}
	}
}

func (a *App) synthesizeCmd() tea.Cmd {
	return func() tea.Msg {
		return synthesizeDoneMsg{err: a.controller.Synthesize(context.Background())}
	}
}

func (a *App) exportReport() tea.Cmd {
	consensus := a.snap.Consensus
	dir := a.config.ExportsDir()
	return func() tea.Msg {
		path, err := report.Export(consensus, dir)
		return exportDoneMsg{path: path, err: err}
	}
}
