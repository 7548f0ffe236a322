package tui

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/J-x-Z/native-hub/internal/bridge"
	"github.com/J-x-Z/native-hub/internal/constants"
	"github.com/J-x-Z/native-hub/internal/model"
)

// Pane identifies which view has focus.
type Pane int

const (
	PaneRepos Pane = iota
	PaneFiles
	PaneIssues
	PanePulls
	PaneViewer
)

// inputKind says what a submitted text input means.
type inputKind int

const (
	inputNone inputKind = iota
	inputSearch
	inputComment
)

const maxLogLines = 100

// eventsMsg carries one drained batch of backend events.
type eventsMsg []bridge.Event

// Model is the Bubble Tea model for the repository browser.
type Model struct {
	bridge *bridge.Bridge

	spinner spinner.Model
	viewer  viewport.Model
	input   textinput.Model

	pane      Pane
	inputMode inputKind

	repos      []model.Repository
	repoCursor int
	repo       string

	dirPath    string
	nodes      []model.FileNode
	fileCursor int

	info        *model.RepoInfo
	viewerTitle string

	issues      []model.Issue
	issueCursor int
	issueState  string

	pulls      []model.PullRequest
	pullCursor int

	logs   []string
	device *model.DeviceCode
	authed bool
	busy   bool

	windowWidth  int
	windowHeight int
	quitting     bool
}

// NewModel creates the browser model around a running bridge.
func NewModel(b *bridge.Bridge) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	in := textinput.New()
	in.CharLimit = 256

	return Model{
		bridge:       b,
		spinner:      s,
		viewer:       viewport.New(80, 20),
		input:        in,
		pane:         PaneRepos,
		issueState:   constants.StateOpen,
		windowWidth:  80,
		windowHeight: 24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForEvents(m.bridge),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.viewer.Width = msg.Width - 4
		m.viewer.Height = msg.Height - 10
		if m.viewer.Height < 3 {
			m.viewer.Height = 3
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventsMsg:
		for _, e := range msg {
			m = m.apply(e)
		}
		return m, waitForEvents(m.bridge)
	}

	if m.pane == PaneViewer {
		var cmd tea.Cmd
		m.viewer, cmd = m.viewer.Update(msg)
		return m, cmd
	}

	return m, nil
}

// apply folds one backend event into the view state.
func (m Model) apply(e bridge.Event) Model {
	switch e := e.(type) {
	case bridge.LogLine:
		m = m.logf("%s", e.Text)

	case bridge.DeviceCodeIssued:
		code := e.Code
		m.device = &code
		m = m.logf("Enter code %s at %s", code.UserCode, code.VerificationURI)

	case bridge.AuthSucceeded:
		m.authed = true
		m.device = nil
		m.busy = false
		m = m.logf("Authenticated.")

	case bridge.Failed:
		m.busy = false
		m.device = nil
		m = m.logf("Error: %s", e.Message)

	case bridge.RepositoryList:
		m.repos = e.Items
		m.repoCursor = 0
		m.pane = PaneRepos
		m.busy = false

	case bridge.DirectoryListed:
		m.dirPath = e.Path
		m.nodes = e.Nodes
		m.fileCursor = 0
		m.pane = PaneFiles
		m.busy = false

	case bridge.FileRead:
		m.viewerTitle = e.Name
		m.viewer.SetContent(e.Content)
		m.viewer.GotoTop()
		m.pane = PaneViewer
		m.busy = false

	case bridge.RepositoryInfoLoaded:
		info := e.Info
		m.info = &info

	case bridge.ReadmeLoaded:
		m.viewerTitle = "README"
		m.viewer.SetContent(e.Text)
		m.viewer.GotoTop()

	case bridge.SearchResults:
		m.repos = e.Result.Items
		m.repoCursor = 0
		m.pane = PaneRepos
		m.busy = false
		m = m.logf("%d repositories matched.", e.Result.TotalCount)

	case bridge.IssueList:
		m.issues = e.Items
		m.issueCursor = 0
		m.pane = PaneIssues
		m.busy = false

	case bridge.IssueCommentsLoaded:
		m.viewerTitle = fmt.Sprintf("Comments on #%d", e.Number)
		m.viewer.SetContent(renderComments(e.Comments))
		m.viewer.GotoTop()
		m.pane = PaneViewer
		m.busy = false

	case bridge.CommentCreated:
		m.busy = false
		m = m.logf("Comment posted.")

	case bridge.IssueStateChanged:
		m.busy = false
		for i := range m.issues {
			if m.issues[i].Number == e.Issue.Number {
				m.issues[i] = e.Issue
				break
			}
		}
		m = m.logf("Issue #%d is now %s.", e.Issue.Number, e.Issue.State)

	case bridge.PullRequestList:
		m.pulls = e.Items
		m.pullCursor = 0
		m.pane = PanePulls
		m.busy = false

	case bridge.PullRequestMerged:
		m.busy = false
		if e.Result.Merged {
			m = m.logf("Merged: %s", e.Result.Message)
		} else {
			m = m.logf("Merge refused: %s", e.Result.Message)
		}

	case bridge.PullRequestClosed:
		m.busy = false
		for i := range m.pulls {
			if m.pulls[i].Number == e.PR.Number {
				m.pulls[i] = e.PR
				break
			}
		}
		m = m.logf("Pull request #%d closed.", e.PR.Number)
	}

	return m
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode != inputNone {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.pane = nextPane(m.pane)
		return m, nil

	case "1":
		m.pane = PaneRepos
		return m, nil
	case "2":
		m.pane = PaneFiles
		return m, nil
	case "3":
		m.pane = PaneIssues
		return m, nil
	case "4":
		m.pane = PanePulls
		return m, nil
	case "5":
		m.pane = PaneViewer
		return m, nil

	case "L":
		return m.submit(bridge.Login{}, "Logging in...")

	case "C":
		// Cancel has no terminal event, so it never drives the spinner.
		m.device = nil
		m.busy = false
		if !m.bridge.Submit(bridge.Cancel{}) {
			m = m.logf("Input queue full, action dropped.")
			return m, nil
		}
		return m.logf("Cancel requested."), nil

	case "r":
		return m.submit(bridge.ListRepositories{}, "Loading repositories...")

	case "/":
		m.inputMode = inputSearch
		m.input.Placeholder = "search repositories"
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case "j", "down":
		m.moveCursor(1)
		return m, nil
	case "k", "up":
		m.moveCursor(-1)
		return m, nil
	case "g", "home":
		m.setCursor(0)
		return m, nil
	case "G", "end":
		m.setCursor(1 << 30)
		return m, nil

	case "enter":
		return m.activate()

	case "backspace", "h":
		if m.pane == PaneFiles {
			return m.ascend()
		}
		return m, nil

	case "i":
		if m.repo != "" {
			return m.submit(bridge.ListIssues{Repo: m.repo, State: m.issueState}, "Loading issues...")
		}
		return m, nil

	case "p":
		if m.repo != "" {
			return m.submit(bridge.ListPullRequests{Repo: m.repo, State: m.issueState}, "Loading pull requests...")
		}
		return m, nil

	case "s":
		m.issueState = cycleState(m.issueState)
		m = m.logf("Showing %s items.", m.issueState)
		return m, nil

	case "n":
		if m.pane == PaneIssues && len(m.issues) > 0 {
			m.inputMode = inputComment
			m.input.Placeholder = fmt.Sprintf("comment on #%d", m.issues[m.issueCursor].Number)
			m.input.SetValue("")
			m.input.Focus()
		}
		return m, nil

	case "x":
		return m.closeCurrent()

	case "m":
		if m.pane == PanePulls && len(m.pulls) > 0 {
			pr := m.pulls[m.pullCursor]
			return m.submit(bridge.MergePullRequest{
				Repo:   m.repo,
				Number: pr.Number,
				Method: constants.MergeMethodMerge,
			}, fmt.Sprintf("Merging #%d...", pr.Number))
		}
		return m, nil
	}

	return m, nil
}

// handleInputKey processes keys while the text input is focused.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = inputNone
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.inputMode
		m.inputMode = inputNone
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		switch kind {
		case inputSearch:
			return m.submit(bridge.Search{Query: value}, "Searching...")
		case inputComment:
			if len(m.issues) == 0 {
				return m, nil
			}
			num := m.issues[m.issueCursor].Number
			return m.submit(bridge.CreateComment{
				Repo:   m.repo,
				Number: num,
				Body:   value,
			}, fmt.Sprintf("Posting comment on #%d...", num))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// activate handles enter on the focused pane.
func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.pane {
	case PaneRepos:
		if len(m.repos) == 0 {
			return m, nil
		}
		repo := m.repos[m.repoCursor]
		m.repo = repo.FullName
		m.info = nil
		m.viewer.SetContent("")
		m.viewerTitle = ""
		return m.submit(bridge.SelectRepository{Repo: repo.FullName},
			fmt.Sprintf("Opening %s...", repo.FullName))

	case PaneFiles:
		if len(m.nodes) == 0 {
			return m, nil
		}
		node := m.nodes[m.fileCursor]
		if node.IsDir() {
			return m.submit(bridge.ListDirectory{Repo: m.repo, Path: node.Path},
				fmt.Sprintf("Listing %s...", node.Path))
		}
		if node.DownloadURL == "" {
			m = m.logf("%s has no downloadable content.", node.Name)
			return m, nil
		}
		return m.submit(bridge.ReadFile{Name: node.Name, URL: node.DownloadURL},
			fmt.Sprintf("Reading %s...", node.Name))

	case PaneIssues:
		if len(m.issues) == 0 {
			return m, nil
		}
		num := m.issues[m.issueCursor].Number
		return m.submit(bridge.ListIssueComments{Repo: m.repo, Number: num},
			fmt.Sprintf("Loading comments on #%d...", num))
	}

	return m, nil
}

// ascend lists the parent of the current directory.
func (m Model) ascend() (tea.Model, tea.Cmd) {
	if m.repo == "" || m.dirPath == "" {
		return m, nil
	}
	parent := path.Dir(m.dirPath)
	if parent == "." || parent == "/" {
		parent = ""
	}
	return m.submit(bridge.ListDirectory{Repo: m.repo, Path: parent}, "")
}

// closeCurrent closes or reopens the selected issue, or closes the
// selected pull request.
func (m Model) closeCurrent() (tea.Model, tea.Cmd) {
	switch m.pane {
	case PaneIssues:
		if len(m.issues) == 0 {
			return m, nil
		}
		is := m.issues[m.issueCursor]
		next := constants.StateClosed
		if is.State == constants.StateClosed {
			next = constants.StateOpen
		}
		return m.submit(bridge.SetIssueState{
			Repo:   m.repo,
			Number: is.Number,
			State:  next,
		}, fmt.Sprintf("Setting #%d to %s...", is.Number, next))

	case PanePulls:
		if len(m.pulls) == 0 {
			return m, nil
		}
		pr := m.pulls[m.pullCursor]
		return m.submit(bridge.ClosePullRequest{Repo: m.repo, Number: pr.Number},
			fmt.Sprintf("Closing #%d...", pr.Number))
	}
	return m, nil
}

// submit enqueues an action. A full queue is a local condition, not a
// backend failure, so it only logs.
func (m Model) submit(a bridge.Action, note string) (Model, tea.Cmd) {
	if !m.bridge.Submit(a) {
		return m.logf("Input queue full, action dropped."), nil
	}
	m.busy = true
	if note != "" {
		m = m.logf("%s", note)
	}
	return m, nil
}

func (m Model) logf(f string, args ...any) Model {
	line := fmt.Sprintf(f, args...)
	logs := append(append([]string(nil), m.logs...), line)
	if len(logs) > maxLogLines {
		logs = logs[len(logs)-maxLogLines:]
	}
	m.logs = logs
	return m
}

func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor() + delta)
}

func (m *Model) setCursor(pos int) {
	n := m.paneLen()
	if n == 0 {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > n-1 {
		pos = n - 1
	}
	switch m.pane {
	case PaneRepos:
		m.repoCursor = pos
	case PaneFiles:
		m.fileCursor = pos
	case PaneIssues:
		m.issueCursor = pos
	case PanePulls:
		m.pullCursor = pos
	}
}

func (m Model) cursor() int {
	switch m.pane {
	case PaneRepos:
		return m.repoCursor
	case PaneFiles:
		return m.fileCursor
	case PaneIssues:
		return m.issueCursor
	case PanePulls:
		return m.pullCursor
	}
	return 0
}

func (m Model) paneLen() int {
	switch m.pane {
	case PaneRepos:
		return len(m.repos)
	case PaneFiles:
		return len(m.nodes)
	case PaneIssues:
		return len(m.issues)
	case PanePulls:
		return len(m.pulls)
	}
	return 0
}

func nextPane(p Pane) Pane {
	switch p {
	case PaneRepos:
		return PaneFiles
	case PaneFiles:
		return PaneIssues
	case PaneIssues:
		return PanePulls
	case PanePulls:
		return PaneViewer
	default:
		return PaneRepos
	}
}

func cycleState(s string) string {
	switch s {
	case constants.StateOpen:
		return constants.StateClosed
	case constants.StateClosed:
		return constants.StateAll
	default:
		return constants.StateOpen
	}
}

func renderComments(comments []model.Comment) string {
	if len(comments) == 0 {
		return "No comments."
	}
	var sb strings.Builder
	for i, c := range comments {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s  %s\n%s\n", c.Author, c.CreatedAt.Format(time.DateOnly), c.Body)
	}
	return sb.String()
}

// waitForEvents blocks until the bridge signals pending events, then
// delivers one drained batch.
func waitForEvents(b *bridge.Bridge) tea.Cmd {
	return func() tea.Msg {
		<-b.EventsReady()
		return eventsMsg(b.Drain())
	}
}
