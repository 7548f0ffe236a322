package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/J-x-Z/native-hub/internal/constants"
	"github.com/J-x-Z/native-hub/internal/format"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(m.renderHeader())
	sb.WriteString(m.renderTabs())

	switch m.pane {
	case PaneRepos:
		sb.WriteString(m.renderRepos())
	case PaneFiles:
		sb.WriteString(m.renderFiles())
	case PaneIssues:
		sb.WriteString(m.renderIssues())
	case PanePulls:
		sb.WriteString(m.renderPulls())
	case PaneViewer:
		sb.WriteString(m.renderViewer())
	}

	if m.inputMode != inputNone {
		sb.WriteString("\n  " + m.input.View() + "\n")
	}

	sb.WriteString(m.renderLog())
	sb.WriteString(m.renderFooter())

	return sb.String()
}

func (m Model) renderHeader() string {
	title := "native-hub"
	if m.repo != "" {
		title += "  " + m.repo
	}
	line := "  " + titleStyle.Render(title)

	if m.authed {
		line += dimStyle.Render("  [authenticated]")
	}
	if m.busy {
		line += "  " + spinnerStyle.Render(m.spinner.View())
	}
	line += "\n"

	if m.info != nil {
		line += "  " + dimStyle.Render(fmt.Sprintf("★ %s  ⑂ %s  %s  issues %d",
			format.Count(m.info.Stars),
			format.Count(m.info.Forks),
			m.info.Language,
			m.info.OpenIssues)) + "\n"
	}

	if m.device != nil {
		line += "  " + deviceCodeStyle.Render(
			fmt.Sprintf("Enter code %s at %s", m.device.UserCode, m.device.VerificationURI)) + "\n"
	}

	return line + "\n"
}

func (m Model) renderTabs() string {
	tabs := []struct {
		pane  Pane
		label string
	}{
		{PaneRepos, "1 repos"},
		{PaneFiles, "2 files"},
		{PaneIssues, "3 issues"},
		{PanePulls, "4 pulls"},
		{PaneViewer, "5 view"},
	}

	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.pane == m.pane {
			parts = append(parts, paneTabActiveStyle.Render(t.label))
		} else {
			parts = append(parts, paneTabStyle.Render(t.label))
		}
	}
	return "  " + strings.Join(parts, "  ") + "\n\n"
}

// bodyRows returns how many list rows fit the window.
func (m Model) bodyRows() int {
	rows := m.windowHeight - 12
	if rows < 5 {
		rows = 5
	}
	return rows
}

// window returns the half-open visible range around the cursor.
func (m Model) window(n int) (int, int) {
	rows := m.bodyRows()
	if n <= rows {
		return 0, n
	}
	start := m.cursor() - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

func (m Model) renderRepos() string {
	if len(m.repos) == 0 {
		return dimStyle.Render("  No repositories loaded. Press r to fetch, / to search.") + "\n"
	}

	nameWidth := 40
	var sb strings.Builder
	start, end := m.window(len(m.repos))
	for i := start; i < end; i++ {
		r := m.repos[i]
		marker := "  "
		name := format.Truncate(r.FullName, nameWidth)
		line := fmt.Sprintf("%-*s ★%-6s %s", nameWidth, name,
			format.Count(r.Stars), format.Truncate(r.Description, 50))
		if i == m.repoCursor {
			marker = "> "
			line = selectedStyle.Render(line)
		} else {
			line = paneTabStyle.Render(line)
		}
		sb.WriteString("  " + marker + line + "\n")
	}
	return sb.String()
}

func (m Model) renderFiles() string {
	if m.repo == "" {
		return dimStyle.Render("  Select a repository first.") + "\n"
	}

	loc := m.dirPath
	if loc == "" {
		loc = "/"
	}
	var sb strings.Builder
	sb.WriteString("  " + dimStyle.Render(loc) + "\n")

	if len(m.nodes) == 0 {
		sb.WriteString(dimStyle.Render("  Empty directory.") + "\n")
		return sb.String()
	}

	start, end := m.window(len(m.nodes))
	for i := start; i < end; i++ {
		n := m.nodes[i]
		marker := "  "
		var line string
		if n.IsDir() {
			line = dirStyle.Render(n.Name + "/")
		} else {
			line = fmt.Sprintf("%-40s %s", format.Truncate(n.Name, 40), dimStyle.Render(format.Size(n.Size)))
		}
		if i == m.fileCursor {
			marker = "> "
			if !n.IsDir() {
				line = selectedStyle.Render(fmt.Sprintf("%-40s %s", format.Truncate(n.Name, 40), format.Size(n.Size)))
			}
		}
		sb.WriteString("  " + marker + line + "\n")
	}
	return sb.String()
}

func (m Model) renderIssues() string {
	if len(m.issues) == 0 {
		return dimStyle.Render("  No issues loaded. Press i to fetch.") + "\n"
	}

	var sb strings.Builder
	start, end := m.window(len(m.issues))
	for i := start; i < end; i++ {
		is := m.issues[i]
		marker := "  "
		line := fmt.Sprintf("#%-5d %s %s %s",
			is.Number,
			stateBadge(is.State),
			format.Truncate(is.Title, 60),
			dimStyle.Render(format.Age(time.Since(is.UpdatedAt))))
		if i == m.issueCursor {
			marker = "> "
		}
		sb.WriteString("  " + marker + line + "\n")
	}
	return sb.String()
}

func (m Model) renderPulls() string {
	if len(m.pulls) == 0 {
		return dimStyle.Render("  No pull requests loaded. Press p to fetch.") + "\n"
	}

	var sb strings.Builder
	start, end := m.window(len(m.pulls))
	for i := start; i < end; i++ {
		pr := m.pulls[i]
		marker := "  "
		draft := ""
		if pr.Draft {
			draft = dimStyle.Render(" [draft]")
		}
		line := fmt.Sprintf("#%-5d %s %s%s %s",
			pr.Number,
			stateBadge(pr.State),
			format.Truncate(pr.Title, 55),
			draft,
			dimStyle.Render(pr.HeadRef+"→"+pr.BaseRef))
		if i == m.pullCursor {
			marker = "> "
		}
		sb.WriteString("  " + marker + line + "\n")
	}
	return sb.String()
}

func (m Model) renderViewer() string {
	if m.viewerTitle == "" {
		return dimStyle.Render("  Nothing to view yet.") + "\n"
	}
	return "  " + titleStyle.Render(m.viewerTitle) + "\n" + m.viewer.View() + "\n"
}

func (m Model) renderLog() string {
	if len(m.logs) == 0 {
		return "\n"
	}
	tail := m.logs
	if len(tail) > 3 {
		tail = tail[len(tail)-3:]
	}
	var sb strings.Builder
	sb.WriteString("\n")
	for _, l := range tail {
		if strings.HasPrefix(l, "Error:") {
			sb.WriteString("  " + errorStyle.Render(l) + "\n")
		} else {
			sb.WriteString("  " + dimStyle.Render(l) + "\n")
		}
	}
	return sb.String()
}

func (m Model) renderFooter() string {
	var help string
	switch {
	case m.inputMode != inputNone:
		help = "enter submit  esc cancel"
	case m.pane == PaneFiles:
		help = "enter open  backspace up  tab pane  q quit"
	case m.pane == PaneIssues:
		help = "enter comments  n comment  x close/reopen  s state  tab pane  q quit"
	case m.pane == PanePulls:
		help = "m merge  x close  s state  tab pane  q quit"
	case m.pane == PaneViewer:
		help = "↑/↓ scroll  tab pane  q quit"
	default:
		help = "enter open  r reload  / search  L login  C cancel  tab pane  q quit"
	}
	return footerStyle.Render("  "+help) + "\n"
}

func stateBadge(state string) string {
	switch state {
	case constants.StateClosed:
		return closedStyle.Render("closed")
	default:
		return openStyle.Render(" open ")
	}
}
