package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/storage"
	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

type pane int

const (
	paneTasks pane = iota
	paneDaily
	paneInbox
)

var paneNames = []string{"Tasks", "Daily", "Inbox"}

type boardModel struct {
	ctx  context.Context
	svc  *engine.Service
	sess *engine.Session

	width  int
	height int

	user          *storage.User
	rank          int
	tasks         []storage.Task
	daily         []storage.DailyTask
	notifications []storage.Notification
	unread        int

	pane       pane
	selected   int
	showClosed bool

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	user          *storage.User
	rank          int
	tasks         []storage.Task
	daily         []storage.DailyTask
	notifications []storage.Notification
	unread        int
	err           error
}

type completedMsg struct {
	res *engine.CompleteResult
	err error
}

type markedMsg struct {
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service, sess *engine.Session) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		sess:    sess,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	filter := engine.FilterActive
	if m.showClosed {
		filter = engine.FilterAll
	}
	return func() tea.Msg {
		u, err := m.svc.CurrentUser(m.ctx, m.sess)
		if err != nil {
			return loadedMsg{err: err}
		}
		rank, err := m.svc.UserRank(m.ctx, m.sess)
		if err != nil {
			return loadedMsg{err: err}
		}
		tasks, err := m.svc.ListTasks(m.ctx, m.sess, filter, engine.SortDeadline)
		if err != nil {
			return loadedMsg{err: err}
		}
		if _, err := m.svc.RefreshDailyTasks(m.ctx); err != nil {
			return loadedMsg{err: err}
		}
		daily, err := m.svc.DailyTasks(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		ns, err := m.svc.Notifications(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		unread, err := m.svc.UnreadCount(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{user: u, rank: rank, tasks: tasks, daily: daily, notifications: ns, unread: unread}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, m.sess, id)
		return completedMsg{res: res, err: err}
	}
}

func (m boardModel) markCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if id == "" {
			return markedMsg{err: m.svc.MarkAllRead(m.ctx)}
		}
		return markedMsg{err: m.svc.MarkRead(m.ctx, id)}
	}
}

func (m boardModel) rows() int {
	switch m.pane {
	case paneDaily:
		return len(m.daily)
	case paneInbox:
		return len(m.notifications)
	default:
		return len(m.tasks)
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.user = msg.user
		m.rank = msg.rank
		m.tasks = msg.tasks
		m.daily = msg.daily
		m.notifications = msg.notifications
		m.unread = msg.unread
		m.clampSelection()
		m.lastLog = fmt.Sprintf("Refreshed at %s.", m.svc.Clock().Now().In(m.svc.Location()).Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = completeLog(msg.res)
		return m, m.loadCmd()
	case markedMsg:
		if msg.err != nil {
			m.lastLog = "Mark read failed: " + msg.err.Error()
			return m, nil
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "tab":
			m.pane = (m.pane + 1) % pane(len(paneNames))
			m.selected = 0
			return m, nil
		case "shift+tab":
			m.pane = (m.pane + pane(len(paneNames)) - 1) % pane(len(paneNames))
			m.selected = 0
			return m, nil
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < m.rows()-1 {
				m.selected++
			}
			return m, nil
		case "f":
			m.showClosed = !m.showClosed
			m.selected = 0
			return m, m.loadCmd()
		case "a":
			if m.pane == paneInbox {
				return m, m.markCmd("")
			}
			return m, nil
		case "c", " ", "space", "enter":
			return m.activate()
		}
	}
	return m, nil
}

// activate acts on the selected row of the current pane.
func (m boardModel) activate() (tea.Model, tea.Cmd) {
	if m.selected < 0 || m.selected >= m.rows() {
		return m, nil
	}
	switch m.pane {
	case paneTasks:
		t := m.tasks[m.selected]
		if t.Completed {
			m.lastLog = "Already done."
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Completing %q…", t.Title)
		return m, m.completeCmd(t.ID)
	case paneInbox:
		n := m.notifications[m.selected]
		if n.Read {
			return m, nil
		}
		return m, m.markCmd(n.ID)
	default:
		m.lastLog = "Daily challenges progress on their own."
		return m, nil
	}
}

func (m *boardModel) clampSelection() {
	if m.selected >= m.rows() {
		m.selected = m.rows() - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func completeLog(res *engine.CompleteResult) string {
	msg := fmt.Sprintf("Completed %q: +%d XP, +%d tokens", res.Task.Title, res.XPGained, res.TokensGained)
	if res.LevelUp {
		msg += fmt.Sprintf(" | %s %d → %d", ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter)
	}
	for _, b := range res.UnlockedBadges {
		msg += " | " + b.Icon + " " + b.Name
	}
	return msg
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	n := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < n; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.user == nil {
		return "Task Quest | loading…"
	}
	u := m.user
	bar := ui.ProgressBar(engine.XPProgress(u.XP, u.Level), 100, 30)
	return fmt.Sprintf("Task Quest | %s | Level %d | XP %d %s | %s | %s %d | #%d",
		u.Username, u.Level, u.XP, bar, ui.Tokens(u.Tokens), ui.IconFire, u.DailyLoginStreak, m.rank)
}

func (m boardModel) renderSidebar() string {
	if m.user == nil {
		return "Stats\n\nLoading…"
	}
	var tabs []string
	for i, name := range paneNames {
		if pane(i) == m.pane {
			name = "[" + name + "]"
		}
		tabs = append(tabs, name)
	}
	lines := []string{
		strings.Join(tabs, " "),
		"",
		fmt.Sprintf("Completed: %d", m.user.CompletedTasks),
		fmt.Sprintf("Next level: %d XP", engine.XPForNextLevel(m.user.Level)),
		fmt.Sprintf("Unread: %d", m.unread),
		"",
		"Keys",
		"- ↑/↓ or j/k: move",
		"- tab: switch pane",
		"- c/space: complete / read",
		"- a: mark all read",
		"- f: show done tasks",
		"- r: refresh",
		"- q: quit",
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	switch m.pane {
	case paneDaily:
		out = append(out, "Daily Challenges")
		for i, d := range m.daily {
			out = append(out, fmt.Sprintf("%s%s %s %d/%d (+%d tokens)",
				cursor(i == m.selected), ui.Check(d.Completed), d.Title, min(d.Progress, d.Requirement), d.Requirement, d.TokenReward))
		}
	case paneInbox:
		out = append(out, fmt.Sprintf("Inbox (%d unread)", m.unread))
		for i, n := range m.notifications {
			mark := " "
			if !n.Read {
				mark = "•"
			}
			out = append(out, fmt.Sprintf("%s%s %s %s", cursor(i == m.selected), mark, ui.NotificationIcon(n.Type), n.Message))
		}
	default:
		out = append(out, "Quest Log")
		now := m.svc.Clock().Now()
		for i, t := range m.tasks {
			due := ""
			if t.Deadline != nil {
				if t.Deadline.Before(now) && !t.Completed {
					due = " " + ui.Bad.Render("overdue")
				} else {
					due = " " + ui.Muted.Render("due "+t.Deadline.In(m.svc.Location()).Format("Jan 2 15:04"))
				}
			}
			out = append(out, fmt.Sprintf("%s%s %s (xp=%d)%s", cursor(i == m.selected), ui.Check(t.Completed), t.Title, t.XPReward, due))
		}
	}
	if len(out) == 1 {
		out = append(out, "(empty)")
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func cursor(on bool) string {
	if on {
		return "> "
	}
	return "  "
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
