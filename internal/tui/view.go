package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/twiced-technology-gmbh/dayplan/internal/bucket"
	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// listChrome is the number of lines around the rows: tabs, headline, two
// blank lines and the status bar.
const listChrome = 5

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	switch a.mode {
	case modeForm:
		return a.form.view(a.saving, a.spin.View())
	case modeConfirm:
		return a.viewConfirm()
	default:
		return a.viewList()
	}
}

func (a *App) viewList() string {
	var b strings.Builder
	b.WriteString(a.renderTabs())
	b.WriteString("\n")

	if a.tab == tabToday {
		b.WriteString(headlineStyle.Render(fmt.Sprintf("Today — %d To-Dos", a.buckets.TodayCount())))
	} else {
		b.WriteString(headlineStyle.Render(fmt.Sprintf("Upcoming — %d To-Dos", a.buckets.UpcomingCount())))
	}
	b.WriteString("\n\n")

	body := a.renderRows()
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a *App) renderTabs() string {
	names := []string{
		fmt.Sprintf("1 Today (%d)", a.buckets.TodayCount()),
		fmt.Sprintf("2 Upcoming (%d)", a.buckets.UpcomingCount()),
	}
	out := make([]string, len(names))
	for i, n := range names {
		if tab(i) == a.tab {
			out[i] = activeTabStyle.Render(n)
		} else {
			out[i] = tabStyle.Render(n)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (a *App) renderRows() string {
	if !a.loaded {
		if a.err != nil {
			return dimStyle.Render("No to-dos loaded.")
		}
		return a.spin.View() + " Loading to-dos..."
	}

	rows := a.rows()
	if len(rows) == 0 {
		return dimStyle.Render("Nothing upcoming. Press a to add a to-do.")
	}

	avail := max(a.height-a.chromeHeight(), 1)
	start := 0
	if a.cursor >= avail {
		start = a.cursor - avail + 1
	}
	end := min(start+avail, len(rows))

	now := a.now()
	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		lines = append(lines, a.renderRow(rows[i], i == a.cursor, now))
	}
	if a.tab == tabToday && len(a.buckets.Today) == 0 && end == len(rows) {
		lines = append(lines, dimStyle.Render("    Nothing due today."))
	}
	return strings.Join(lines, "\n")
}

func (a *App) chromeHeight() int {
	h := listChrome
	if a.err != nil || a.notice != "" {
		h++
	}
	return h
}

func (a *App) renderRow(r row, selected bool, now time.Time) string {
	prefix := "  "
	if selected {
		prefix = cursorStyle.Render("> ")
	}

	if r.task == nil {
		marker := ""
		if r.key != "" {
			marker = "▾ "
			if a.collapsed[r.key] {
				marker = "▸ "
			}
		}
		return prefix + r.style.Render(fmt.Sprintf("%s%s (%d)", marker, r.header, r.count))
	}

	t := r.task
	layout := "15:04"
	if bucket.Classify(t, now) == bucket.Overdue {
		layout = "Mon 02 Jan 15:04"
	}
	due := t.DueIn(now.Location()).Format(layout)
	title := t.Title
	if selected {
		title = cursorStyle.Render(title)
	}
	line := prefix + "  " + dimStyle.Render(due) + "  " + title
	if labels := taskLabels(t); labels != "" {
		line += "  " + labelStyle.Render(labels)
	}
	return truncate(line, a.width)
}

func taskLabels(t *task.Task) string {
	var labels []string
	if t.Reminder != "" && t.Reminder != task.ReminderNone {
		labels = append(labels, "⏰ "+t.Reminder.Label())
	}
	if t.Repeat != "" && t.Repeat != task.RepeatNever {
		labels = append(labels, "↻ "+t.Repeat.Label())
	}
	return strings.Join(labels, "  ")
}

func (a *App) renderStatusBar() string {
	var b strings.Builder
	switch {
	case a.err != nil:
		b.WriteString(errorStyle.Render(truncate("Error: "+a.err.Error(), a.width)) + "\n")
	case a.notice != "":
		b.WriteString(noticeStyle.Render(truncate(a.notice, a.width)) + "\n")
	}

	who := dimStyle.Render("not signed in")
	if a.user != nil {
		who = userStyle.Render(a.user.DisplayName())
	}
	status := " " + who + statusBarStyle.Render(" | ")
	if a.loading() {
		status += a.spin.View() + " "
	}
	status += a.help.View(a.keys)
	b.WriteString(status)
	return b.String()
}

func (a *App) viewConfirm() string {
	if a.pending == nil {
		return ""
	}
	content := errorStyle.Render("Complete this to-do?") + "\n\n" +
		fmt.Sprintf("  #%s: %s", a.pending.ID, a.pending.Title) + "\n\n" +
		dimStyle.Render("It will be removed from your list.") + "\n\n" +
		dimStyle.Render("y:yes  n:no")
	return dialogStyle.Render(content)
}

// truncate shortens s to maxLen visible cells without breaking ANSI styling.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	return ansi.Truncate(s, maxLen, "…")
}
