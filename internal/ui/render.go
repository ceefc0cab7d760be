package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskmaster/internal/task"
)

func (m *Model) View() string {
	var b strings.Builder
	m.writeHeader(&b)

	switch m.mode {
	case modePriority:
		m.writePriorityPicker(&b)
	case modeConfirmDelete:
		m.writeConfirmDelete(&b)
	default:
		m.writeTasks(&b)
	}

	m.writeToast(&b)
	m.writeFooter(&b)
	return b.String()
}

func (m *Model) writeHeader(b *strings.Builder) {
	stats := m.store.Stats()

	title := titleStyle.Render("▸ TaskMaster")
	statsText := fmt.Sprintf("%d total %s %d pending %s %d done",
		stats.Total, symbolListDivider, stats.Pending, symbolListDivider, stats.Done)
	if stats.Overdue > 0 {
		statsText += fmt.Sprintf(" %s %d overdue", symbolListDivider, stats.Overdue)
	}
	b.WriteString(padBetween(title, dimStyle.Render(statsText), m.width))
	b.WriteString("\n\n")

	order := symbolOrderAsc
	if m.params.Descending {
		order = symbolOrderDesc
	}
	info := fmt.Sprintf("view: %s  %s  sort: %s %s", m.params.Filter, symbolListDivider, m.params.Sort, order)
	if m.params.Query != "" || m.mode == modeSearch {
		info += fmt.Sprintf("  %s  search: %s", symbolListDivider, m.params.Query)
	}
	b.WriteString(" " + dimStyle.Render(info) + "\n")

	if stats.Total > 0 {
		b.WriteString(m.progressLine(stats.CompletionRatio))
	}
	b.WriteString("\n")
	b.WriteString(" " + columnStyle.Render(fmt.Sprintf("%-4s %-5s %s", "ST", "PRIO", "DESCRIPTION")) + "\n")
}

func (m *Model) progressLine(ratio float64) string {
	barWidth := m.width - 30
	if barWidth > 40 {
		barWidth = 40
	}
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(ratio * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	return fmt.Sprintf(" %s %s%s %s\n",
		accentStyle.Render("Completion"),
		barFillStyle.Render(strings.Repeat(symbolBarFill, filled)),
		barRestStyle.Render(strings.Repeat(symbolBarRest, barWidth-filled)),
		accentStyle.Bold(true).Render(fmt.Sprintf("%d%%", int(ratio*100))))
}

func (m *Model) writeTasks(b *strings.Builder) {
	rows := m.listHeight()
	if len(m.visible) == 0 {
		b.WriteString("\n" + dimStyle.Render("   No tasks found") + "\n")
		for i := 0; i < rows-2; i++ {
			b.WriteString("\n")
		}
		return
	}

	// Keep the cursor roughly centered once the list outgrows the
	// window.
	start := 0
	if len(m.visible) > rows {
		start = m.cursor - rows/2
		if start < 0 {
			start = 0
		}
		if start > len(m.visible)-rows {
			start = len(m.visible) - rows
		}
	}

	end := start + rows
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(&m.visible[i], i == m.cursor))
		b.WriteString("\n")
	}
	for i := end - start; i < rows; i++ {
		b.WriteString("\n")
	}
}

func (m *Model) renderRow(t *task.Task, selected bool) string {
	now := m.now()

	marker := "  "
	if selected {
		marker = selectStyle.Render(symbolSelection) + " "
	}

	status := symbolPending
	if t.Status == task.StatusDone {
		status = symbolDone
	}

	prio := strings.Repeat("!", t.Priority.Rank())
	desc := truncate(t.Description, m.descWidth())

	due := ""
	if t.DueDate != nil {
		label := t.DueDate.Format("Jan 02")
		switch t.Deadline(now, m.horizon) {
		case task.DeadlineOverdue:
			due = "  " + overdueStyle.Render("OVERDUE "+label)
		case task.DeadlineSoon:
			due = "  " + dueSoonStyle.Render(label)
		default:
			due = "  " + dimStyle.Render(label)
		}
	}

	rowStyle := textStyle
	statusStyle := dimStyle
	if t.Status == task.StatusDone {
		rowStyle = doneStyle
		statusStyle = doneStyle
	}
	if selected {
		rowStyle = rowStyle.Bold(true)
		statusStyle = statusStyle.Bold(true)
	}

	return fmt.Sprintf(" %s%s  %s %s%s",
		marker,
		statusStyle.Render(status),
		priorityStyle(t.Priority.Rank()).Render(fmt.Sprintf("%-3s", prio)),
		rowStyle.Render(desc),
		due)
}

func (m *Model) writePriorityPicker(b *strings.Builder) {
	rows := m.listHeight()
	b.WriteString("\n " + promptStyle.Render("SELECT PRIORITY") + "\n\n")
	used := 3
	for i, p := range priorityChoices {
		b.WriteString(m.pickerRow(string(p), i == m.prioIndex))
		used++
	}
	b.WriteString(m.pickerRow("Cancel", m.prioIndex == len(priorityChoices)))
	used++
	for ; used < rows; used++ {
		b.WriteString("\n")
	}
}

func (m *Model) writeConfirmDelete(b *strings.Builder) {
	rows := m.listHeight()
	target, _ := m.store.Get(m.targetID)
	b.WriteString("\n " + errorStyle.Render("DELETE TASK") + "\n\n")
	b.WriteString(fmt.Sprintf("   Delete %q ?\n\n", truncate(target.Description, 30)))
	b.WriteString(m.pickerRow("YES", m.confirmYes))
	b.WriteString(m.pickerRow("NO", !m.confirmYes))
	used := 7
	for ; used < rows; used++ {
		b.WriteString("\n")
	}
}

func (m *Model) pickerRow(label string, selected bool) string {
	if selected {
		return "   " + selectStyle.Render(symbolSelection+" "+label) + "\n"
	}
	return "   " + dimStyle.Render("  "+label) + "\n"
}

func (m *Model) writeToast(b *strings.Builder) {
	if m.message == "" {
		b.WriteString("\n")
		return
	}
	b.WriteString(padBetween("", toastStyle.Render(m.message), m.width))
	b.WriteString("\n")
}

func (m *Model) writeFooter(b *strings.Builder) {
	if m.mode == modeInput || m.mode == modeSearch {
		b.WriteString(promptStyle.Render(m.input.View()))
		return
	}

	keys := [][2]string{
		{"n", "new"}, {"d", "del"}, {"e", "edit"}, {"space", "toggle"},
		{"p", "priority"}, {"u", "due"}, {"s", "search"}, {"r", "sort"},
		{"tab", "filter"}, {"m", "archive"}, {"q", "quit"},
	}
	var parts []string
	width := 0
	for _, k := range keys {
		// Stop once hints would wrap on a narrow terminal.
		needed := len(k[0]) + len(k[1]) + 4
		if width+needed > m.width-2 {
			break
		}
		width += needed
		parts = append(parts, keyStyle.Render(" "+k[0]+" ")+" "+dimStyle.Render(k[1]))
	}
	b.WriteString(" " + strings.Join(parts, "  "))
}

// listHeight returns the row budget for the task area given the fixed
// header, toast, and footer lines.
func (m *Model) listHeight() int {
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

// descWidth returns the column budget for the description.
func (m *Model) descWidth() int {
	w := m.width - 32
	if w < 10 {
		w = 10
	}
	return w
}

// padBetween joins left and right with enough spaces to right-align the
// second part, falling back to a single space when the terminal is too
// narrow.
func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}
