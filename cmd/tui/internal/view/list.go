package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateConfirmDelete
)

var (
	kindFilterLabels = []string{"All", "Expense", "Income"}
	dateFilters      = []Timeframe{TimeframeThisMonth, TimeframeLastMonth, TimeframeThisWeek, TimeframeToday, TimeframeAll}
)

type ListModel struct {
	CommonModel
	records *record.Service

	state   listState
	table   table.Model
	recs    []record.Record
	summary record.Summary
	form    *huh.Form

	kindFilterIdx int
	dateFilterIdx int

	filter  record.ListFilter
	loading bool
	err     error
	status  string
}

func NewListModel(records *record.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Note", Width: 32},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := ListModel{
		records: records,
		table:   t,
		loading: true,
	}
	m.applyFilter()

	return m
}

func (m ListModel) Title() string { return "Records" }

func (m ListModel) ShortHelp() string {
	if m.state == listStateConfirmDelete {
		return "Confirm deletion | Esc: cancel"
	}

	return "Esc: back | x: delete | t: type filter | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.recs = msg.recs
		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case deleteMsg:
		m.status = "Record deleted."
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "x":
			return m.enterConfirm()
		case "t":
			m.kindFilterIdx = (m.kindFilterIdx + 1) % len(kindFilterLabels)
			m.applyFilter()

			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilters)
			m.applyFilter()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) enterConfirm() (tea.Model, tea.Cmd) {
	rec, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %s %s %s?", FormatDate(rec.OccurredAt), rec.Category, FormatSigned(rec.Kind, rec.Amount))).
				Affirmative("Delete").
				Negative("Keep"),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.leaveConfirm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	rec, ok := m.selected()
	confirmed := m.form.GetBool("confirm")
	m = m.leaveConfirm()

	if !ok || !confirmed {
		return m, nil
	}

	return m, m.deleteCmd(rec.ID)
}

func (m ListModel) leaveConfirm() ListModel {
	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m ListModel) selected() (record.Record, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.recs) {
		return record.Record{}, false
	}

	return m.recs[idx], true
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading records...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s",
		activeStyle(kindFilterLabels[m.kindFilterIdx]),
		activeStyle(dateFilters[m.dateFilterIdx].String()),
	)

	totals := fmt.Sprintf("Expense %s   Income %s   Balance %s   (%d records)",
		expenseStyle.Render(FormatAmount(m.summary.Expense)),
		incomeStyle.Render(FormatAmount(m.summary.Income)),
		FormatAmount(m.summary.Balance()),
		m.summary.Count,
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().PaddingBottom(1).Render(totals),
		tableView,
	)

	if m.state == listStateConfirmDelete && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ListModel) applyFilter() {
	m.filter = dateFilters[m.dateFilterIdx].Filter(time.Now())

	switch m.kindFilterIdx {
	case 1:
		m.filter.Kind = new(record.KindExpense)
	case 2:
		m.filter.Kind = new(record.KindIncome)
	}
}

func (m *ListModel) refreshTable() {
	catalog := m.records.Catalog()

	rows := make([]table.Row, 0, len(m.recs))
	for _, r := range m.recs {
		rows = append(rows, table.Row{
			FormatDate(r.OccurredAt),
			string(r.Kind),
			catalog.Emoji(r.Kind, r.Category) + " " + r.Category,
			FormatSigned(r.Kind, r.Amount),
			r.Note,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	recs    []record.Record
	summary record.Summary
	err     error
}

func (m ListModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		recs, err := m.records.List(ctx, filter)
		if err != nil {
			return loadListMsg{err: err}
		}

		var sum record.Summary
		for _, g := range record.GroupByDay(recs) {
			sum.Expense = sum.Expense.Add(g.Expense)
			sum.Income = sum.Income.Add(g.Income)
			sum.Count += g.Count
		}

		return loadListMsg{recs: recs, summary: sum}
	}
}

type deleteMsg struct {
	err error
}

func (m ListModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return deleteMsg{err: m.records.Delete(ctx, id)}
	}
}
