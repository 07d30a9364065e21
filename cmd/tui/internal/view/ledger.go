package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

// LedgerModel browses posted entries with source, category and date filters.
type LedgerModel struct {
	CommonModel
	svc *ledger.Service
	loc *time.Location

	table   table.Model
	entries []*ledger.Entry

	// Filter cycling
	sourceIdx   int
	categoryIdx int
	dateIdx     int

	filter  ledger.ListFilter
	detail  bool
	loading bool
	err     error
}

var (
	categoryFilters = []ledger.CategoryType{"", ledger.CategoryRevenue, ledger.CategoryExpense}
	dateFilters     = []Timeframe{TimeframeAll, TimeframeToday, TimeframeThisWeek, TimeframeThisMonth, TimeframeLastMonth}
)

const ledgerPageSize = 500

func NewLedgerModel(svc *ledger.Service, loc *time.Location) LedgerModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Account", Width: 9},
		{Title: "Source", Width: 17},
		{Title: "Reference", Width: 16},
		{Title: "Debit", Width: 10},
		{Title: "Credit", Width: 10},
		{Title: "Description", Width: 36},
	}

	return LedgerModel{
		svc:     svc,
		loc:     loc,
		table:   newTable(columns, 15),
		filter:  ledger.ListFilter{Limit: ledgerPageSize},
		loading: true,
	}
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	return "Esc: back | Enter: details | s: source | c: category | d: date | r: refresh"
}

func (m LedgerModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.entries = msg.entries
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}

			return m, Back
		case "enter":
			m.detail = !m.detail
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.sourceIdx = (m.sourceIdx + 1) % (len(ledger.SourceTypes) + 1)
			return m.reload()
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % len(categoryFilters)
			return m.reload()
		case "d":
			m.dateIdx = (m.dateIdx + 1) % len(dateFilters)
			return m.reload()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LedgerModel) reload() (tea.Model, tea.Cmd) {
	m.applyFilter()
	m.loading = true

	return m, m.loadCmd()
}

func (m *LedgerModel) applyFilter() {
	m.filter = ledger.ListFilter{Limit: ledgerPageSize}

	if m.sourceIdx > 0 {
		m.filter.SourceType = new(ledger.SourceTypes[m.sourceIdx-1])
	}

	if ct := categoryFilters[m.categoryIdx]; ct != "" {
		m.filter.CategoryType = new(ct)
	}

	if tf := dateFilters[m.dateIdx]; tf != TimeframeAll {
		start, end := tf.DateRange(time.Now().In(m.loc))
		m.filter.StartDate = &start
		m.filter.EndDate = &end
	}
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{
			FormatDate(e.EntryDate),
			e.CategoryCode,
			e.SubCategory,
			e.ReferenceNumber,
			FormatAmount(e.DebitAmount),
			FormatAmount(e.CreditAmount),
			e.Description,
		})
	}

	m.table.SetRows(rows)
}

func (m LedgerModel) filterLabels() (string, string, string) {
	source := "All"
	if m.sourceIdx > 0 {
		source = ledger.SourceTypes[m.sourceIdx-1].Label()
	}

	category := "All"
	if ct := categoryFilters[m.categoryIdx]; ct != "" {
		category = string(ct)
	}

	return source, category, dateFilters[m.dateIdx].String()
}

func (m LedgerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading entries...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	source, category, date := m.filterLabels()
	header := fmt.Sprintf(
		"Filter: [s] Source: %s | [c] Category: %s | [d] Date: %s",
		activeStyle(source), activeStyle(category), activeStyle(date),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		borderStyle.Render(m.table.View()),
		faintStyle.Render(m.ShortHelp()),
	)

	if idx := m.table.Cursor(); m.detail && idx >= 0 && idx < len(m.entries) {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, entryPanel(m.entries[idx]))
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func entryPanel(e *ledger.Entry) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(fmt.Sprintf(
			"Entry %s\n\nAccount: %s (%s)\nSource:  %s %s\nAmount:  %s\nStatus:  %s\nPosted:  %s\n\n%s",
			e.ReferenceNumber,
			e.CategoryCode, e.SubCategory,
			e.SourceType, e.SourceID,
			FormatAmount(e.Amount),
			e.Status,
			e.CreatedAt.Format(time.DateTime),
			e.Notes,
		))
}

type entriesLoadedMsg struct {
	entries []*ledger.Entry
	err     error
}

func (m LedgerModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.svc.List(ctx, filter)

		return entriesLoadedMsg{entries: entries, err: err}
	}
}
