package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/innledger/internal/payment"
)

const feedTimeout = 15 * time.Second

// PaymentsModel shows the unified payment feed across every revenue source.
type PaymentsModel struct {
	CommonModel
	feed *payment.Aggregator

	table    table.Model
	result   payment.Result
	loading  bool
	loadedAt time.Time
}

func NewPaymentsModel(feed *payment.Aggregator) PaymentsModel {
	columns := []table.Column{
		{Title: "Date", Width: 17},
		{Title: "Type", Width: 16},
		{Title: "Guest", Width: 22},
		{Title: "Amount", Width: 10},
		{Title: "Method", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Reference", Width: 16},
	}

	return PaymentsModel{
		feed:    feed,
		table:   newTable(columns, 15),
		loading: true,
	}
}

func (m PaymentsModel) Title() string     { return "Payments" }
func (m PaymentsModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m PaymentsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m PaymentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case paymentsLoadedMsg:
		m.loading = false
		m.result = msg.result
		m.loadedAt = msg.at
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *PaymentsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.result.Payments))
	for _, p := range m.result.Payments {
		rows = append(rows, table.Row{
			p.Date.Format("2006-01-02 15:04"),
			p.Type.Label(),
			p.GuestName,
			FormatAmount(p.Amount),
			p.Method,
			string(p.Status),
			p.Reference,
		})
	}

	m.table.SetRows(rows)
}

func (m PaymentsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading payments...")
	}

	header := fmt.Sprintf("%d payments | loaded %s", len(m.result.Payments), m.loadedAt.Format("15:04:05"))

	parts := []string{lipgloss.NewStyle().PaddingBottom(1).Render(header)}

	if len(m.result.Failures) > 0 {
		names := make([]string, len(m.result.Failures))
		for i, f := range m.result.Failures {
			names[i] = f.Source
		}

		parts = append(parts, warnStyle.Render("Unavailable sources: "+strings.Join(names, ", ")))
	}

	parts = append(parts, borderStyle.Render(m.table.View()), faintStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

type paymentsLoadedMsg struct {
	result payment.Result
	at     time.Time
}

func (m PaymentsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), feedTimeout)
		defer cancel()

		return paymentsLoadedMsg{result: m.feed.List(ctx), at: time.Now()}
	}
}
