package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/innledger/internal/dashboard"
)

type DashboardModel struct {
	CommonModel
	svc *dashboard.Service

	summary dashboard.Summary
	loading bool
}

func NewDashboardModel(svc *dashboard.Service) DashboardModel {
	return DashboardModel{svc: svc, loading: true}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		m.loading = false
		m.summary = msg.summary

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

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading summary...")
	}

	s := m.summary
	label := lipgloss.NewStyle().Width(18)

	row := func(name, value string) string {
		return label.Render(name) + value
	}

	net := FormatAmount(s.NetIncome)
	if s.NetIncome.IsNegative() {
		net = errorStyle.Render(net)
	} else {
		net = successStyle.Render(net)
	}

	card := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			row("Today", FormatAmount(s.TodayRevenue)),
			"",
			row("Rooms", FormatAmount(s.RoomRevenue)),
			row("Halls", FormatAmount(s.HallRevenue)),
			row("POS", FormatAmount(s.POSRevenue)),
			row("Total revenue", FormatAmount(s.TotalRevenue)),
			"",
			row("Expenses", FormatAmount(s.TotalExpenses)),
			row("Net income", net),
		))

	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("%s\n\n%s\n\n%s", activeStyle("Dashboard"), card, faintStyle.Render(m.ShortHelp())),
	)
}

type summaryLoadedMsg struct {
	summary dashboard.Summary
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return summaryLoadedMsg{summary: m.svc.Summary(ctx)}
	}
}
