package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/innledger/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/innledger/internal/checkout"
	checkoutStore "github.com/MrJamesThe3rd/innledger/internal/checkout/store"
	"github.com/MrJamesThe3rd/innledger/internal/config"
	"github.com/MrJamesThe3rd/innledger/internal/dashboard"
	dashboardStore "github.com/MrJamesThe3rd/innledger/internal/dashboard/store"
	"github.com/MrJamesThe3rd/innledger/internal/database"
	"github.com/MrJamesThe3rd/innledger/internal/event"
	"github.com/MrJamesThe3rd/innledger/internal/export"
	"github.com/MrJamesThe3rd/innledger/internal/importer"
	"github.com/MrJamesThe3rd/innledger/internal/importer/cgd"
	"github.com/MrJamesThe3rd/innledger/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/innledger/internal/ledger/store"
	"github.com/MrJamesThe3rd/innledger/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/innledger/internal/matching/store"
	"github.com/MrJamesThe3rd/innledger/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/innledger/internal/payment/store"
)

type services struct {
	loc       *time.Location
	ledger    *ledger.Service
	payments  *payment.Aggregator
	dashboard *dashboard.Service
	checkout  *checkout.Service
	matching  *matching.Service
	importer  *importer.Service
	export    *export.Service
}

type model struct {
	svc services

	currentView View

	paymentsView  view.PaymentsModel
	dashboardView view.DashboardModel
	ledgerView    view.LedgerModel
	supplierView  view.SupplierPaymentModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewPayments  View = 1
	ViewDashboard View = 2
	ViewLedger    View = 3
	ViewSupplier  View = 4
	ViewImport    View = 5
	ViewExport    View = 6
)

func newServices(ctx context.Context) services {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Nothing subscribes in the TUI; the hub only drains published events.
	hub := event.NewHub()
	go hub.Run(ctx)

	loc := cfg.Location()
	ledgerSvc := ledger.NewService(ledgerStore.New(db), ledger.WithPublisher(hub), ledger.WithLocation(loc))
	checkoutSvc := checkout.NewService(checkoutStore.New(db), ledgerSvc, hub)
	matchSvc := matching.NewService(matchingStore.New(db))

	return services{
		loc:       loc,
		ledger:    ledgerSvc,
		payments:  payment.NewAggregator(cfg.Aggregator.Concurrency, paymentStore.Sources(db, cfg.Aggregator.SourceLimit)...),
		dashboard: dashboard.NewService(dashboardStore.New(db), loc),
		checkout:  checkoutSvc,
		matching:  matchSvc,
		importer: importer.NewService(checkoutSvc, matchSvc, map[importer.Bank]importer.Parser{
			importer.BankCGD: cgd.NewParser(),
		}),
		export: export.NewService(ledgerSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewPayments
				m.paymentsView = view.NewPaymentsModel(m.svc.payments)

				return m, m.paymentsView.Init()
			case "2":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.svc.dashboard)

				return m, m.dashboardView.Init()
			case "3":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.svc.ledger, m.svc.loc)

				return m, m.ledgerView.Init()
			case "4":
				m.currentView = ViewSupplier
				m.supplierView = view.NewSupplierPaymentModel(m.svc.checkout, m.svc.matching)

				return m, m.supplierView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.svc.importer)

				return m, m.importView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.svc.export, m.svc.loc)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	var newModel tea.Model

	switch m.currentView {
	case ViewPayments:
		newModel, cmd = m.paymentsView.Update(msg)
		m.paymentsView = newModel.(view.PaymentsModel)
	case ViewDashboard:
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewLedger:
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewSupplier:
		newModel, cmd = m.supplierView.Update(msg)
		m.supplierView = newModel.(view.SupplierPaymentModel)
	case ViewImport:
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Innledger\n\n" +
				"1. Recent Payments\n" +
				"2. Dashboard\n" +
				"3. Ledger\n" +
				"4. Record Supplier Payment\n" +
				"5. Import Bank Statement\n" +
				"6. Export Ledger\n\n" +
				"q. Quit",
		)
	case ViewPayments:
		return m.paymentsView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewLedger:
		return m.ledgerView.View()
	case ViewSupplier:
		return m.supplierView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	// The terminal belongs to the UI; logs go to a file.
	logFile, err := tea.LogToFile("innledger-tui.log", "tui")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(model{svc: newServices(ctx), currentView: ViewMenu}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
