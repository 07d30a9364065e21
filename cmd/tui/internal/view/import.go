package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/innledger/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateBankSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

// ImportModel records the debit lines of a bank statement as supplier payments.
type ImportModel struct {
	CommonModel
	importService *importer.Service

	state        importState
	filePicker   filepicker.Model
	selectedBank importer.Bank
	bankOptions  []importer.Bank
	bankCursor   int

	report     *importer.Report
	reportList list.Model

	status string
	err    error
}

func NewImportModel(svc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: svc,
		filePicker:    fp,
		bankOptions:   []importer.Bank{importer.BankCGD},
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "↑/↓: scroll | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateBankSelect:
			return m.updateBankSelect(msg)
		case importStateResult:
			var cmd tea.Cmd
			m.reportList, cmd = m.reportList.Update(msg)

			return m, cmd
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.report = msg.report
		m.status = fmt.Sprintf("%d lines: %d recorded, %d failed, %d skipped",
			msg.report.Lines, len(msg.report.Recorded), len(msg.report.Failed), msg.report.Skipped)
		m.reportList = newReportList(msg.report)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateBankSelect
		return m, nil
	case importStateResult:
		m.state = importStateBankSelect
		m.err = nil
		m.report = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateBankSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.bankCursor > 0 {
			m.bankCursor--
		}
	case tea.KeyDown:
		if m.bankCursor < len(m.bankOptions)-1 {
			m.bankCursor++
		}
	case tea.KeyEnter:
		m.selectedBank = m.bankOptions[m.bankCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateBankSelect:
		return m.viewBankSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select statement to import (%s):\n\n%s", m.selectedBank, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewBankSelect() string {
	s := "Select Bank:\n\n"

	for i, bank := range m.bankOptions {
		cursor := " "
		if i == m.bankCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, string(bank))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	header := successStyle.Bold(true).Render(m.status)
	if len(m.report.Failed) > 0 {
		header = warnStyle.Bold(true).Render(m.status)
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.reportList.View()))
}

type importResultMsg struct {
	report *importer.Report
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	bank := m.selectedBank

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		report, err := m.importService.Import(ctx, bank, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{report: report}
	}
}

func newReportList(report *importer.Report) list.Model {
	items := make([]list.Item, 0, len(report.Recorded)+len(report.Failed))
	for _, r := range report.Recorded {
		items = append(items, reportItem{recorded: &r})
	}

	for _, f := range report.Failed {
		items = append(items, reportItem{failed: &f})
	}

	l := list.New(items, reportDelegate{}, 100, 20)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// reportItem is either a recorded or a failed statement line.
type reportItem struct {
	recorded *importer.Recorded
	failed   *importer.Failed
}

func (i reportItem) line() importer.Line {
	if i.recorded != nil {
		return i.recorded.Line
	}

	return i.failed.Line
}

func (i reportItem) FilterValue() string { return i.line().Description }

type reportDelegate struct{}

func (d reportDelegate) Height() int                             { return 2 }
func (d reportDelegate) Spacing() int                            { return 0 }
func (d reportDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d reportDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(reportItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	line := item.line()
	line1 := fmt.Sprintf("%s%s  %12s  %s", cursor, FormatDate(line.Date), FormatAmount(line.Amount), line.Description)

	var line2 string

	switch {
	case item.failed != nil:
		line2 = errorStyle.Render("    failed: " + item.failed.Error)
	case item.recorded.Result != nil && item.recorded.Result.PostingErr != nil:
		line2 = warnStyle.Render(fmt.Sprintf("    %s (%s) not posted: %v",
			item.recorded.SupplierName, item.recorded.BankReference, item.recorded.Result.PostingErr))
	default:
		line2 = successStyle.Render(fmt.Sprintf("    %s (%s) posted", item.recorded.SupplierName, item.recorded.BankReference))
	}

	if index == m.Index() {
		line1 = activeStyle(line1)
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}
