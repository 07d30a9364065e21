package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/innledger/internal/checkout"
	"github.com/MrJamesThe3rd/innledger/internal/matching"
)

type supplierState int

const (
	supplierStateForm supplierState = iota
	supplierStateSaving
	supplierStateResult
)

var paymentMethods = []string{"bank_transfer", "cash", "card", "mbway"}

// SupplierPaymentModel records a payment to a supplier and posts it.
type SupplierPaymentModel struct {
	CommonModel
	checkoutSvc *checkout.Service
	matchSvc    *matching.Service

	state   supplierState
	form    *huh.Form
	spinner spinner.Model

	// Form bindings
	supplier    string
	description string
	amount      string
	method      string
	reference   string
	remember    bool

	result *checkout.Result
	err    error
}

func NewSupplierPaymentModel(checkoutSvc *checkout.Service, matchSvc *matching.Service) SupplierPaymentModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := SupplierPaymentModel{
		checkoutSvc: checkoutSvc,
		matchSvc:    matchSvc,
		spinner:     s,
		method:      paymentMethods[0],
	}
	m.form = m.buildForm()

	return m
}

func (m SupplierPaymentModel) Title() string { return "Supplier Payment" }

func (m SupplierPaymentModel) ShortHelp() string {
	if m.state == supplierStateResult {
		return "Esc: back to menu | n: new payment"
	}

	return "Esc: back | Enter: next"
}

func (m SupplierPaymentModel) Init() tea.Cmd {
	return m.form.Init()
}

func validAmount(s string) error {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return errors.New("amount must be a number")
	}

	if !d.IsPositive() {
		return errors.New("amount must be positive")
	}

	return nil
}

func (m *SupplierPaymentModel) buildForm() *huh.Form {
	options := make([]huh.Option[string], len(paymentMethods))
	for i, pm := range paymentMethods {
		options[i] = huh.NewOption(pm, pm)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("supplier").
				Title("Supplier").
				Value(&m.supplier).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("supplier cannot be empty")
					}

					return nil
				}),
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.description),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&m.amount).
				Validate(validAmount),
			huh.NewSelect[string]().
				Key("method").
				Title("Payment method").
				Options(options...).
				Value(&m.method),
			huh.NewInput().
				Key("reference").
				Title("Reference").
				Description("Leave empty to generate one").
				Value(&m.reference),
			huh.NewConfirm().
				Key("remember").
				Title("Remember description for bank imports?").
				Value(&m.remember),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SupplierPaymentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case supplierStateForm:
		return m.updateForm(msg)
	case supplierStateSaving:
		return m.updateSaving(msg)
	case supplierStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				return m, Back
			case "n":
				next := NewSupplierPaymentModel(m.checkoutSvc, m.matchSvc)
				return next, next.Init()
			}
		}
	}

	return m, nil
}

func (m SupplierPaymentModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = supplierStateSaving

	return m, tea.Batch(m.spinner.Tick, m.saveCmd())
}

func (m SupplierPaymentModel) updateSaving(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(supplierSavedMsg); ok {
		m.state = supplierStateResult
		m.result = res.result
		m.err = res.err

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m SupplierPaymentModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case supplierStateForm:
		return style.Render(m.form.View())
	case supplierStateSaving:
		return style.Render(m.spinner.View() + " Recording payment...")
	}

	var body string

	switch {
	case m.err != nil:
		body = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.result.PostingErr != nil:
		body = warnStyle.Render(fmt.Sprintf(
			"Payment %s recorded, ledger posting failed:\n%v\n\nIt will be posted when retried.",
			m.result.Reference, m.result.PostingErr,
		))
	default:
		body = successStyle.Render(fmt.Sprintf(
			"Payment %s recorded and posted to %s (%s).",
			m.result.Reference,
			m.result.Posting.Entry.CategoryCode,
			FormatAmount(m.result.Posting.Entry.Amount),
		))
	}

	return style.Render(body + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

type supplierSavedMsg struct {
	result *checkout.Result
	err    error
}

func (m SupplierPaymentModel) saveCmd() tea.Cmd {
	// Read from the form: its bindings point at the model copy that built it.
	amount, _ := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(m.form.GetString("amount")), ",", "."))

	params := checkout.SupplierPaymentParams{
		SupplierName:    strings.TrimSpace(m.form.GetString("supplier")),
		Description:     strings.TrimSpace(m.form.GetString("description")),
		Amount:          amount,
		PaymentMethod:   m.form.GetString("method"),
		ReferenceNumber: strings.TrimSpace(m.form.GetString("reference")),
	}
	remember := m.form.GetBool("remember") && params.Description != ""

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.checkoutSvc.RecordSupplierPayment(ctx, params)
		if err != nil {
			return supplierSavedMsg{err: err}
		}

		if remember {
			if err := m.matchSvc.Learn(ctx, params.Description, params.SupplierName); err != nil {
				return supplierSavedMsg{result: res, err: fmt.Errorf("payment recorded, mapping not saved: %w", err)}
			}
		}

		return supplierSavedMsg{result: res}
	}
}
