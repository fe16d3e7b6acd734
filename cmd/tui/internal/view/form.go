package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/salestream/server/internal/client"
	"github.com/salestream/server/internal/sale"
)

type formState int

const (
	formStateEditing formState = iota
	formStateSaving
	formStateDone
)

type FormModel struct {
	CommonModel
	client *client.Client

	state formState
	form  *huh.Form

	status string

	// Default value bindings
	discount  string
	method    string
	payStatus string
	saleDate  string
	invoice   string
}

func NewFormModel(cl *client.Client) FormModel {
	m := FormModel{
		client:    cl,
		discount:  "0",
		method:    string(sale.PaymentCard),
		payStatus: string(sale.StatusPending),
		saleDate:  FormatDate(time.Now()),
		invoice:   sale.GenerateInvoiceNumber(time.Now()),
	}

	m.form = m.newForm()

	return m
}

func (m FormModel) Title() string { return "New Sale" }

func (m FormModel) ShortHelp() string {
	switch m.state {
	case formStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	default:
		return "Esc: back"
	}
}

// newForm builds the entry form. Values are read back by key once the form
// completes; the Value bindings only seed defaults.
func (m *FormModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("productId").Title("Product ID").Validate(required),
			huh.NewInput().Key("productName").Title("Product Name").Validate(required),
			huh.NewInput().Key("quantity").Title("Quantity").Validate(positiveDecimal),
			huh.NewInput().Key("unitPrice").Title("Unit Price").Validate(nonNegativeDecimal),
			huh.NewInput().Key("discount").Title("Discount").Value(&m.discount).Validate(nonNegativeDecimal),
		),
		huh.NewGroup(
			huh.NewInput().Key("customerId").Title("Customer ID").Validate(required),
			huh.NewInput().Key("customerName").Title("Customer Name").Validate(required),
			huh.NewSelect[string]().
				Key("paymentMethod").
				Title("Payment Method").
				Options(huh.NewOptions(
					string(sale.PaymentCash),
					string(sale.PaymentCard),
					string(sale.PaymentMobile),
					string(sale.PaymentCredit),
				)...).
				Value(&m.method),
			huh.NewSelect[string]().
				Key("paymentStatus").
				Title("Payment Status").
				Options(huh.NewOptions(
					string(sale.StatusPending),
					string(sale.StatusPartial),
					string(sale.StatusPaid),
				)...).
				Value(&m.payStatus),
		),
		huh.NewGroup(
			huh.NewInput().Key("saleerId").Title("Seller ID").Validate(required),
			huh.NewInput().Key("saleerName").Title("Seller Name").Validate(required),
			huh.NewInput().Key("saleDate").Title("Sale Date (YYYY-MM-DD)").Value(&m.saleDate).Validate(validDate),
			huh.NewInput().Key("invoiceNumber").Title("Invoice Number").Value(&m.invoice).Validate(required),
			huh.NewInput().Key("notes").Title("Notes (optional)"),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m FormModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			m.state = formStateEditing

			return m, nil
		}

		m.status = fmt.Sprintf("Sale #%d created, final price %s (tax %s).",
			msg.sale.ID, FormatMoney(msg.sale.FinalPrice), FormatMoney(msg.sale.TaxAmount))
		m.state = formStateDone

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	if m.state != formStateEditing {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = formStateSaving

	return m, m.createSaleCmd()
}

func (m FormModel) View() string {
	switch m.state {
	case formStateSaving:
		return lipgloss.NewStyle().Padding(2).Render("Saving sale...")

	case formStateDone:
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\nEsc: back")
	}

	statusLine := ""
	if m.status != "" {
		statusLine = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(m.status) + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(
		statusLine + m.totalsPreview() + "\n" + m.form.View(),
	)
}

// totalsPreview shows the derived amounts for the numbers entered so far.
// The server recomputes them on submit; this is display only.
func (m FormModel) totalsPreview() string {
	quantity, err1 := decimal.NewFromString(strings.TrimSpace(m.form.GetString("quantity")))
	unitPrice, err2 := decimal.NewFromString(strings.TrimSpace(m.form.GetString("unitPrice")))
	if err1 != nil || err2 != nil {
		return ""
	}

	discount := decimal.Zero
	if d, err := decimal.NewFromString(strings.TrimSpace(m.form.GetString("discount"))); err == nil {
		discount = d
	}

	totals := sale.ComputeTotals(quantity, unitPrice, discount)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf("Total: %s  |  Final: %s  |  Tax: %s",
			FormatMoney(totals.TotalPrice),
			FormatMoney(totals.FinalPrice),
			FormatMoney(totals.TaxAmount),
		))
}

type createResultMsg struct {
	sale *sale.Sale
	err  error
}

func (m FormModel) createSaleCmd() tea.Cmd {
	in, err := m.buildInput()
	if err != nil {
		return func() tea.Msg { return createResultMsg{err: err} }
	}

	cl := m.client

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		sl, err := cl.CreateSale(ctx, in)

		return createResultMsg{sale: sl, err: err}
	}
}

func (m FormModel) buildInput() (sale.CreateInput, error) {
	str := func(key string) *string {
		s := strings.TrimSpace(m.form.GetString(key))
		return &s
	}

	quantity, err := decimal.NewFromString(*str("quantity"))
	if err != nil {
		return sale.CreateInput{}, fmt.Errorf("quantity: %w", err)
	}

	unitPrice, err := decimal.NewFromString(*str("unitPrice"))
	if err != nil {
		return sale.CreateInput{}, fmt.Errorf("unit price: %w", err)
	}

	discount := decimal.Zero

	if raw := *str("discount"); raw != "" {
		discount, err = decimal.NewFromString(raw)
		if err != nil {
			return sale.CreateInput{}, fmt.Errorf("discount: %w", err)
		}
	}

	saleDate, err := time.Parse(time.DateOnly, *str("saleDate"))
	if err != nil {
		return sale.CreateInput{}, fmt.Errorf("sale date: %w", err)
	}

	totals := sale.ComputeTotals(quantity, unitPrice, discount)

	in := sale.CreateInput{
		ProductID:     str("productId"),
		ProductName:   str("productName"),
		Quantity:      &quantity,
		UnitPrice:     &unitPrice,
		TotalPrice:    &totals.TotalPrice,
		Discount:      &discount,
		FinalPrice:    &totals.FinalPrice,
		TaxAmount:     &totals.TaxAmount,
		CustomerID:    str("customerId"),
		CustomerName:  str("customerName"),
		PaymentMethod: str("paymentMethod"),
		PaymentStatus: str("paymentStatus"),
		SaleerID:      str("saleerId"),
		SaleerName:    str("saleerName"),
		SaleDate:      &saleDate,
		InvoiceNumber: str("invoiceNumber"),
	}

	if notes := *str("notes"); notes != "" {
		in.Notes = &notes
	}

	return in, nil
}

// Field validators.

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be empty")
	}

	return nil
}

func positiveDecimal(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}

	if !d.IsPositive() {
		return fmt.Errorf("must be greater than zero")
	}

	return nil
}

func validDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be YYYY-MM-DD")
	}

	return nil
}

func nonNegativeDecimal(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}

	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}

	return nil
}
