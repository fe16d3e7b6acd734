package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salestream/server/internal/client"
	"github.com/salestream/server/internal/realtime"
	"github.com/salestream/server/internal/sale"
)

// SaleEventMsg carries one channel event into the TUI.
type SaleEventMsg struct {
	Envelope realtime.Envelope
}

// saleItem wraps a sale to implement list.Item.
type saleItem struct {
	sale *sale.Sale
}

func (i saleItem) Title() string {
	status := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.sale.PaymentStatus))

	return fmt.Sprintf("%s  %s  %s x %s = %s  %s",
		FormatDate(i.sale.SaleDate),
		i.sale.ProductName,
		i.sale.Quantity.String(),
		FormatMoney(i.sale.UnitPrice),
		FormatMoney(i.sale.FinalPrice),
		status,
	)
}

func (i saleItem) Description() string {
	return fmt.Sprintf("%s  |  %s  |  %s", i.sale.CustomerName, i.sale.InvoiceNumber, i.sale.PaymentMethod)
}

func (i saleItem) FilterValue() string {
	return i.sale.ProductName + " " + i.sale.CustomerName + " " + i.sale.InvoiceNumber
}

type SalesModel struct {
	CommonModel
	client *client.Client
	cache  *client.Cache

	list    list.Model
	loading bool
	status  string
}

func NewSalesModel(cl *client.Client, cache *client.Cache) SalesModel {
	l := list.New([]list.Item{}, saleItemDelegate{}, 0, 0)
	l.Title = "Sales"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return SalesModel{
		client:  cl,
		cache:   cache,
		list:    l,
		loading: true,
	}
}

func (m SalesModel) Title() string { return "Live Sales" }

func (m SalesModel) ShortHelp() string {
	return "Esc: back | Enter/p: mark paid | d: delete | /: filter"
}

func (m SalesModel) Init() tea.Cmd {
	return m.loadSalesCmd()
}

func (m SalesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSalesMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.cache.Reset(msg.page.Sales)
		m.refreshListItems()

		if m.cache.Len() == 0 {
			m.status = "No sales recorded yet."
		} else {
			m.status = fmt.Sprintf("%d of %d sales loaded", m.cache.Len(), msg.page.TotalItems)
		}

		return m, nil

	case SaleEventMsg:
		// Events arrive in server order; applying is idempotent, so an echo
		// of a mutation this client made is harmless.
		if err := m.cache.Apply(msg.Envelope); err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
			return m, nil
		}

		m.refreshListItems()

		return m, nil

	case mutateResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "enter", "p":
			return m.markPaid()
		case "d":
			return m.deleteSelected()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m SalesModel) selected() *sale.Sale {
	item, ok := m.list.SelectedItem().(saleItem)
	if !ok {
		return nil
	}

	return item.sale
}

func (m SalesModel) markPaid() (tea.Model, tea.Cmd) {
	sl := m.selected()
	if sl == nil {
		return m, nil
	}

	if sl.PaymentStatus == sale.StatusPaid {
		m.status = "Already paid."
		return m, nil
	}

	cl := m.client
	id := sl.ID

	return m, func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		if _, err := cl.UpdateStatus(ctx, id, sale.StatusPaid); err != nil {
			return mutateResultMsg{err: err}
		}

		// The cache picks the change up from the broadcast echo.
		return mutateResultMsg{status: "Marked as paid."}
	}
}

func (m SalesModel) deleteSelected() (tea.Model, tea.Cmd) {
	sl := m.selected()
	if sl == nil {
		return m, nil
	}

	cl := m.client
	id := sl.ID

	return m, func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		if err := cl.DeleteSale(ctx, id); err != nil {
			return mutateResultMsg{err: err}
		}

		return mutateResultMsg{status: "Sale deleted."}
	}
}

func (m SalesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading sales...")
	}

	statusLine := ""
	if m.status != "" {
		statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())
}

func (m *SalesModel) refreshListItems() {
	sales := m.cache.Sales()

	items := make([]list.Item, len(sales))
	for i, sl := range sales {
		items[i] = saleItem{sale: sl}
	}

	m.list.SetItems(items)
}

// Messages

type loadSalesMsg struct {
	page *client.ListResult
	err  error
}

func (m SalesModel) loadSalesCmd() tea.Cmd {
	cl := m.client

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		page, err := cl.ListSales(ctx, 1, 100)

		return loadSalesMsg{page: page, err: err}
	}
}

type mutateResultMsg struct {
	status string
	err    error
}

// saleItemDelegate renders items in the list.
type saleItemDelegate struct{}

func (d saleItemDelegate) Height() int                             { return 2 }
func (d saleItemDelegate) Spacing() int                            { return 0 }
func (d saleItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d saleItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(saleItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
