package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/salestream/server/cmd/tui/internal/view"
	"github.com/salestream/server/internal/client"
	"github.com/salestream/server/internal/config"
	"github.com/salestream/server/internal/realtime"
)

type model struct {
	client *client.Client
	events <-chan realtime.Envelope

	currentView View

	salesView view.SalesModel
	formView  view.FormModel
}

type View int

const (
	ViewMenu  View = 0
	ViewSales View = 1
	ViewNew   View = 2
)

func initialModel(ctx context.Context) model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	cl, err := client.New(cfg.Client.ServerURL)
	if err != nil {
		slog.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	// Without the subscription the sales view still works, it just stops
	// reflecting changes made elsewhere.
	events, err := cl.Subscribe(ctx)
	if err != nil {
		slog.Warn("live updates unavailable", "error", err)
	}

	cache := client.NewCache()

	return model{
		client:      cl,
		events:      events,
		currentView: ViewMenu,
		salesView:   view.NewSalesModel(cl, cache),
		formView:    view.NewFormModel(cl),
	}
}

// waitForEvent blocks on the subscription and resurfaces each envelope as a
// tea message. Re-issued after every delivery.
func (m model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}

	events := m.events

	return func() tea.Msg {
		env, ok := <-events
		if !ok {
			return nil
		}

		return view.SaleEventMsg{Envelope: env}
	}
}

func (m model) Init() tea.Cmd {
	return m.waitForEvent()
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
				m.currentView = ViewSales
				return m, m.salesView.Init()
			case "2":
				m.currentView = ViewNew
				m.formView = view.NewFormModel(m.client)

				return m, m.formView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil

	case view.SaleEventMsg:
		// The sales view owns the cache, so it sees every event even while
		// another view is on screen.
		var newModel tea.Model
		newModel, cmd = m.salesView.Update(msg)
		m.salesView = newModel.(view.SalesModel)

		return m, tea.Batch(cmd, m.waitForEvent())
	}

	switch m.currentView {
	case ViewSales:
		var newModel tea.Model
		newModel, cmd = m.salesView.Update(msg)
		m.salesView = newModel.(view.SalesModel)
	case ViewNew:
		var newModel tea.Model
		newModel, cmd = m.formView.Update(msg)
		m.formView = newModel.(view.FormModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Salestream TUI\n\n" +
				"1. Live Sales\n" +
				"2. New Sale\n\n" +
				"q. Quit",
		)
	case ViewSales:
		return m.salesView.View()
	case ViewNew:
		return m.formView.View()
	}

	return "Unknown View"
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(initialModel(ctx))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
