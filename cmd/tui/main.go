package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pocket/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pocket/internal/app"
	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/logging"
)

type model struct {
	app *app.App

	currentView View

	captureView view.CaptureModel
	listView    view.ListModel
	syncView    view.SyncModel
	exportView  view.ExportModel
	restoreView view.RestoreModel
}

type View int

const (
	ViewMenu View = iota
	ViewCapture
	ViewList
	ViewSync
	ViewExport
	ViewRestore
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCapture
				m.captureView = view.NewCaptureModel(m.app.Capture, m.app.Records)

				return m, m.captureView.Init()
			case "2":
				m.currentView = ViewCapture
				m.captureView = view.NewAddModel(m.app.Capture, m.app.Records)

				return m, m.captureView.Init()
			case "3":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.app.Records)

				return m, m.listView.Init()
			case "4":
				m.currentView = ViewSync
				m.syncView = view.NewSyncModel(m.app.Sync)

				return m, m.syncView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export, m.app.Records)

				return m, m.exportView.Init()
			case "6":
				m.currentView = ViewRestore
				m.restoreView = view.NewRestoreModel(m.app.Export)

				return m, m.restoreView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCapture:
		var newModel tea.Model
		newModel, cmd = m.captureView.Update(msg)
		m.captureView = newModel.(view.CaptureModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewSync:
		var newModel tea.Model
		newModel, cmd = m.syncView.Update(msg)
		m.syncView = newModel.(view.SyncModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewRestore:
		var newModel tea.Model
		newModel, cmd = m.restoreView.Update(msg)
		m.restoreView = newModel.(view.RestoreModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.app.Config.App.Name + "\n\n" +
				"1. Capture from Notification\n" +
				"2. Add Record\n" +
				"3. Browse Records\n" +
				"4. Cloud Sync\n" +
				"5. Export Records\n" +
				"6. Restore Backup\n\n" +
				"q. Quit",
		)
	case ViewCapture:
		return m.captureView.View()
	case ViewList:
		return m.listView.View()
	case ViewSync:
		return m.syncView.View()
	case ViewExport:
		return m.exportView.View()
	case ViewRestore:
		return m.restoreView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := tea.LogToFile("pocket-tui.log", "")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	handler, err := logging.NewHandler(logFile, cfg.App.LogLevel, "text")
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(handler))

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialise app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
