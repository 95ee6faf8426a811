package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const storeTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type CommonModel struct {
	Width  int
	Height int
}

// BackMsg returns the TUI to the main menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// StoreCtx returns a context with the standard timeout for store operations.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
