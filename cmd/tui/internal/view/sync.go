package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/cloudsync"
)

const syncTimeout = time.Minute

type syncState int

const (
	syncStateSelect syncState = iota
	syncStateRunning
	syncStateResult
)

type syncAction struct {
	label string
	run   func(*cloudsync.Service, context.Context) (*cloudsync.Result, error)
}

var syncActions = []syncAction{
	{"Sync (merge both ways)", (*cloudsync.Service).Sync},
	{"Push local records", (*cloudsync.Service).Push},
	{"Pull remote records", (*cloudsync.Service).Pull},
}

type SyncModel struct {
	CommonModel
	sync *cloudsync.Service

	state   syncState
	cursor  int
	spinner spinner.Model

	result *cloudsync.Result
	err    error
}

func NewSyncModel(svc *cloudsync.Service) SyncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SyncModel{sync: svc, spinner: s}
}

func (m SyncModel) Title() string { return "Cloud Sync" }

func (m SyncModel) ShortHelp() string {
	if m.state == syncStateRunning {
		return "Syncing..."
	}

	return "Esc: back | Enter: select"
}

func (m SyncModel) Init() tea.Cmd {
	return nil
}

func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncResultMsg:
		m.state = syncStateResult
		m.result = msg.result
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if m.state == syncStateRunning {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			if m.state == syncStateResult {
				m.state = syncStateSelect
				return m, nil
			}

			return m, Back
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown:
			if m.cursor < len(syncActions)-1 {
				m.cursor++
			}
		case tea.KeyEnter:
			if m.state != syncStateSelect {
				return m, nil
			}

			m.state = syncStateRunning

			return m, tea.Batch(m.spinner.Tick, m.runCmd(syncActions[m.cursor]))
		}

		return m, nil
	}

	if m.state == syncStateRunning {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m SyncModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if !m.sync.Enabled() {
		return style.Render(errorStyle.Render("Cloud sync is not configured. Set REMOTE_BACKEND.") + "\n\n(Esc to go back)")
	}

	switch m.state {
	case syncStateRunning:
		return style.Render(fmt.Sprintf("%s %s...", m.spinner.View(), syncActions[m.cursor].label))
	case syncStateResult:
		return style.Render(m.viewResult())
	}

	s := "Cloud Sync:\n\n"
	for i, a := range syncActions {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, a.label)
	}

	return style.Render(s)
}

func (m SyncModel) viewResult() string {
	if m.err != nil {
		msg := fmt.Sprintf("Error: %v", m.err)
		if errors.Is(m.err, cloudsync.ErrSyncDisabled) {
			msg = "Cloud sync is not configured."
		}

		return errorStyle.Render(msg) + "\n\n(Esc to go back)"
	}

	r := m.result

	s := successStyle.Render("Sync complete!") + "\n\n" +
		fmt.Sprintf("Local:  %d\nRemote: %d\nMerged: %d\nAt:     %s",
			r.Local, r.Remote, r.Merged, r.SyncedAt.Local().Format("2006-01-02 15:04:05"))

	if warning := r.Warning(); warning != "" {
		s += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(warning)
	}

	return s + "\n\n(Esc to go back)"
}

type syncResultMsg struct {
	result *cloudsync.Result
	err    error
}

func (m SyncModel) runCmd(a syncAction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		res, err := a.run(m.sync, ctx)

		return syncResultMsg{result: res, err: err}
	}
}
