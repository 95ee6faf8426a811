package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/export"
)

const restoreTimeout = 30 * time.Second

type restoreState int

const (
	restoreStateFilePick restoreState = iota
	restoreStateRestoring
	restoreStateResult
)

// RestoreModel folds a backup file back into the local records.
type RestoreModel struct {
	CommonModel
	exportService *export.Service

	state      restoreState
	filePicker filepicker.Model

	status string
	err    error
}

func NewRestoreModel(svc *export.Service) RestoreModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".json"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return RestoreModel{
		exportService: svc,
		filePicker:    fp,
	}
}

func (m RestoreModel) Title() string { return "Restore Backup" }

func (m RestoreModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m RestoreModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m RestoreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == restoreStateResult {
				m.state = restoreStateFilePick
				m.err = nil
				m.status = ""

				return m, nil
			}

			return m, Back
		}

	case restoreResultMsg:
		m.state = restoreStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		r := msg.result
		m.status = fmt.Sprintf("Restored %d of %d records from the backup (%d already present).",
			r.Added, r.Backup, r.Backup-r.Added)

		return m, nil
	}

	if m.state != restoreStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = restoreStateRestoring
		m.status = fmt.Sprintf("Restoring from %s...", path)

		return m, m.restoreCmd(path)
	}

	return m, cmd
}

func (m RestoreModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case restoreStateFilePick:
		return style.Render("Select a backup file:\n\n" + m.filePicker.View())
	case restoreStateRestoring:
		return style.Render(m.status)
	case restoreStateResult:
		if m.err != nil {
			return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
		}

		return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

type restoreResultMsg struct {
	result *export.RestoreResult
	err    error
}

func (m RestoreModel) restoreCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
		defer cancel()

		res, err := m.exportService.RestoreFile(ctx, path)

		return restoreResultMsg{result: res, err: err}
	}
}
