package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/capture"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

type captureState int

const (
	captureStatePaste captureState = iota
	captureStateForm
	captureStateResult
)

// draftFields backs the record form. It lives on the heap so the form
// bindings survive the model being copied between updates.
type draftFields struct {
	Kind     record.Kind
	Amount   string
	Category string
	Note     string
	Date     string
}

type CaptureModel struct {
	CommonModel
	capture *capture.Service
	records *record.Service

	state    captureState
	textarea textarea.Model
	form     *huh.Form
	fields   *draftFields

	status string
	err    error
}

// NewCaptureModel starts with a paste area for a payment notification.
func NewCaptureModel(capSvc *capture.Service, records *record.Service) CaptureModel {
	ta := textarea.New()
	ta.Placeholder = "Paste a payment notification..."
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.Focus()

	return CaptureModel{
		capture:  capSvc,
		records:  records,
		textarea: ta,
	}
}

// NewAddModel skips the paste area and opens an empty record form.
func NewAddModel(capSvc *capture.Service, records *record.Service) CaptureModel {
	m := NewCaptureModel(capSvc, records)
	m.openForm(capture.Draft{
		Kind:     record.KindExpense,
		Category: records.Catalog().First(record.KindExpense),
	})

	return m
}

func (m CaptureModel) Title() string { return "Capture" }

func (m CaptureModel) ShortHelp() string {
	switch m.state {
	case captureStatePaste:
		return "Ctrl+S: parse | Esc: back"
	case captureStateForm:
		return "Navigate form | Esc: back"
	}

	return "Enter: capture another | Esc: back"
}

func (m CaptureModel) Init() tea.Cmd {
	if m.state == captureStateForm {
		return m.form.Init()
	}

	return textarea.Blink
}

func (m CaptureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saved, ok := msg.(saveRecordMsg); ok {
		m.state = captureStateResult
		m.err = saved.err

		if saved.err == nil {
			m.status = fmt.Sprintf("Saved %s %s %s.",
				saved.rec.Category, kindStyle(saved.rec.Kind).Render(FormatSigned(saved.rec.Kind, saved.rec.Amount)), saved.rec.Note)
		}

		return m, nil
	}

	switch m.state {
	case captureStatePaste:
		return m.updatePaste(msg)
	case captureStateForm:
		return m.updateForm(msg)
	case captureStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m CaptureModel) updatePaste(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "ctrl+s":
			draft, err := m.capture.Draft(m.textarea.Value())
			if err != nil {
				m.err = err
				if errors.Is(err, capture.ErrUnparsed) {
					m.err = errors.New("no amount found, edit the text or press Esc")
				}

				return m, nil
			}

			m.err = nil
			m.openForm(draft)

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)

	return m, cmd
}

func (m *CaptureModel) openForm(d capture.Draft) {
	m.fields = &draftFields{
		Kind:     d.Kind,
		Category: d.Category,
		Note:     d.Note,
		Date:     FormatDate(time.Now()),
	}
	if d.Amount.Valid {
		m.fields.Amount = FormatAmount(d.Amount.Decimal)
	}

	catalog := m.records.Catalog()
	fields := m.fields

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[record.Kind]().
				Title("Type").
				Options(
					huh.NewOption("Expense", record.KindExpense),
					huh.NewOption("Income", record.KindIncome),
				).
				Value(&fields.Kind),

			huh.NewInput().
				Title("Amount").
				Value(&fields.Amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || !d.IsPositive() {
						return errors.New("enter a positive amount")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					names := catalog.Names(fields.Kind)
					if !catalog.Valid(fields.Kind, fields.Category) {
						fields.Category = catalog.First(fields.Kind)
					}

					opts := make([]huh.Option[string], len(names))
					for i, n := range names {
						opts[i] = huh.NewOption(catalog.Emoji(fields.Kind, n)+" "+n, n)
					}

					return opts
				}, &fields.Kind).
				Value(&fields.Category),

			huh.NewInput().
				Title("Note").
				Value(&fields.Note),

			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&fields.Date).
				Validate(func(s string) error {
					if _, err := time.ParseInLocation(time.DateOnly, s, time.Local); err != nil {
						return errors.New("use YYYY-MM-DD")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = captureStateForm
}

func (m CaptureModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	return m, m.saveCmd(*m.fields)
}

func (m CaptureModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			next := NewCaptureModel(m.capture, m.records)
			return next, next.Init()
		}
	}

	return m, nil
}

func (m CaptureModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case captureStatePaste:
		s := "Paste a payment notification:\n\n" + m.textarea.View()
		if m.err != nil {
			s += "\n\n" + errorStyle.Render(m.err.Error())
		}

		return style.Render(s)

	case captureStateForm:
		return style.Render(m.form.View())

	case captureStateResult:
		if m.err != nil {
			return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
		}

		return style.Render(successStyle.Render(m.status) + "\n\n(Enter to capture another, Esc to go back)")
	}

	return ""
}

type saveRecordMsg struct {
	rec *record.Record
	err error
}

func (m CaptureModel) saveCmd(f draftFields) tea.Cmd {
	return func() tea.Msg {
		amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
		if err != nil {
			return saveRecordMsg{err: err}
		}

		date, err := time.ParseInLocation(time.DateOnly, f.Date, time.Local)
		if err != nil {
			return saveRecordMsg{err: err}
		}

		// keep the time of day for records dated today
		if FormatDate(date) == FormatDate(time.Now()) {
			date = time.Time{}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		rec, err := m.records.Create(ctx, record.CreateParams{
			Kind:       f.Kind,
			Category:   f.Category,
			Amount:     amount,
			Note:       f.Note,
			OccurredAt: date,
		})

		return saveRecordMsg{rec: rec, err: err}
	}
}
