package survey

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	surveydomain "emotrack/internal/modules/survey/domain"
	surveydto "emotrack/internal/modules/survey/dto"
	apperrors "emotrack/internal/platform/errors"
	"emotrack/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SurveyPort interface {
	Submit(ctx context.Context, input surveydto.EntryInput) error
}

// ─── messages ────────────────────────────────────────────────────────────────

// SubmittedMsg reports the outcome of a submission. On success the app
// model fires the refresh cascade.
type SubmittedMsg struct {
	Err error
}

// ─── model ───────────────────────────────────────────────────────────────────

const (
	fieldMood = iota
	fieldSleep
	fieldAppetite
	fieldConcentration
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Ánimo (1-10)",
	"Horas de sueño (0-24)",
	"Apetito (0-10)",
	"Concentración (0-10)",
	"Notas",
}

type Model struct {
	port   SurveyPort
	inputs [fieldCount]textinput.Model
	focus  int

	submitting bool
	fieldErrs  map[string]string
	submitErr  error
	success    bool
	width      int
	height     int
}

func New(port SurveyPort) Model {
	m := Model{port: port}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 64
		if i == fieldNotes {
			ti.CharLimit = 500
			ti.Placeholder = "opcional"
		}
		m.inputs[i] = ti
	}
	m.inputs[fieldMood].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SubmittedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.submitErr = msg.Err
			return m, nil
		}
		// Success resets the form for the next entry.
		m.success = true
		m.submitErr = nil
		m.fieldErrs = nil
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.setFocus(fieldMood)
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down", "enter":
			if msg.String() == "enter" && m.focus == fieldNotes {
				return m.submit()
			}
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "ctrl+s":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// Editing reports whether the form currently owns the keyboard, so the
// app model keeps global single-key shortcuts away from it.
func (m Model) Editing() bool {
	return !m.submitting
}

func (m Model) submit() (Model, tea.Cmd) {
	input, fieldErrs := m.parse()
	if len(fieldErrs) > 0 {
		m.fieldErrs = fieldErrs
		m.success = false
		return m, nil
	}
	m.fieldErrs = nil
	m.success = false
	m.submitErr = nil
	m.submitting = true
	port := m.port
	return m, func() tea.Msg {
		return SubmittedMsg{Err: port.Submit(context.Background(), input)}
	}
}

// parse converts the raw inputs without inventing values: an empty or
// unparsable numeric field is an error, not a zero.
func (m Model) parse() (surveydto.EntryInput, map[string]string) {
	fieldErrs := make(map[string]string)

	mood, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldMood].Value()))
	if err != nil {
		fieldErrs["mood"] = "enter a number"
	}
	sleep, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldSleep].Value()), 64)
	if err != nil {
		fieldErrs["sleep_hours"] = "enter a number"
	}
	appetite, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldAppetite].Value()))
	if err != nil {
		fieldErrs["appetite"] = "enter a number"
	}
	concentration, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldConcentration].Value()))
	if err != nil {
		fieldErrs["concentration"] = "enter a number"
	}
	if len(fieldErrs) > 0 {
		return surveydto.EntryInput{}, fieldErrs
	}

	input := surveydto.EntryInput{
		Mood:          mood,
		SleepHours:    sleep,
		Appetite:      appetite,
		Concentration: concentration,
		Notes:         m.inputs[fieldNotes].Value(),
	}
	entry := surveydomain.Entry{
		Mood:          input.Mood,
		SleepHours:    input.SleepHours,
		Appetite:      input.Appetite,
		Concentration: input.Concentration,
	}
	if err := entry.Validate(); err != nil {
		var vErr *surveydomain.ValidationError
		if errors.As(err, &vErr) {
			for _, f := range vErr.Fields {
				fieldErrs[f.Field] = f.Message
			}
		} else {
			fieldErrs["form"] = err.Error()
		}
		return surveydto.EntryInput{}, fieldErrs
	}
	return input, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

var fieldErrKeys = [fieldCount]string{"mood", "sleep_hours", "appetite", "concentration", ""}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("¿Cómo te sientes hoy?") + "\n\n")

	for i := range m.inputs {
		label := fieldLabels[i]
		if i == m.focus {
			sb.WriteString(theme.Hot.Render(label) + "\n")
		} else {
			sb.WriteString(theme.Muted.Render(label) + "\n")
		}
		sb.WriteString(m.inputs[i].View())
		if fb := m.fieldFeedback(i); fb != "" {
			sb.WriteString("  " + fb)
		}
		sb.WriteString("\n")
		if key := fieldErrKeys[i]; key != "" {
			if msg, ok := m.fieldErrs[key]; ok {
				sb.WriteString(theme.Danger.Render("  ✗ "+msg) + "\n")
			}
		}
		sb.WriteString("\n")
	}

	switch {
	case m.submitting:
		sb.WriteString(theme.Warning.Render("Enviando…") + "\n")
	case m.submitErr != nil:
		sb.WriteString(theme.Danger.Render("No se pudo enviar: "+submitErrText(m.submitErr)) + "\n")
	case m.success:
		sb.WriteString(theme.Success.Render("✓ Encuesta registrada") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("tab: next field  ctrl+s: submit"))

	return theme.Pane.Width(max(m.width-4, 20)).Render(sb.String())
}

// fieldFeedback renders live validity feedback for a field's current
// value: the descriptor band while the value is in range, an invalid
// marker as soon as it leaves it.
func (m Model) fieldFeedback(field int) string {
	raw := strings.TrimSpace(m.inputs[field].Value())
	if raw == "" || field == fieldNotes {
		return ""
	}
	if d, ok := m.descriptor(field); ok {
		return d.Emoji + " " + theme.Muted.Render(d.Text)
	}
	return theme.Danger.Render("✗ " + rangeHint(field))
}

func rangeHint(field int) string {
	switch field {
	case fieldMood:
		return "entre 1 y 10"
	case fieldSleep:
		return "entre 0 y 24"
	default:
		return "entre 0 y 10"
	}
}

// descriptor gives live feedback for the focused value, same bands the
// web form showed next to its sliders.
func (m Model) descriptor(field int) (surveydomain.Descriptor, bool) {
	raw := strings.TrimSpace(m.inputs[field].Value())
	if raw == "" {
		return surveydomain.Descriptor{}, false
	}
	switch field {
	case fieldMood:
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 && v <= 10 {
			return surveydomain.MoodDescriptor(v), true
		}
	case fieldSleep:
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 && v <= 24 {
			return surveydomain.SleepDescriptor(v), true
		}
	case fieldAppetite:
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 && v <= 10 {
			return surveydomain.AppetiteDescriptor(v), true
		}
	case fieldConcentration:
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 && v <= 10 {
			return surveydomain.ConcentrationDescriptor(v), true
		}
	}
	return surveydomain.Descriptor{}, false
}

func submitErrText(err error) string {
	if errors.Is(err, apperrors.ErrValidation) {
		return "revisa los campos marcados"
	}
	return err.Error()
}
