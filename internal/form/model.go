// Package form is a terminal form for entering one fueling record.
package form

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gigurra/petrol-book/internal"
)

// ErrCanceled is returned by Run when the form is left without saving
var ErrCanceled = errors.New("entry canceled")

type fieldKind int

const (
	fieldManufacturer fieldKind = iota
	fieldModel
	fieldDate
	fieldTime
	fieldStation
	fieldPetrolType
	fieldCosts
	fieldLiquid
	fieldDistance
	fieldMileage
)

type field struct {
	kind  fieldKind
	label string
	input textinput.Model
}

// Result is the submitted form content. Meta is the vehicle the entry belongs to.
type Result struct {
	Meta  internal.Meta
	Entry internal.EntryInput
}

// Model is the bubbletea model of the entry form
type Model struct {
	fields   []field
	focus    int
	meta     internal.Meta
	units    internal.Units
	err      string
	done     bool
	canceled bool
	result   Result
}

// New creates a form for a new record of doc. Vehicle fields are only asked
// for when the document does not identify the vehicle yet.
func New(doc *internal.Document, cfg *internal.Config, now time.Time) Model {
	m := Model{
		meta:  doc.Meta,
		units: doc.Units.WithDefaults(internal.DefaultUnits()),
	}
	defaults := internal.NewEntryInput(now)

	if doc.ValidateMeta() != nil {
		m.addField(fieldManufacturer, "Manufacturer", doc.Meta.Manufacturer, nil)
		m.addField(fieldModel, "Model", doc.Meta.Model, nil)
	}
	m.addField(fieldDate, "Date", defaults.Date, nil)
	m.addField(fieldTime, "Time", defaults.Time, nil)
	m.addField(fieldStation, "Petrol Station", "", internal.StationNames(doc))
	m.addField(fieldPetrolType, "Petrol Type", "", cfg.PetrolTypeSuggestions())
	m.addField(fieldCosts, fmt.Sprintf("Costs (%s)", m.units.Costs), "", nil)
	m.addField(fieldLiquid, fmt.Sprintf("Liquid (%s)", m.units.Liquid), "", nil)
	m.addField(fieldDistance, fmt.Sprintf("Distance (%s)", m.units.Distance), "", nil)
	m.addField(fieldMileage, fmt.Sprintf("Mileage (%s)", m.units.Distance), "", nil)

	m.fields[0].input.Focus()
	return m
}

func (m *Model) addField(kind fieldKind, label, value string, suggestions []string) {
	in := textinput.New()
	in.Prompt = ""
	in.SetValue(value)
	if len(suggestions) > 0 {
		in.ShowSuggestions = true
		in.SetSuggestions(suggestions)
		// tab moves between fields
		in.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("right"))
	}
	m.fields = append(m.fields, field{kind: kind, label: label, input: in})
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "tab":
			return m, m.moveFocus(1)
		case "shift+tab":
			return m, m.moveFocus(-1)
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.fields[m.focus].input.Blur()
	m.focus = (m.focus + delta + len(m.fields)) % len(m.fields)
	return m.fields[m.focus].input.Focus()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	result := Result{Meta: m.meta}
	for _, f := range m.fields {
		v := f.input.Value()
		switch f.kind {
		case fieldManufacturer:
			result.Meta.Manufacturer = strings.TrimSpace(v)
		case fieldModel:
			result.Meta.Model = strings.TrimSpace(v)
		case fieldDate:
			result.Entry.Date = v
		case fieldTime:
			result.Entry.Time = v
		case fieldStation:
			result.Entry.Station = v
		case fieldPetrolType:
			result.Entry.PetrolType = v
		case fieldCosts:
			result.Entry.Costs = v
		case fieldLiquid:
			result.Entry.Liquid = v
		case fieldDistance:
			result.Entry.Distance = v
		case fieldMileage:
			result.Entry.Mileage = v
		}
	}

	doc := internal.Document{Meta: result.Meta}
	if err := doc.ValidateMeta(); err != nil {
		m.err = message(err)
		return m, nil
	}
	if _, err := result.Entry.Record(m.units); err != nil {
		m.err = message(err)
		return m, nil
	}

	m.err = ""
	m.done = true
	m.result = result
	return m, tea.Quit
}

func message(err error) string {
	return strings.TrimPrefix(err.Error(), internal.ErrInvalidInput.Error()+": ")
}

// View renders the form
func (m Model) View() string {
	var b strings.Builder

	title := "New fueling"
	if v := strings.TrimSpace(m.meta.Manufacturer + " " + m.meta.Model); v != "" {
		title += ": " + v
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	for i, f := range m.fields {
		style := labelStyle
		if i == m.focus {
			style = focusedLabelStyle
		}
		b.WriteString(style.Render(f.label))
		b.WriteString(f.input.View())
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab/shift+tab: move  →: accept suggestion  enter: save  esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// Result returns the submitted content. ok is false until the form was submitted.
func (m Model) Result() (Result, bool) {
	return m.result, m.done
}

// Canceled reports whether the form was left without saving
func (m Model) Canceled() bool {
	return m.canceled
}

// Err returns the current validation message
func (m Model) Err() string {
	return m.err
}

// Run shows the form on the terminal until it is submitted or canceled.
func Run(doc *internal.Document, cfg *internal.Config, now time.Time) (Result, error) {
	final, err := tea.NewProgram(New(doc, cfg, now)).Run()
	if err != nil {
		return Result{}, fmt.Errorf("running entry form: %w", err)
	}
	m := final.(Model)
	result, ok := m.Result()
	if !ok {
		return Result{}, ErrCanceled
	}
	return result, nil
}
