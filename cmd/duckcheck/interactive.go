package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/dispatch"
)

type modelState int

const (
	stateSelectIface modelState = iota
	stateSelectDelegate
	stateReport
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err      error
	engine   *dispatch.Engine
	st       styles
	iface    string
	delegate string
	result   string
	report   dispatch.Report
	methods  []descriptor.Descriptor
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

func newInteractiveModel() *interactiveModel {
	return &interactiveModel{
		st:    newStyles(true),
		state: stateSelectIface,
	}
}

type builtMsg struct {
	err    error
	engine *dispatch.Engine
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) buildEngine() tea.Msg {
	e, err := engineFor(newFactory(false), m.iface, m.delegate, nil)
	return builtMsg{engine: e, err: err}
}

func (m *interactiveModel) choices() int {
	switch m.state {
	case stateSelectIface:
		return len(interfaces)
	case stateSelectDelegate:
		return len(delegates)
	case stateReport:
		return len(m.methods)
	}
	return 0
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state != stateInputArgs && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state != stateInputArgs && m.selected < m.choices()-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectIface:
				m.iface = interfaces[m.selected].name
				m.state = stateSelectDelegate
				m.selected = 0

			case stateSelectDelegate:
				m.delegate = delegates[m.selected].name
				m.selected = 0
				return m, m.buildEngine

			case stateReport:
				if len(m.methods) == 0 {
					break
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callMethod
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callMethod

			case stateShowResult:
				m.state = stateReport
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateSelectDelegate:
				m.state = stateSelectIface
				m.selected = 0
			case stateReport:
				m.state = stateSelectDelegate
				m.engine = nil
				m.selected = 0
			case stateInputArgs:
				m.state = stateReport
				m.inputs = nil
			case stateShowResult:
				m.state = stateReport
				m.result = ""
				m.err = nil
			}
		}

	case builtMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateSelectDelegate
			return m, nil
		}
		m.err = nil
		m.engine = msg.engine
		m.report = msg.engine.Report()
		m.methods = msg.engine.Methods().All()
		m.state = stateReport

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	d := m.methods[m.selected]
	m.inputs = make([]textinput.Model, d.NumIn())
	for i := 0; i < d.NumIn(); i++ {
		ti := textinput.New()
		ti.Placeholder = d.In(i).String()
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callMethod() tea.Msg {
	if m.engine == nil {
		return callResultMsg{err: fmt.Errorf("adapter not built")}
	}

	d := m.methods[m.selected]
	args := make([]any, len(m.inputs))
	for i, input := range m.inputs {
		a, err := convertArg(input.Value(), d.In(i))
		if err != nil {
			return callResultMsg{err: fmt.Errorf("arg%d: %w", i, err)}
		}
		args[i] = a
	}

	oc, err := m.engine.Trace(d.Name, args...)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: outcomeText(oc, m.st)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(m.st.title.Render("duckcheck"))
	if m.iface != "" {
		b.WriteString(" ")
		b.WriteString(m.iface)
	}
	if m.delegate != "" && m.state >= stateReport {
		b.WriteString(" over ")
		b.WriteString(m.delegate)
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectIface:
		b.WriteString("Select an interface:\n\n")
		for i, e := range interfaces {
			m.writeChoice(&b, i, e.name+"  "+m.st.typ.Render(e.mode))
		}
		b.WriteString("\n")
		b.WriteString(m.st.help.Render("↑/↓ select • enter choose • q quit"))

	case stateSelectDelegate:
		if m.err != nil {
			b.WriteString(m.st.err.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
		}
		b.WriteString("Select a delegate:\n\n")
		for i, d := range delegates {
			m.writeChoice(&b, i, d.name)
		}
		b.WriteString("\n")
		b.WriteString(m.st.help.Render("↑/↓ select • enter build • esc back • q quit"))

	case stateReport:
		b.WriteString(fmt.Sprintf("%d/%d methods resolved\n\n", m.report.Resolved(), len(m.report.Methods)))
		for i, mr := range m.report.Methods {
			m.writeChoice(&b, i, methodLine(mr, m.st))
		}
		b.WriteString("\n")
		b.WriteString(m.st.help.Render("↑/↓ select • enter call • esc back • q quit"))

	case stateInputArgs:
		d := m.methods[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", m.st.method.Render(d.String())))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(m.st.typ.Render(d.In(i).String()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.st.help.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(m.st.err.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.result)
		}
		b.WriteString("\n\n")
		b.WriteString(m.st.help.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) writeChoice(b *strings.Builder, i int, text string) {
	if i == m.selected {
		b.WriteString(m.st.selected.Render("> " + text))
	} else {
		b.WriteString("  " + text)
	}
	b.WriteString("\n")
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
