package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/duckwings/dispatch"
)

type styles struct {
	title    lipgloss.Style
	method   lipgloss.Style
	typ      lipgloss.Style
	selected lipgloss.Style
	result   lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		method: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")),
		typ: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")),
		result: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90")),
		err: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
	}
}

func writeReport(w io.Writer, format string, r dispatch.Report, st styles) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return enc.Close()
	case "text", "":
		_, err := io.WriteString(w, reportText(r, st))
		return err
	default:
		return fmt.Errorf("unknown format %q (text or yaml)", format)
	}
}

func reportText(r dispatch.Report, st styles) string {
	var b strings.Builder

	b.WriteString(st.title.Render(r.Interface))
	fmt.Fprintf(&b, " over %s\n", r.Primary)
	for i, s := range r.Secondaries {
		fmt.Fprintf(&b, "  secondary[%d]: %s\n", i, s)
	}
	if r.Fallback {
		b.WriteString("  fallback: yes\n")
	}
	b.WriteString("\n")

	for _, m := range r.Methods {
		b.WriteString(methodLine(m, st))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n%d/%d methods resolved\n", r.Resolved(), len(r.Methods))
	return b.String()
}

func methodLine(m dispatch.MethodReport, st styles) string {
	mark := st.err.Render("✗")
	if m.Resolved {
		mark = st.result.Render("✓")
	}
	line := mark + " " + st.method.Render(m.Method)
	switch {
	case m.Resolved:
		line += "  " + st.typ.Render(m.Source) + " " + m.Target
		if m.Depth > 0 {
			line += fmt.Sprintf(" (depth %d)", m.Depth)
		}
	case m.Source != "":
		line += "  " + st.typ.Render(m.Source)
	}
	return line
}

func outcomeText(oc dispatch.Outcome, st styles) string {
	var b strings.Builder

	path := make([]string, len(oc.Path))
	for i, s := range oc.Path {
		path[i] = s.String()
	}
	fmt.Fprintf(&b, "%s: %s\n", st.method.Render(oc.Method), strings.Join(path, " → "))
	if oc.Target != "" {
		fmt.Fprintf(&b, "target: %s\n", oc.Target)
	}
	if oc.Cause != nil {
		b.WriteString(st.err.Render("cause: " + oc.Cause.Error()))
		b.WriteString("\n")
	}
	if oc.Err != nil {
		b.WriteString(st.err.Render("error: " + oc.Err.Error()))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(st.result.Render("result: " + formatResults(oc.Results)))
	b.WriteString("\n")
	return b.String()
}

func formatResults(out []any) string {
	if len(out) == 0 {
		return "()"
	}
	parts := make([]string, len(out))
	for i, v := range out {
		parts[i] = fmt.Sprintf("%#v", v)
	}
	return strings.Join(parts, ", ")
}
