package dispatch

import (
	"fmt"

	"github.com/wippyai/duckwings/errors"
)

// MethodReport is the resolution verdict for one interface method.
type MethodReport struct {
	Method   string `yaml:"method"`
	Source   string `yaml:"source,omitempty"`
	Target   string `yaml:"target,omitempty"`
	Depth    int    `yaml:"depth,omitempty"`
	Resolved bool   `yaml:"resolved"`
}

// Report describes where each interface method of an engine is answered.
type Report struct {
	ID          string         `yaml:"id"`
	Interface   string         `yaml:"interface"`
	Primary     string         `yaml:"primary"`
	Secondaries []string       `yaml:"secondaries,omitempty"`
	Methods     []MethodReport `yaml:"methods"`
	Fallback    bool           `yaml:"fallback"`
}

// Report resolves every interface method without invoking anything.
// Methods left to the fallback are reported with source "fallback" and
// Resolved false.
func (e *Engine) Report() Report {
	r := Report{
		ID:        e.id.String(),
		Interface: e.set.Name(),
		Primary:   describe(e.primary),
		Fallback:  e.fallback != nil,
	}
	for _, s := range e.secondaries {
		r.Secondaries = append(r.Secondaries, describe(s))
	}

	for _, d := range e.set.All() {
		mr := MethodReport{Method: d.String()}
		t, src, ok := e.locate(d)
		switch {
		case ok:
			mr.Resolved = true
			mr.Source = sourceName(src)
			mr.Target = t.String()
			if !t.Declarative() {
				mr.Depth = t.Method.Depth
			}
		case e.fallback != nil:
			mr.Source = "fallback"
		}
		r.Methods = append(r.Methods, mr)
	}
	return r
}

// Resolved counts the methods answered by a delegate.
func (r Report) Resolved() int {
	n := 0
	for _, m := range r.Methods {
		if m.Resolved {
			n++
		}
	}
	return n
}

// Missing lists unresolved methods as "interface#method" keys.
func (r Report) Missing() []string {
	var out []string
	for _, m := range r.Methods {
		if !m.Resolved {
			out = append(out, r.Interface+"#"+m.Method)
		}
	}
	return out
}

// Err returns a MissingMethodsError for the unresolved methods, or nil.
func (r Report) Err() error {
	missing := r.Missing()
	if len(missing) == 0 {
		return nil
	}
	return errors.NewMissingMethodsError(missing)
}

func sourceName(src int) string {
	switch src {
	case SourcePrimary:
		return "primary"
	case SourceFallback:
		return "fallback"
	case SourceNone:
		return ""
	default:
		return fmt.Sprintf("secondary[%d]", src-1)
	}
}

func describe(s Source) string {
	return fmt.Sprintf("%T (%s)", s.Delegate(), s.Kind())
}
