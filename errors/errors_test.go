package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseResolve,
				Kind:   KindTypeMismatch,
				Path:   []string{"Reader", "Buffer"},
				GoType: "*bytes.Buffer",
				Method: "Len() int",
				Detail: "cannot shape result",
			},
			contains: []string{"[resolve]", "type_mismatch", "Reader.Buffer", "*bytes.Buffer", "Len() int", "cannot shape result"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDispatch,
				Kind:  KindRuntimeUnresolved,
			},
			contains: []string{"[dispatch]", "runtime_unresolved"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDispatch,
				Kind:   KindInvocationFailed,
				Detail: "resolved method failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[dispatch]", "invocation_failed", "resolved method failed", "caused by", "underlying error"},
		},
		{
			name:     "method only",
			err:      RuntimeUnresolved("Len() int"),
			contains: []string{"method Len() int - no delegate provides this method"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := InvocationFailed("Len() int", cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseBind,
		Kind:   KindInvalidBinding,
		Method: "Len() int",
	}

	if !err.Is(&Error{Phase: PhaseBind, Kind: KindInvalidBinding}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseBuild, Kind: KindInvalidBinding}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseBind, Kind: KindNotFound}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseBind, Kind: KindInvalidBinding}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseBind, KindInvalidBinding).
		Path("Lener", "Len").
		GoType("func(string) int").
		Method("Len() int").
		Value(42).
		Cause(cause).
		Detail("expected %d parameters, got %d", 1, 2).
		Build()

	if err.Phase != PhaseBind {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseBind)
	}
	if err.Kind != KindInvalidBinding {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidBinding)
	}
	if len(err.Path) != 2 || err.Path[0] != "Lener" || err.Path[1] != "Len" {
		t.Errorf("Path = %v, want [Lener Len]", err.Path)
	}
	if err.GoType != "func(string) int" {
		t.Errorf("GoType = %v, want 'func(string) int'", err.GoType)
	}
	if err.Method != "Len() int" {
		t.Errorf("Method = %v, want 'Len() int'", err.Method)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected 1 parameters, got 2" {
		t.Errorf("Detail = %v, want 'expected 1 parameters, got 2'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("ConstructionUnresolved", func(t *testing.T) {
		err := ConstructionUnresolved("Len() int")
		if err.Phase != PhaseBuild || err.Kind != KindConstructionUnresolved {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
	})

	t.Run("RuntimeUnresolved", func(t *testing.T) {
		err := RuntimeUnresolved("Len() int")
		if err.Phase != PhaseDispatch || err.Kind != KindRuntimeUnresolved {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
	})

	t.Run("InvalidBinding", func(t *testing.T) {
		err := InvalidBinding("func() int", "Len() int", "takes %d parameters", 0)
		if err.Phase != PhaseBind || err.Kind != KindInvalidBinding {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
		if err.GoType != "func() int" || err.Method != "Len() int" {
			t.Errorf("GoType=%q Method=%q", err.GoType, err.Method)
		}
		if err.Detail != "takes 0 parameters" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseDispatch, "string", "Len() int", "result %d cannot be used as %s", 0, "int")
		if err.Phase != PhaseDispatch || err.Kind != KindTypeMismatch {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
		if err.Detail != "result 0 cannot be used as int" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("boom")
		err := Wrap(PhaseBind, KindInvalidBinding, "func(lener)", cause, "selector failed")
		if !errors.Is(err, cause) {
			t.Error("Wrap should keep the cause")
		}
		if err.GoType != "func(lener)" || err.Detail != "selector failed" {
			t.Errorf("GoType=%q Detail=%q", err.GoType, err.Detail)
		}
	})

	t.Run("NotAdapter", func(t *testing.T) {
		err := NotAdapter("hello")
		if err.Phase != PhaseUnwrap || err.Kind != KindInvalidArgument {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
		if err.GoType != "string" {
			t.Errorf("GoType = %v, want 'string'", err.GoType)
		}
		if err.Value != "hello" {
			t.Errorf("Value = %v, want hello", err.Value)
		}
	})

	t.Run("StubMissing", func(t *testing.T) {
		err := StubMissing("io.Writer")
		if err.Kind != KindNotFound || err.Phase != PhaseStub {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseResolve, []string{"Inner"}, "*Inner")
		if err.Kind != KindNilPointer {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNilPointer)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseDispatch, "io.Writer", "Size")
		if !strings.Contains(err.Detail, `"Size"`) {
			t.Errorf("Detail = %v, should quote name", err.Detail)
		}
		if err.GoType != "io.Writer" || err.Method != "Size" {
			t.Errorf("GoType=%q Method=%q", err.GoType, err.Method)
		}
	})
}

func TestMissingMethodsError(t *testing.T) {
	t.Run("single method", func(t *testing.T) {
		err := NewMissingMethodsError([]string{"io.Writer#Write([]uint8) (int, error)"})
		if len(err.Methods) != 1 {
			t.Fatalf("expected 1 method, got %d", len(err.Methods))
		}
		if err.Methods[0].Interface != "io.Writer" {
			t.Errorf("interface = %q, want io.Writer", err.Methods[0].Interface)
		}
		if err.Methods[0].Method != "Write([]uint8) (int, error)" {
			t.Errorf("method = %q", err.Methods[0].Method)
		}
	})

	t.Run("grouped by interface", func(t *testing.T) {
		err := NewMissingMethodsError([]string{
			"io.ReadWriter#Read([]uint8) (int, error)",
			"fmt.Stringer#String() string",
			"io.ReadWriter#Write([]uint8) (int, error)",
		})
		msg := err.Error()
		if !strings.Contains(msg, "missing 3 method(s)") {
			t.Errorf("error should contain count, got: %s", msg)
		}
		if !strings.Contains(msg, "io.ReadWriter:") || !strings.Contains(msg, "fmt.Stringer:") {
			t.Errorf("error should group by interface, got: %s", msg)
		}
		if strings.Index(msg, "io.ReadWriter:") > strings.Index(msg, "fmt.Stringer:") {
			t.Errorf("groups should keep first-seen order, got: %s", msg)
		}
	})

	t.Run("empty", func(t *testing.T) {
		err := NewMissingMethodsError(nil)
		if !strings.Contains(err.Error(), "no methods specified") {
			t.Errorf("empty error should have specific message, got: %s", err.Error())
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		err := NewMissingMethodsError([]string{"a#b"})
		if !errors.Is(err, &MissingMethodsError{}) {
			t.Error("errors.Is should match MissingMethodsError")
		}
	})
}
