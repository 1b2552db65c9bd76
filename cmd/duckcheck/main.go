package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/duckwings/adapter"
	"github.com/wippyai/duckwings/dispatch"
)

type options struct {
	iface       string
	delegate    string
	secondaries string
	format      string
	call        string
	args        string
	list        bool
	strict      bool
	failAtCall  bool
	color       bool
}

func main() {
	var (
		iface       = flag.String("iface", "", "Interface to adapt (see -list)")
		delegate    = flag.String("delegate", "", "Primary delegate (see -list)")
		secondaries = flag.String("secondary", "", "Secondary delegates (comma-separated)")
		format      = flag.String("format", "text", "Report format: text or yaml")
		call        = flag.String("call", "", "Method to call after the report")
		args        = flag.String("args", "", "Arguments for -call (comma-separated)")
		list        = flag.Bool("list", false, "List interfaces and delegates and exit")
		strict      = flag.Bool("strict", false, "Exit with status 2 when a method is unresolved")
		failAtCall  = flag.Bool("fail", false, "Fail unresolved calls instead of returning zero values")
		verbose     = flag.Bool("v", false, "Log dispatch decisions to stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			adapter.SetLogger(log)
			dispatch.SetLogger(log)
			defer func() { _ = log.Sync() }()
		}
	}

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !*list && (*iface == "" || *delegate == "") {
		fmt.Fprintln(os.Stderr, "Usage: duckcheck -iface <interface> -delegate <delegate> [-secondary a,b] [-format text|yaml]")
		fmt.Fprintln(os.Stderr, "       duckcheck -iface <interface> -delegate <delegate> -call <method> [-args a,b]")
		fmt.Fprintln(os.Stderr, "       duckcheck -list")
		fmt.Fprintln(os.Stderr, "       duckcheck -i  (interactive mode)")
		os.Exit(1)
	}

	opts := options{
		iface:       *iface,
		delegate:    *delegate,
		secondaries: *secondaries,
		format:      *format,
		call:        *call,
		args:        *args,
		list:        *list,
		strict:      *strict,
		failAtCall:  *failAtCall,
		color:       term.IsTerminal(int(os.Stdout.Fd())),
	}
	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if _, ok := err.(*strictError); ok {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// strictError marks a report with unresolved methods under -strict.
type strictError struct {
	err error
}

func (e *strictError) Error() string { return e.err.Error() }

func (e *strictError) Unwrap() error { return e.err }

func newFactory(failAtCall bool) *adapter.Factory {
	f := adapter.New().WithStubs(catalogStubs())
	if failAtCall {
		f.OnMissingAtRuntime(adapter.FailAtRuntime)
	}
	return f
}

func run(w io.Writer, opts options) error {
	st := newStyles(opts.color)

	if opts.list {
		fmt.Fprintln(w, st.title.Render("Interfaces"))
		for _, e := range interfaces {
			fmt.Fprintf(w, "  %s  %s\n", st.method.Render(e.name), st.typ.Render(e.mode))
		}
		fmt.Fprintln(w, st.title.Render("Delegates"))
		for _, name := range delegateNames() {
			fmt.Fprintf(w, "  %s\n", name)
		}
		return nil
	}

	var secondaries []string
	if opts.secondaries != "" {
		secondaries = strings.Split(opts.secondaries, ",")
	}

	e, err := engineFor(newFactory(opts.failAtCall), opts.iface, opts.delegate, secondaries)
	if err != nil {
		return err
	}

	report := e.Report()
	if err := writeReport(w, opts.format, report, st); err != nil {
		return err
	}

	if opts.call != "" {
		d, ok := e.Methods().Lookup(opts.call)
		if !ok {
			return fmt.Errorf("%s has no method %q", report.Interface, opts.call)
		}
		args, err := convertArgs(d, opts.args)
		if err != nil {
			return err
		}
		oc, err := e.Trace(opts.call, args...)
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, outcomeText(oc, st))
	}

	if opts.strict {
		if err := report.Err(); err != nil {
			return &strictError{err: err}
		}
	}
	return nil
}
