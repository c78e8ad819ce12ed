package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// errHelpShown reports that -h printed usage and the command should stop.
var errHelpShown = errors.New("help shown")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderSettings holds flags that tune the browser.
type renderSettings struct {
	timeout    string
	workers    int
	browserBin string
	sandbox    bool
	sandboxSet bool // --sandbox given explicitly
}

type serveFlags struct {
	common commonFlags
	render renderSettings
	addr   string
	dbDSN  string
}

type generateFlags struct {
	common commonFlags
	output string
	prompt bool
}

type renderFlags struct {
	common   commonFlags
	render   renderSettings
	output   string
	htmlOnly bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
}

// addRenderFlags adds browser flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderSettings) {
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF render timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent browsers (0 = auto)")
	fs.StringVar(&f.browserBin, "browser-bin", "", "Chrome/Chromium executable")
	fs.BoolVar(&f.sandbox, "sandbox", false, "keep the Chrome sandbox enabled")
}

func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelpShown
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", stderr, printServeUsage)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (e.g., :8080)")
	fs.StringVar(&f.dbDSN, "db", "", "database DSN (sqlite path or postgres URL)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	f.render.sandboxSet = fs.Changed("sandbox")
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %v", ErrUsage, fs.Args())
	}
	return f, nil
}

func parseGenerateFlags(args []string, stderr io.Writer) (*generateFlags, []string, error) {
	f := &generateFlags{}
	fs := newFlagSet("generate", stderr, printGenerateUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.BoolVar(&f.prompt, "prompt", false, "print the LLM prompt instead of HTML")
	addCommonFlags(fs, &f.common)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", stderr, printRenderUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: input name with .pdf)")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write the print-ready HTML, skip the browser")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	f.render.sandboxSet = fs.Changed("sandbox")
	return f, fs.Args(), nil
}
