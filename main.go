package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mcncl/jsonfmt/internal/config"
	"github.com/mcncl/jsonfmt/internal/errors"
	"github.com/mcncl/jsonfmt/internal/examples"
	"github.com/mcncl/jsonfmt/internal/formatter"
	"github.com/mcncl/jsonfmt/internal/highlight"
	"github.com/mcncl/jsonfmt/internal/models"
	"github.com/mcncl/jsonfmt/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Minify      bool   `help:"Write compact JSON with no insignificant whitespace." short:"m"`
	SortKeys    bool   `help:"Sort object keys recursively." short:"s"`
	Indent      string `help:"Indentation: a number of spaces (1-10) or 'tab'. Defaults to 4."`
	Check       bool   `help:"Exit non-zero and print a diff if the input is not already formatted."`
	Example     string `help:"Format a built-in example (big, greeting, nested, small) instead of reading input." short:"e"`
	Color       string `help:"Colorize output: auto, always or never."`
	MaxDepth    int    `help:"Maximum nesting depth accepted." name:"max-depth"`
	Config      string `help:"Path to config file. Defaults to .jsonfmt.yml in the current directory or a parent." short:"c" type:"path"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdoutIsTerminal and StderrIsTerminal drive "auto" colour mode
	StdoutIsTerminal bool
	StderrIsTerminal bool

	// input is the text last read, kept for error reporting
	input     string
	inputName string
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	cli := kong.Must(&CLI,
		kong.Name("jsonfmt"),
		kong.Description("Validate, pretty-print or minify JSON"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := cli.Parse(os.Args[1:]); err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jsonfmt version %s\n", Version)
		return
	}

	ctx := &Context{
		Stdin:            os.Stdin,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		StdoutIsTerminal: isTerminal(os.Stdout),
		StderrIsTerminal: isTerminal(os.Stderr),
	}

	cfg, configPath, err := config.Load(CLI.Config, CLI.Input, os.LookupEnv, overridesFromCLI())
	if err != nil {
		msg := "invalid settings"
		if configPath != "" {
			msg = "failed to load " + configPath
		}
		reportError(ctx, errors.NewConfigError(fmt.Sprintf("%s: %v", msg, err), err))
		os.Exit(1)
	}
	ctx.Config = cfg
	ctx.Debug = cfg.Dev.Debug
	ctx.Logger = newLogger(ctx.Stderr, ctx.Debug)
	if configPath != "" {
		ctx.Logger.Debug("loaded config", "path", configPath)
	}

	if err := run(ctx); err != nil {
		reportError(ctx, err)
		os.Exit(1)
	}
}

// overridesFromCLI collects the flags that override config values
func overridesFromCLI() config.Overrides {
	return config.Overrides{
		Indent:   CLI.Indent,
		SortKeys: CLI.SortKeys,
		Minify:   CLI.Minify,
		MaxDepth: CLI.MaxDepth,
		Color:    CLI.Color,
		Debug:    CLI.Debug,
	}
}

// newLogger builds the stderr logger; debug enables debug-level records
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run executes the main program logic
func run(ctx *Context) error {
	ctx.defaults()
	cfg := ctx.Config
	start := time.Now()

	// 1. Read JSON input
	text, name, err := readInput(ctx)
	if err != nil {
		return err
	}
	ctx.input, ctx.inputName = text, name
	ctx.Logger.Debug("read input", "source", name, "bytes", len(text))

	// 2. Format, minify or check
	f := formatter.NewFormatterWithDepth(cfg.MaxDepth)
	opts := models.Options{SortKeys: cfg.SortKeys}
	indent := cfg.Indent.Indent
	ctx.Logger.Debug("formatting",
		"minify", cfg.Minify,
		"sort_keys", cfg.SortKeys,
		"indent", indent.String(),
		"max_depth", f.MaxDepth(),
	)

	if CLI.Check {
		return check(ctx, f, text, name, indent, opts)
	}

	var res models.Result[string]
	if cfg.Minify {
		res = f.Minify(text, opts)
	} else {
		res = f.Format(text, indent, opts)
	}
	if !res.OK() {
		return resultError(res.Err())
	}
	ctx.Logger.Debug("formatted", "bytes", len(res.Value()), "elapsed", time.Since(start))

	// 3. Output the result
	return writeOutput(ctx, res.Value())
}

// check compares input against its formatted form and prints a diff when
// they differ
func check(ctx *Context, f *formatter.Formatter, text, name string, indent models.Indent, opts models.Options) error {
	res, formatted := f.Check(text, indent, opts, ctx.Config.Minify)
	if !res.OK() {
		return resultError(res.Err())
	}
	if formatted {
		ctx.Logger.Debug("input already formatted", "source", name)
		return nil
	}

	h := highlight.New(ctx.Config.Output.Color.Enabled(ctx.StdoutIsTerminal))
	want := res.Value() + "\n"
	got := text
	if !strings.HasSuffix(got, "\n") {
		got += "\n"
	}
	if _, err := fmt.Fprint(ctx.Stdout, h.Diff(name, name+" (formatted)", got, want)); err != nil {
		return errors.NewOutputError("failed to write diff", err)
	}
	return errors.NewCheckError(fmt.Sprintf("%s is not formatted", name), errors.ErrNotFormatted)
}

// resultError wraps an engine failure in the matching application error
func resultError(err error) error {
	if _, ok := errors.AsSerializeError(err); ok {
		return errors.NewSerializeError("failed to write JSON", err)
	}
	return errors.NewParsingError("input is not valid JSON", err)
}

// readInput reads JSON text from an example, a file or stdin. It returns the
// text and a name for it used in messages.
func readInput(ctx *Context) (string, string, error) {
	if CLI.Example != "" {
		text, err := examples.Get(CLI.Example)
		if err != nil {
			return "", "", errors.NewInputError(fmt.Sprintf("unknown example %q", CLI.Example), err)
		}
		return text, "example:" + CLI.Example, nil
	}

	if CLI.Input != "" {
		text, err := readFile(CLI.Input)
		return text, CLI.Input, err
	}

	// Interactive mode or piped input
	if stdinIsTerminal(ctx.Stdin) {
		if CLI.Interactive {
			text, err := readInteractiveInput(ctx)
			return text, "stdin", err
		}
		// No data provided on stdin and not in interactive mode
		return "", "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return "", "", errors.NewInputError("failed to read from stdin", err)
	}
	return string(data), "stdin", nil
}

// readFile reads a JSON file. An empty file is handed to the engine, which
// reports it as invalid JSON.
func readFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
		}
		return "", errors.NewInputError(fmt.Sprintf("failed to read file '%s'", path), err)
	}
	return string(data), nil
}

// writeOutput writes text to file or stdout
func writeOutput(ctx *Context, text string) error {
	if ctx.Config.Output.TrailingNewline {
		text += "\n"
	}

	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(text), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		ctx.Logger.Info("wrote formatted JSON", "path", CLI.Output, "bytes", len(text))
		return nil
	}

	h := highlight.New(ctx.Config.Output.Color.Enabled(ctx.StdoutIsTerminal))
	if _, err := io.WriteString(ctx.Stdout, h.JSON(text)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// reportError prints a user-friendly message for err to stderr. Parse
// failures also show the offending lines of input.
func reportError(ctx *Context, err error) {
	ctx.defaults()
	enabled := ctx.Config.Output.Color.Enabled(ctx.StderrIsTerminal)

	red := color.New(color.FgRed)
	if enabled {
		red.EnableColor()
	} else {
		red.DisableColor()
	}
	fmt.Fprintln(ctx.Stderr, red.Sprint(errors.UserFriendlyError(err)))

	if pos, ok := parser.ErrorPosition(err); ok && ctx.input != "" {
		if _, isParse := errors.AsParseError(err); isParse {
			line, column := parser.Location(ctx.input, parser.ByteOffset(ctx.input, pos))
			h := highlight.New(enabled)
			fmt.Fprintf(ctx.Stderr, "\n%s:%d:%d\n", ctx.inputName, line, column)
			fmt.Fprint(ctx.Stderr, h.ErrorContext(ctx.input, line, column, ctx.Config.Output.ContextLines))
		}
	}

	if appErr, ok := err.(*errors.AppError); ok && appErr.Type == errors.ErrorTypeCheck {
		return
	}
	fmt.Fprintf(ctx.Stderr, "\nFor help, run: jsonfmt --help\n")
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput(ctx *Context) (string, error) {
	fmt.Fprintln(ctx.Stderr, "jsonfmt Interactive Mode")
	fmt.Fprintln(ctx.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(ctx.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	fmt.Fprintln(ctx.Stderr, "\nProcessing JSON...")
	return jsonBuilder.String(), nil
}

// defaults fills in anything a test or caller left unset
func (ctx *Context) defaults() {
	if ctx.Config == nil {
		ctx.Config = config.NewConfig()
	}
	if ctx.Stdin == nil {
		ctx.Stdin = os.Stdin
	}
	if ctx.Stdout == nil {
		ctx.Stdout = os.Stdout
	}
	if ctx.Stderr == nil {
		ctx.Stderr = os.Stderr
	}
	if ctx.Logger == nil {
		ctx.Logger = newLogger(ctx.Stderr, ctx.Debug)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// stdinIsTerminal reports whether r is an interactive terminal rather than a
// pipe, file or in-memory reader
func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
