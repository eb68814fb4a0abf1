package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"
	"gopkg.in/urfave/cli.v1"

	"treelox/config"
	"treelox/diag"
	"treelox/interpreter"
	"treelox/lox"
)

// Bad command line usage, following the sysexits convention.
const exitUsage = 64

var (
	app = cli.NewApp()

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file (default $XDG_CONFIG_HOME/treelox/config.toml)",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0 for warnings, 1 for info, 2 for debug",
	}
	colorFlag = cli.StringFlag{
		Name:  "color",
		Usage: "Color diagnostics: auto, always or never",
	}
	diagnosticsFlag = cli.StringFlag{
		Name:  "diagnostics",
		Usage: "Diagnostics format: text or yaml",
	}
	maxCallDepthFlag = cli.IntFlag{
		Name:  "max-call-depth",
		Usage: "Maximum number of nested calls before a stack overflow error",
	}
	cpuProfileFlag = cli.StringFlag{
		Name:   "cpuprofile",
		Usage:  "Write a CPU profile to the file",
		EnvVar: "CPUPROFILE",
	}

	runCommand = cli.Command{
		Action:    runFile,
		Name:      "run",
		Usage:     "Execute a Lox script",
		ArgsUsage: "<file>",
	}
	replCommand = cli.Command{
		Action: runPrompt,
		Name:   "repl",
		Usage:  "Start an interactive session",
	}
	tokensCommand = cli.Command{
		Action:    dumpTokens,
		Name:      "tokens",
		Usage:     "Print the tokens of a Lox script",
		ArgsUsage: "<file>",
	}
	astCommand = cli.Command{
		Action:    dumpAST,
		Name:      "ast",
		Usage:     "Print the resolved syntax tree of a Lox script",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{rawFlag},
	}
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "Dump the Go structures of the syntax tree",
	}
)

// State shared by the commands, set up before any of them runs.
var (
	settings *config.Config
	printer  *diag.Printer
	profile  *os.File
)

// Returned by the commands once diagnostics are printed, main exits with it.
type exitStatus int

func (s exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", int(s))
}

func init() {
	app.Name = "treelox"
	app.Usage = "tree-walking interpreter for the Lox language"
	app.ArgsUsage = "[file]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		colorFlag,
		diagnosticsFlag,
		maxCallDepthFlag,
		cpuProfileFlag,
	}
	app.Commands = []cli.Command{
		runCommand,
		replCommand,
		tokensCommand,
		astCommand,
	}

	app.Before = setup
	app.After = teardown
	app.Action = runDefault
}

func main() {
	if err := app.Run(os.Args); err != nil {
		var status exitStatus
		if errors.As(err, &status) {
			os.Exit(int(status))
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

// Loads the configuration, applies the flags over it, and configures
// logging, diagnostics and profiling.
func setup(ctx *cli.Context) error {
	var err error
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		settings, err = config.Load(file)
	} else {
		settings, err = config.LoadOptional(config.DefaultPath())
	}
	if err != nil {
		return err
	}

	if ctx.GlobalIsSet(verbosityFlag.Name) {
		settings.LogVerbosity = ctx.GlobalInt(verbosityFlag.Name)
	}
	if ctx.GlobalIsSet(colorFlag.Name) {
		settings.Color = ctx.GlobalString(colorFlag.Name)
	}
	if ctx.GlobalIsSet(diagnosticsFlag.Name) {
		settings.Diagnostics = ctx.GlobalString(diagnosticsFlag.Name)
	}
	if ctx.GlobalIsSet(maxCallDepthFlag.Name) {
		settings.MaxCallDepth = ctx.GlobalInt(maxCallDepthFlag.Name)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	var logPath *string
	if settings.LogFile != "" {
		logPath = &settings.LogFile
	}
	commonlog.Configure(settings.LogVerbosity, logPath)

	format, _ := diag.ParseFormat(settings.Diagnostics)
	terminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	printer = diag.NewPrinter(colorable.NewColorableStderr(), format, settings.UseColor(terminal))

	// Start CPU profile if enabled via the flag or the env-var CPUPROFILE.
	if out := ctx.GlobalString(cpuProfileFlag.Name); out != "" {
		profile, err = os.Create(out)
		if err != nil {
			return fmt.Errorf("cannot create profile output file '%v' (%v)", out, err)
		}
		if err := pprof.StartCPUProfile(profile); err != nil {
			return err
		}
	}

	return nil
}

func teardown(ctx *cli.Context) error {
	if profile != nil {
		pprof.StopCPUProfile()
		return profile.Close()
	}
	return nil
}

// Without a command a script is run if given, otherwise the REPL starts.
func runDefault(ctx *cli.Context) error {
	switch ctx.NArg() {
	case 0:
		return runPrompt(ctx)
	case 1:
		return runFile(ctx)
	default:
		return fmt.Errorf("usage: %v [file]", app.Name)
	}
}

func newSession(out io.Writer) *lox.Session {
	return lox.NewSession(out, interpreter.WithMaxCallDepth(settings.MaxCallDepth))
}

func runFile(ctx *cli.Context) error {
	source, err := readScript(ctx)
	if err != nil {
		return err
	}

	_, err = newSession(os.Stdout).Eval(source)
	return report(err)
}

func runPrompt(ctx *cli.Context) error {
	return startREPL(newSession(os.Stdout))
}

// Prints the diagnostics of err, the returned error carries the exit code.
func report(err error) error {
	if err == nil {
		return nil
	}

	if perr := printer.Print(err); perr != nil {
		fmt.Fprintln(os.Stderr, perr)
	}
	return exitStatus(lox.ExitCode(err))
}

func readScript(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one script file")
	}

	path := ctx.Args().First()
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open file '%v' (%v).\n", path, err)
		return "", exitStatus(lox.ExitIOFailed)
	}

	return string(source), nil
}
