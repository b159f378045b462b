package cmd

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"minipy/ast"
	"minipy/config"
	"minipy/internals"
	"minipy/interpreter"
	"minipy/lexer"
	"minipy/object"
	"minipy/parser"
	"minipy/repl"
)

type (
	// Invocation carries the streams and the settings shared by every command
	Invocation struct {
		In     io.Reader
		Out    io.Writer
		Err    io.Writer
		Config *config.Config
		Logger *slog.Logger
	}

	// CommandFunc runs a command and returns the process exit code
	CommandFunc func(inv *Invocation, args []string) int

	FlagInfo struct {
		Name        string
		Description string
	}

	CommandInfo struct {
		Description string
		Function    CommandFunc
		Flags       []FlagInfo
	}
)

const defaultCommand = "repl"

var commands map[string]CommandInfo

func init() {
	commands = map[string]CommandInfo{
		"repl": {
			Description: "Starts the interactive interpreter, the default when no command is given",
			Function:    Repl,
			Flags:       []FlagInfo{},
		},
		"run": {
			Description: "Takes the filepath of a program, and executes it",
			Function:    Run,
			Flags: []FlagInfo{
				{
					Name:        "-f",
					Description: "program file path",
				},
			},
		},
		"parse": {
			Description: "Prints the syntax tree of a program without running it",
			Function:    Parse,
			Flags: []FlagInfo{
				{
					Name:        "-f",
					Description: "program file path",
				},
				{
					Name:        "-tokens",
					Description: "print the token stream before the tree",
				},
			},
		},
		"help": {
			Description: "Prints the usage of all commands",
			Function:    Help,
			Flags:       []FlagInfo{},
		},
	}
}

func Help(inv *Invocation, args []string) int {
	if len(args) < 1 {
		// show the whole help catalog
		printResult := "\n\033[1;35mSupported Commands:\033[0m\n\n"

		for _, name := range slices.Sorted(maps.Keys(commands)) {
			cmd := commands[name]
			printResult += fmt.Sprintf("  \033[1;36m%v\033[0m\n", name)
			printResult += fmt.Sprintf("    \033[1;37mDescription:\033[0m \033[0;37m%v\033[0m\n", cmd.Description)

			if len(cmd.Flags) > 0 {
				printResult += "    \033[1;37mFlags:\033[0m\n"
				for _, flag := range cmd.Flags {
					printResult += fmt.Sprintf("      \033[1;33m%v\033[0m - \033[0;37m%v\033[0m\n", flag.Name, flag.Description)
				}
			}
			printResult += "\n"
		}

		printResult += "\033[1;37mGlobal flags:\033[0m\n"
		printResult += "  \033[1;33m-config\033[0m - \033[0;37mpath of a yaml configuration file\033[0m\n"
		printResult += "  \033[1;33m-v\033[0m - \033[0;37mdebug logging on stderr\033[0m\n"

		fmt.Fprintln(inv.Out, printResult)
		return 0
	}

	// print the help of the specified command
	cmdName := args[0]

	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintln(inv.Err, "ERROR: provided command, isn't supported")
		return 1
	}

	printResult := fmt.Sprintf("\n\033[1;35mCommand:\033[0m \033[1;36m%v\033[0m\n", cmdName)
	printResult += fmt.Sprintf("\033[1;37mDescription:\033[0m \033[0;37m%v\033[0m\n", cmd.Description)

	if len(cmd.Flags) > 0 {
		printResult += fmt.Sprintln("\033[1;37mFlags:\033[0m")
		for _, flag := range cmd.Flags {
			printResult += fmt.Sprintf("  \033[1;33m%v\033[0m - \033[0;37m%v\033[0m\n", flag.Name, flag.Description)
		}
	} else {
		printResult += "\033[0;37m(No flags available)\033[0m\n"
	}

	fmt.Fprintln(inv.Out, printResult)
	return 0
}

func Repl(inv *Invocation, args []string) int {
	fs := newFlagSet("repl", inv)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	opts := inv.Config.REPLOptions(inv.Logger)

	var reader repl.LineReader
	if in, out, ok := terminal(inv); ok {
		tr := repl.NewTerminalReader(inv.Config.HistoryPath())
		defer tr.Close()
		reader = tr
		inv.Logger.Debug("terminal session", "in", in.Name(), "out", out.Name())
	} else {
		// piped sessions only carry the prompt protocol
		opts.Banner = ""
		reader = repl.NewScannerReader(inv.In, inv.Out)
	}

	if err := repl.Start(reader, inv.Out, inv.Err, opts); err != nil {
		fmt.Fprintf(inv.Err, "ERROR: %v\n", err)
		return 1
	}
	return 0
}

func terminal(inv *Invocation) (*os.File, *os.File, bool) {
	in, ok := inv.In.(*os.File)
	if !ok {
		return nil, nil, false
	}
	out, ok := inv.Out.(*os.File)
	if !ok {
		return nil, nil, false
	}
	return in, out, repl.IsTerminal(in, out)
}

func Run(inv *Invocation, args []string) int {
	fs := newFlagSet("run", inv)
	fileTarget := fs.String("f", "", "program file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	content, ok := readProgram(inv, *fileTarget)
	if !ok {
		return 1
	}

	program, err := parser.ParseString(*fileTarget, content)
	if err != nil {
		fmt.Fprintln(inv.Err, internals.WithSource(err, content))
		return 1
	}

	interp := interpreter.NewInterpreter(nil, interpreter.WithLogger(inv.Logger))
	for _, stmt := range program.Statements {
		value, err := interp.RunStatement(stmt)
		if err != nil {
			fmt.Fprintln(inv.Err, internals.WithSource(err, content))
			return 1
		}

		// echo bare expressions the way the interactive session does
		if _, ok := stmt.(*ast.ExpressionStatement); ok && value != nil && value != object.NONE {
			fmt.Fprintln(inv.Out, value.Inspect())
		}
	}

	inv.Logger.Debug("program finished", "file", *fileTarget, "names", interp.Env().Names())
	return 0
}

func Parse(inv *Invocation, args []string) int {
	fs := newFlagSet("parse", inv)
	fileTarget := fs.String("f", "", "program file path")
	showTokens := fs.Bool("tokens", false, "print the token stream before the tree")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	content, ok := readProgram(inv, *fileTarget)
	if !ok {
		return 1
	}

	tokens, err := lexer.NewLexer(*fileTarget, content).Tokenize()
	if err != nil {
		fmt.Fprintln(inv.Err, internals.WithSource(err, content))
		return 1
	}

	if *showTokens {
		for _, tok := range tokens {
			fmt.Fprintf(inv.Out, "%d:%d\t%-12s %q\n", tok.Row, tok.Col, tok.Kind, tok.Text)
		}
		fmt.Fprintln(inv.Out)
	}

	program, err := parser.NewParser(tokens).Parse()
	if err != nil {
		fmt.Fprintln(inv.Err, internals.WithSource(err, content))
		return 1
	}

	for _, stmt := range program.Statements {
		fmt.Fprintln(inv.Out, stmt.String())
	}
	return 0
}

func readProgram(inv *Invocation, fileTarget string) (string, bool) {
	if len(fileTarget) <= 0 {
		fmt.Fprintln(inv.Err, "ERROR: provide the filepath flag -f to assign the path to it")
		return "", false
	}

	byteContent, err := os.ReadFile(fileTarget)
	if err != nil {
		fmt.Fprintf(inv.Err, "ERROR: %v\n", err)
		return "", false
	}
	return string(byteContent), true
}

func newFlagSet(name string, inv *Invocation) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(inv.Err)
	return fs
}

// Dispatch parses the global flags, loads the configuration and runs the
// named command. No command starts the interactive session.
func Dispatch(args []string, in io.Reader, out, errOut io.Writer) int {
	inv := &Invocation{In: in, Out: out, Err: errOut}

	fs := newFlagSet("minipy", inv)
	configPath := fs.String("config", "", "path of a yaml configuration file")
	verbose := fs.Bool("v", false, "debug logging on stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	inv.Config = config.Default()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(errOut, "ERROR: %v\n", err)
			return 1
		}
		inv.Config = cfg
	}
	if *verbose {
		inv.Config.Log.Level = "debug"
	}
	inv.Logger = inv.Config.NewLogger(errOut)

	name := defaultCommand
	rest := fs.Args()
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(errOut, "ERROR: unknown command %v, check help for manual.\n", name)
		return 2
	}

	inv.Logger.Debug("running command", "name", name, "args", rest)
	return cmd.Function(inv, rest)
}

func Execute() int {
	return Dispatch(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
