/*
Llgramctl is the companion driver for the llgrammar library: it reads a
context-free grammar's production rules, analyzes it, and prints or serves
the result.

Usage:

	llgramctl [flags] <subcommand> [args]

The subcommands are:

	run
		Read a rule count followed by that many rule lines from stdin,
		then print a colorized summary and the rendered FIRST/FOLLOW/LL(1)
		table.

	check <tokens...>
		Read a grammar from stdin the same way `run` does, then recognize
		the given whitespace-separated tokens against it and print
		accept/reject.

	serve
		Start the HTTP API over a persisted session store.

	save <name>
		Read a grammar from stdin and persist it under the given name.

	load <name>
		Print the persisted summary for a previously saved session,
		without re-running the analyzer.

The flags are:

	-c, --config FILE
		Load CLI defaults (color, output format, data directory, listen
		address) from a TOML file.

	-i, --interactive
		Enter rules and queries one at a time in a readline-backed REPL
		instead of reading a count-prefixed batch from stdin.

	--color
		Force colorized output on or off, overriding the config file.

	--format text|html
		Table rendering format for `run`.
*/
package main

import (
	"fmt"
	"os"

	"github.com/kvarga/llgrammar/internal/config"
	"github.com/kvarga/llgrammar/internal/version"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitAnalysisError
	ExitServerError
)

var (
	returnCode = ExitSuccess

	flagConfig      = pflag.StringP("config", "c", "", "Load CLI defaults from the given TOML file")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Enter rules and queries one at a time in a REPL instead of reading a batch from stdin")
	flagColor       = pflag.Bool("color", true, "Force colorized output on or off")
	flagFormat      = pflag.String("format", "", "Table rendering format for run: text or html")
	flagAddr        = pflag.String("addr", "", "Listen address for serve")
	flagDataDir     = pflag.String("data", "", "Directory holding the session store's database file")
	flagAdminKey    = pflag.String("admin-key", "", "Admin secret required to mint API bearer tokens")
	flagVersion     = pflag.BoolP("version", "v", false, "Print the version and exit")
)

func main() {
	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(os.Stderr, "unrecoverable panic: %v\n", p)
			os.Exit(ExitAnalysisError)
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: expected a subcommand: run, check, serve, save, or load")
		returnCode = ExitUsageError
		return
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}
	if pflag.CommandLine.Changed("color") {
		cfg.Color = *flagColor
	}
	if *flagFormat != "" {
		cfg.OutputFormat = *flagFormat
	}
	if *flagDataDir != "" {
		cfg.DataDir = *flagDataDir
	}
	if *flagAddr != "" {
		cfg.ListenAddr = *flagAddr
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "run":
		err = runCommand(cfg)
	case "check":
		err = checkCommand(cfg, rest)
	case "serve":
		err = serveCommand(cfg)
	case "save":
		err = saveCommand(cfg, rest)
	case "load":
		err = loadCommand(cfg, rest)
	default:
		fmt.Fprintf(os.Stderr, "ERROR: unknown subcommand %q\n", sub)
		returnCode = ExitUsageError
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitAnalysisError
	}
}
