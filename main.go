/*
A tool for managing translation strings extracted from game text files. It
imports translations from third-party "translation memory" files into a
language-keyed SQLite index and re-exports edited translations back into the
same formats.

Program settings live in an optional TOML config file; by default the program
looks for 'transdex.toml' in the working directory.

The program must be run with a 'command' argument to indicate what you would
like it to do. Available commands are:

  - init-db: Creates the database and applies pending migrations.
  - formats: Lists the supported translation file formats.
  - new:     Binds a translation file as a new index.
  - list:    Lists the stored indexes with their statistics.
  - import:  Imports one language from an index's bound file.
  - export:  Exports one language back into the bound file's format.
  - serve:   Starts an HTTP server providing a JSON API over the indexes.
  - help:    Prints usage instructions.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"transdex/internal/config"
)

var configPath string

func init() {
	defaultConfigPath := filepath.FromSlash("./transdex.toml")
	flag.StringVar(&configPath, "config", defaultConfigPath, "Full `path` and file name to the config file")
}

func checkFatal(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Converts os.Args to one of the cmd* constants.
func parseArgs(args []string) (command string, rest []string) {
	if len(args) < 1 {
		return cmdMissing, nil
	}
	for _, c := range availableCommands() {
		if args[0] == c {
			return c, args[1:]
		}
	}
	return cmdUnrecognised, nil
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configPath)
	checkFatal(err)

	command, rest := parseArgs(flag.Args())

	var cmd Command
	switch command {
	case cmdHelp:
		cmd = CommandFunc(printUsage)
	case cmdInitDb:
		cmd = CommandFunc(initDb)
	case cmdFormats:
		cmd = CommandFunc(listFormats)
	case cmdNew:
		cmd = newIndexCommand(rest)
	case cmdList:
		cmd = CommandFunc(listIndexes)
	case cmdImport:
		cmd = importCommand(rest)
	case cmdExport:
		cmd = exportCommand(rest)
	case cmdServe:
		cmd = CommandFunc(serve)
	case cmdMissing:
		cmd = CommandFunc(printMissingCommandUsage)
	default:
		cmd = printUnrecognisedCommandUsage(strings.Join(flag.Args(), " "))
	}

	cmd.Run(cfg)
}
