package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"transdex/internal/config"
	"transdex/internal/convertor/registry"
	"transdex/internal/domain"
	"transdex/internal/index"
	"transdex/internal/ports"
	"transdex/internal/server"
	"transdex/internal/store/sqlite"
)

type Command interface {
	Run(config.Config)
}

type CommandFunc func(config.Config)

func (f CommandFunc) Run(c config.Config) {
	f(c)
}

const (
	cmdMissing      = "missing"
	cmdUnrecognised = "unrecognised"
	cmdHelp         = "help"
	cmdInitDb       = "init-db"
	cmdFormats      = "formats"
	cmdNew          = "new"
	cmdList         = "list"
	cmdImport       = "import"
	cmdExport       = "export"
	cmdServe        = "serve"
)

// Gets list of available commands
func availableCommands() []string {
	return []string{cmdHelp, cmdInitDb, cmdFormats, cmdNew, cmdList, cmdImport, cmdExport, cmdServe}
}

func openStore(c config.Config) *sqlite.Store {
	store, err := sqlite.Open(c.DB.File)
	checkFatal(err)
	return store
}

// initDb initializes the database with all necessary tables.
func initDb(c config.Config) {
	store := openStore(c)
	defer store.Close()
	fmt.Println("Database ready at", c.DB.File)
}

// listFormats prints the registered format tags and their descriptions.
func listFormats(c config.Config) {
	for _, info := range registry.Info() {
		fmt.Printf("%s:\n%s\n\n", info[0], info[1])
	}
}

// newIndexCommand binds a translation file as a new index.
func newIndexCommand(args []string) CommandFunc {
	fs := flag.NewFlagSet(cmdNew, flag.ExitOnError)
	file := fs.String("file", "", "Path to the translation file")
	ftype := fs.String("type", "", "Format tag (see the formats command)")
	nickname := fs.String("name", "", "Nickname for the index (defaults to the file name)")
	tag := fs.String("tag", "", "Tag for the index (defaults to v1)")
	return func(c config.Config) {
		checkFatal(fs.Parse(args))
		store := openStore(c)
		defer store.Close()
		idx, err := index.FromFile(store, *file, *ftype, *nickname, *tag)
		checkFatal(err)
		checkFatal(idx.Save(context.Background()))
		fmt.Printf("Created index %v (%s:%s) for %s\n", idx.DocID(), idx.Nickname(), idx.Tag(), idx.Project().FilePath)
	}
}

// listIndexes prints every stored index with its statistics.
func listIndexes(c config.Config) {
	store := openStore(c)
	defer store.Close()
	var docs []*domain.IndexDoc
	err := store.WithSession(context.Background(), func(s ports.Session) error {
		var err error
		docs, err = s.ListIndexes()
		return err
	})
	checkFatal(err)
	if len(docs) == 0 {
		fmt.Println("No indexes yet. Use the new command to bind a translation file.")
		return
	}
	for _, d := range docs {
		var stats []string
		for lang, st := range d.Stats {
			stats = append(stats, fmt.Sprintf("%s %d/%d", lang, st.Translated, st.Total))
		}
		statsText := "no translations imported"
		if len(stats) > 0 {
			statsText = strings.Join(stats, ", ")
		}
		fmt.Printf("%4d  %s:%s  [%s]  %s  (%s)\n", d.DocID, d.Nickname, d.Tag, d.Project.FileType, d.Project.FilePath, statsText)
	}
}

// importCommand imports one language from an index's bound file.
func importCommand(args []string) CommandFunc {
	fs := flag.NewFlagSet(cmdImport, flag.ExitOnError)
	id := fs.Int64("id", 0, "Index id (see the list command)")
	lang := fs.String("lang", "", "Language to import")
	return func(c config.Config) {
		checkFatal(fs.Parse(args))
		store := openStore(c)
		defer store.Close()
		idx, err := index.Load(context.Background(), store, *id)
		checkFatal(err)
		checkFatal(idx.ImportTranslations(context.Background(), *lang, index.DefaultOptions()))
	}
}

// exportCommand exports one language back into the bound file's format.
func exportCommand(args []string) CommandFunc {
	fs := flag.NewFlagSet(cmdExport, flag.ExitOnError)
	id := fs.Int64("id", 0, "Index id (see the list command)")
	lang := fs.String("lang", "", "Language to export")
	all := fs.Bool("all", false, "Include untranslated entries, falling back to the original text")
	return func(c config.Config) {
		checkFatal(fs.Parse(args))
		store := openStore(c)
		defer store.Close()
		idx, err := index.Load(context.Background(), store, *id)
		checkFatal(err)
		opts := index.DefaultOptions()
		opts.TranslatedOnly = c.Export.TranslatedOnly && !*all
		checkFatal(idx.ExportTranslations(context.Background(), *lang, opts))
	}
}

// serve starts the HTTP JSON API.
func serve(c config.Config) {
	store := openStore(c)
	defer store.Close()
	checkFatal(server.New(store, c).Serve())
}

// Prints a normal usage message.
func printUsage(c config.Config) {
	fmt.Fprintf(os.Stderr, "Commands: %v\n\n", strings.Join(availableCommands(), ", "))
	flag.PrintDefaults()
}

// Prints a usage message indicating that a command must be given.
func printMissingCommandUsage(c config.Config) {
	fmt.Fprintf(os.Stderr, "No command given. Command can be one of: %v\n\n", strings.Join(availableCommands(), ", "))
	printUsage(c)
}

// Prints a usage message indicating that the given command was not recognised.
func printUnrecognisedCommandUsage(cmd string) CommandFunc {
	return func(c config.Config) {
		fmt.Fprintf(os.Stderr, "Command '%v' not recognised. Command must be one of: %v\n\n", cmd, strings.Join(availableCommands(), ", "))
		printUsage(c)
	}
}
