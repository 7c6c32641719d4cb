// Package main provides the CLI entrypoint for unionbind.
//
// unionbind generates dispatch functions for sealed-interface unions:
//   - Reads //bind:union, //bind:query and //bind:case directives
//   - Merges optional bind.yaml binding tables, scaffolded by the table command
//   - Validates every query against the variants' cases
//   - Writes one <union>_bind.go file per union
//
// Typical use is a go:generate line next to the union:
//
//	//go:generate go tool unionbind gen
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"unionbind/internal/config"
	"unionbind/internal/diagnostic"
	"unionbind/internal/driver"
)

// errReported means diagnostics were printed and the exit status is 1.
var errReported = errors.New("errors reported")

// Globals are the flags shared by every command. Non-empty values
// override the config file.
type Globals struct {
	Config   string `help:"Config file (default .unionbind.yaml when present)." short:"c" type:"path"`
	LogLevel string `help:"Log level: trace, debug, info, warn or error." name:"log-level"`
	Suffix   string `help:"Suffix of generated file names."`
	Table    string `help:"Binding table file name looked up in package directories."`
}

type CLI struct {
	Globals

	Gen     GenCmd     `cmd:"" help:"Generate dispatch functions."`
	Check   CheckCmd   `cmd:"" help:"Validate directives and tables without writing files."`
	Tables  TableCmd   `cmd:"" name:"table" help:"Write a binding table listing every union and variant."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type GenCmd struct {
	Patterns []string `arg:"" optional:"" help:"Package patterns (default .)."`
}

func (c *GenCmd) Run(g *Globals) error {
	return run(g, c.Patterns, true, os.Stderr)
}

type CheckCmd struct {
	Patterns []string `arg:"" optional:"" help:"Package patterns (default .)."`
}

func (c *CheckCmd) Run(g *Globals) error {
	return run(g, c.Patterns, false, os.Stderr)
}

type TableCmd struct {
	Patterns []string `arg:"" optional:"" help:"Package patterns (default .)."`
	Force    bool     `help:"Overwrite existing binding tables."`
}

func (c *TableCmd) Run(g *Globals) error {
	cfg, err := g.settings()
	if err != nil {
		return err
	}

	_, err = driver.WriteTables(driver.TableOptions{
		Patterns: c.Patterns,
		Table:    cfg.Table,
		Force:    c.Force,
	}, newLogger(cfg, os.Stderr))

	return err
}

// settings loads the config file and applies the flag overrides.
func (g *Globals) settings() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}

	if g.Suffix != "" {
		cfg.Suffix = g.Suffix
	}

	if g.Table != "" {
		cfg.Table = g.Table
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func run(g *Globals, patterns []string, write bool, stderr io.Writer) error {
	cfg, err := g.settings()
	if err != nil {
		return err
	}

	report, err := driver.Run(driver.Options{
		Patterns:  patterns,
		Table:     cfg.Table,
		Write:     write,
		Generator: cfg.Generator(),
	}, newLogger(cfg, stderr))
	if err != nil {
		return err
	}

	printDiagnostics(stderr, report.Diagnostics)

	if report.Diagnostics.HasErrors() {
		return errReported
	}

	return nil
}

func newLogger(cfg *config.Config, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(cfg.Level())

	return log
}

func printDiagnostics(w io.Writer, d diagnostic.Diagnostics) {
	for _, e := range d.Errors {
		fmt.Fprintln(w, e.String())
	}

	for _, e := range d.Warnings {
		fmt.Fprintln(w, "warning: "+e.String())
	}
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("unionbind"),
		kong.Description("Generate dispatch functions for sealed-interface unions."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli.Globals)
	if errors.Is(err, errReported) {
		os.Exit(1)
	}

	ctx.FatalIfErrorf(err)
}
