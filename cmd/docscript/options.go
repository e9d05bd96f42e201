package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/docscript/codegen"
	"github.com/dhamidi/docscript/compile"
	"github.com/dhamidi/docscript/config"
	"github.com/dhamidi/docscript/diag"
	"github.com/dhamidi/docscript/directive"
	"github.com/spf13/cobra"
)

// compileFlags are the compiler settings shared by every command that runs
// the pipeline. Flags given on the command line win over docscript.toml.
type compileFlags struct {
	meta       bool
	index      bool
	directives string
	maxDepth   int
}

func (f *compileFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.meta, "meta", false, "emit a generate.meta call")
	cmd.Flags().BoolVar(&f.index, "index", false, "emit a generate.index call")
	cmd.Flags().StringVar(&f.directives, "directives", "", "TOML file with extra directive definitions")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "maximum nesting depth (0 uses the default)")
}

// options resolves the flags against the project configuration found from
// the working directory.
func (f *compileFlags) options(cmd *cobra.Command) ([]compile.Option, *config.Config, error) {
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		return nil, nil, err
	}

	var c config.Compile
	if cfg != nil {
		c = cfg.Compile
	}
	if cmd.Flags().Changed("meta") {
		c.Meta = f.meta
	}
	if cmd.Flags().Changed("index") {
		c.Index = f.index
	}
	if cmd.Flags().Changed("max-depth") {
		c.MaxDepth = f.maxDepth
	}

	tbl, err := cfg.DirectiveTable()
	if err != nil {
		return nil, nil, err
	}
	if f.directives != "" {
		extra, err := directive.LoadFile(f.directives)
		if err != nil {
			return nil, nil, err
		}
		tbl.Merge(extra)
	}

	opts := []compile.Option{
		compile.WithDirectives(tbl),
		compile.WithFlags(codegen.Flags{Meta: c.Meta, Index: c.Index}),
	}
	if c.MaxDepth > 0 {
		opts = append(opts, compile.WithMaxDepth(c.MaxDepth))
	}
	return opts, cfg, nil
}

// compileFile compiles filename, or standard input when it is "-".
func compileFile(filename string, opts []compile.Option) (*compile.Result, error) {
	var r io.Reader = os.Stdin
	if filename != "-" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		defer f.Close()
		r = f
	} else {
		filename = "<stdin>"
	}
	return compile.Source(filename, r, opts...)
}

// report prints diagnostics and turns errors among them into a command
// failure.
func report(w io.Writer, list []diag.Diagnostic) error {
	errs := 0
	for _, d := range list {
		fmt.Fprintln(w, d)
		if d.Severity == diag.Error {
			errs++
		}
	}
	if errs > 0 {
		return fmt.Errorf("%d error(s)", errs)
	}
	return nil
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
