package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/docscript/codegen"
	"github.com/dhamidi/docscript/compile"
	"github.com/dhamidi/docscript/config"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var flags compileFlags

	cmd := &cobra.Command{
		Use:          "build",
		Short:        "Compile every document of the project",
		Long:         "Compile every " + config.Extension + " file below the source directories of the nearest " + config.FileName + " into its output directory.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if cfg == nil {
				return fmt.Errorf("no %s found", config.FileName)
			}

			files, err := cfg.SourceFiles()
			if err != nil {
				return err
			}

			failed := 0
			for _, src := range files {
				if err := buildFile(cfg, src, opts); err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", src, err)
					failed++
				}
			}
			fmt.Fprintf(os.Stderr, "built %d of %d documents\n", len(files)-failed, len(files))
			if failed > 0 {
				return errors.New("build failed")
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func buildFile(cfg *config.Config, src string, opts []compile.Option) error {
	res, err := compileFile(src, opts)
	if err != nil {
		return err
	}
	if err := report(os.Stderr, res.Diagnostics); err != nil {
		return err
	}

	data, err := codegen.MarshalProgram(res.Program)
	if err != nil {
		return err
	}
	out := cfg.OutputPath(src)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return os.WriteFile(out, data, 0o644)
}
