package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/docscript/codegen"
	"github.com/dhamidi/docscript/format"
	"github.com/spf13/cobra"
)

func newCompileCmd() *cobra.Command {
	var output string
	var outputFormat string
	var flags compileFlags

	cmd := &cobra.Command{
		Use:          "compile [file]",
		Short:        "Compile a document to a program",
		Long:         "Compile a document. With -o the program is written in its binary form, otherwise a listing is printed.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := flags.options(cmd)
			if err != nil {
				return err
			}
			res, err := compileFile(inputArg(args), opts)
			if err != nil {
				return err
			}
			if err := report(os.Stderr, res.Diagnostics); err != nil {
				return err
			}

			if output != "" {
				data, err := codegen.MarshalProgram(res.Program)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write program: %w", err)
				}
				return nil
			}

			enc, err := format.New(outputFormat, os.Stdout)
			if err != nil {
				return err
			}
			if err := enc.EncodeProgram(res.Program); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the binary program to this file")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "listing", "listing format when not writing a file (listing, json)")
	flags.register(cmd)
	return cmd
}
