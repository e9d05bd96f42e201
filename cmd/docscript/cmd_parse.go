package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/docscript/format"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var flags compileFlags

	cmd := &cobra.Command{
		Use:          "parse [file]",
		Short:        "Parse a document and dump its syntax tree",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.New(outputFormat, os.Stdout)
			if err != nil {
				return err
			}
			opts, _, err := flags.options(cmd)
			if err != nil {
				return err
			}
			res, err := compileFile(inputArg(args), opts)
			if err != nil {
				return err
			}
			if res.Document != nil {
				if err := enc.EncodeDocument(res.Document); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			}
			return report(os.Stderr, res.Diagnostics)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	flags.register(cmd)
	return cmd
}
