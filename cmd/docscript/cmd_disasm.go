package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/docscript/codegen"
	"github.com/dhamidi/docscript/format"
	"github.com/spf13/cobra"
)

func newDisasmCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:          "disasm [file.dsb]",
		Short:        "Print the listing of a compiled program",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if name := inputArg(args); name == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(name)
			}
			if err != nil {
				return fmt.Errorf("read program: %w", err)
			}

			p, err := codegen.UnmarshalProgram(data)
			if err != nil {
				return err
			}
			enc, err := format.New(outputFormat, os.Stdout)
			if err != nil {
				return err
			}
			return enc.EncodeProgram(p)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "listing", "output format (listing, json)")
	return cmd
}
