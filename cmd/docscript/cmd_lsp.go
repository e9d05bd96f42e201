package main

import (
	"github.com/dhamidi/docscript/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var flags compileFlags

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return lsp.NewServer(version, opts...).RunStdio()
		},
	}

	flags.register(cmd)
	return cmd
}
