package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/docscript/grammar"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "grammar [file]",
		Short: "Print or check the docscript grammar",
		Long: `Without flags the EBNF grammar is printed.

With --check and no file the grammar itself is verified. With --check and a
file the document's symbol stream is matched against the grammar.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !check {
				_, err := os.Stdout.Write(grammar.Source())
				return err
			}

			if len(args) == 0 {
				if err := grammar.Verify(); err != nil {
					printErrors(err)
					return err
				}
				fmt.Println("ok")
				return nil
			}

			res, err := compileFile(args[0], nil)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			if err := grammar.MatchDocument(res.Symbols); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", args[0], err)
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify the grammar, or match a document against it")
	return cmd
}

func printErrors(err error) {
	for _, e := range grammar.Errors(err) {
		fmt.Fprintln(os.Stderr, e)
	}
}
