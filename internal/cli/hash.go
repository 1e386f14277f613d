package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nan-1212/abipy/internal/fixture"
)

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <document>",
		Short: "Print the content identities of a document",
		Long: `Print the content identities of a document: the document id (whole
re-encoded document), the structure id and the input id (variables and
tags). Identities are SHA-256 over canonical JSON and do not depend on key
order or number spelling.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(newFormatter(rootOpts, cmd), args[0])
		},
	}

	return cmd
}

func runHash(f *OutputFormatter, path string) error {
	doc, _, err := loadDocument(f, path)
	if err != nil {
		return err
	}

	id, err := fixture.Identify(doc)
	if err != nil {
		return f.fail(ErrCodeGeneric, "failed to hash document", err)
	}

	if f.Format == "json" {
		return f.Success(id)
	}
	fmt.Fprintf(f.Writer, "document:  %s\n", id.Document)
	fmt.Fprintf(f.Writer, "structure: %s\n", id.Structure)
	fmt.Fprintf(f.Writer, "input:     %s\n", id.Input)
	return nil
}
