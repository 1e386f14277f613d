package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nan-1212/abipy/internal/abinput"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Output string
}

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	Output string `json:"output,omitempty"`
	Text   string `json:"text,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a document as an ABINIT input file",
		Long: `Render a document as ABINIT input text: the comment, the variables in
insertion order and the structure variables (acell, rprim, natom, ntypat,
typat, znucl, xred).

Example:
  abipy render alas.json
  abipy render alas.json -o run.abi`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, newFormatter(rootOpts, cmd), args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the input file here instead of stdout")

	return cmd
}

func runRender(opts *RenderOptions, f *OutputFormatter, path string) error {
	doc, _, err := loadDocument(f, path)
	if err != nil {
		return err
	}

	text, err := abinput.Render(doc.Input)
	if err != nil {
		return f.fail(ErrCodeGeneric, "failed to render document", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(text), 0o644); err != nil {
			return f.fail(ErrCodeWriteFailed, "failed to write output", err)
		}
		f.VerboseLog("Wrote %s", opts.Output)
		if f.Format == "json" {
			return f.Success(RenderResult{Output: opts.Output})
		}
		fmt.Fprintf(f.Writer, "\u2713 Wrote %s\n", opts.Output)
		return nil
	}

	if f.Format == "json" {
		return f.Success(RenderResult{Text: text})
	}
	fmt.Fprint(f.Writer, text)
	return nil
}
