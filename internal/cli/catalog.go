package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nan-1212/abipy/internal/fixture"
	"github.com/nan-1212/abipy/internal/format"
	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/queryir"
	"github.com/nan-1212/abipy/internal/store"
)

// EnvDatabase names the environment variable holding the default catalog
// path.
const EnvDatabase = "ABIPY_DB"

// CatalogOptions holds flags shared by the catalog subcommands.
type CatalogOptions struct {
	*RootOptions
	Database string
}

// FindOptions holds the filters of catalog find.
type FindOptions struct {
	*CatalogOptions
	Tags     []string
	Elements []string
	Class    string
	Formula  string
	MinSites int
	MD5      string
	Limit    int
}

// AddResult is the JSON payload of catalog add.
type AddResult struct {
	ImportID string      `json:"import_id"`
	Added    []AddedItem `json:"documents"`
}

// AddedItem reports one document of an add.
type AddedItem struct {
	Path     string `json:"path"`
	ID       string `json:"id"`
	Formula  string `json:"formula"`
	Inserted bool   `json:"inserted"`
}

// ShowResult is the JSON payload of catalog show.
type ShowResult struct {
	ID          string            `json:"id"`
	Class       string            `json:"class"`
	Formula     string            `json:"formula"`
	FullFormula string            `json:"full_formula"`
	NumSites    int               `json:"nsites"`
	Comment     *string           `json:"comment"`
	StructureID string            `json:"structure_id"`
	InputID     string            `json:"input_id"`
	ImportID    string            `json:"import_id"`
	Tags        []string          `json:"tags"`
	Elements    []string          `json:"elements"`
	Pseudos     []store.PseudoRef `json:"pseudos"`
	Document    json.RawMessage   `json:"document"`
}

// NewCatalogCommand creates the catalog command and its subcommands.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Store and query documents in a SQLite catalog",
		Long: `Store validated documents in a SQLite catalog keyed by content id and
query them by tag, element, formula, class, size or pseudopotential md5.

The database is taken from --db, or from $ABIPY_DB when the flag is not set.

Example:
  abipy catalog add --db ./abipy.db alas.json gaas.json
  abipy catalog find --db ./abipy.db --tag DFPT --element As
  abipy catalog show --db ./abipy.db 3f2a`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $ABIPY_DB)")

	cmd.AddCommand(newCatalogAddCommand(opts))
	cmd.AddCommand(newCatalogListCommand(opts))
	cmd.AddCommand(newCatalogFindCommand(opts))
	cmd.AddCommand(newCatalogShowCommand(opts))
	cmd.AddCommand(newCatalogPseudosCommand(opts))
	cmd.AddCommand(newCatalogImportsCommand(opts))

	return cmd
}

// databasePath returns the --db flag, falling back to $ABIPY_DB.
func (o *CatalogOptions) databasePath() string {
	if o.Database != "" {
		return o.Database
	}
	return os.Getenv(EnvDatabase)
}

// openCatalog opens the catalog database, reporting failures through f.
func openCatalog(opts *CatalogOptions, f *OutputFormatter) (*store.Store, error) {
	path := opts.databasePath()
	if path == "" {
		return nil, f.fail(ErrCodeCatalog, "no database: set --db or $"+EnvDatabase, nil)
	}
	f.VerboseLog("Opening catalog %s", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, f.fail(ErrCodeCatalog, "failed to open database", err)
	}
	return st, nil
}

func newCatalogAddCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <document>...",
		Short: "Validate documents and add them to the catalog",
		Long: `Validate documents and add them to the catalog as one import.

Every document is validated before anything is written; if one is invalid
nothing is added. Documents already in the catalog are left untouched.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogAdd(opts, cmd, args)
		},
	}
}

func runCatalogAdd(opts *CatalogOptions, cmd *cobra.Command, paths []string) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	docs := make([]*fixture.Document, len(paths))
	for i, p := range paths {
		doc, _, err := loadDocument(f, p)
		if err != nil {
			return err
		}
		if errs := fixture.Validate(doc); len(errs) > 0 {
			f.VerboseLog("%s is invalid", p)
			return outputValidationErrors(f, errs)
		}
		docs[i] = doc
	}

	st, err := openCatalog(opts, f)
	if err != nil {
		return err
	}
	defer st.Close()

	imp, err := st.BeginImport(ctx, strings.Join(paths, ","))
	if err != nil {
		return f.fail(ErrCodeCatalog, "failed to begin import", err)
	}

	result := AddResult{ImportID: imp.ID, Added: make([]AddedItem, 0, len(docs))}
	for i, doc := range docs {
		rec, err := store.NewRecord(doc.Input)
		if err != nil {
			return f.fail(ErrCodeCatalog, "failed to index "+paths[i], err)
		}
		inserted, err := st.PutDocument(ctx, imp.ID, rec)
		if err != nil {
			return f.fail(ErrCodeCatalog, "failed to store "+paths[i], err)
		}
		result.Added = append(result.Added, AddedItem{
			Path:     paths[i],
			ID:       rec.ID,
			Formula:  rec.Formula,
			Inserted: inserted,
		})
	}

	if f.Format == "json" {
		return f.Success(result)
	}
	for _, a := range result.Added {
		state := "added"
		if !a.Inserted {
			state = "already present"
		}
		fmt.Fprintf(f.Writer, "\u2713 %s %s %s (%s)\n", shortID(a.ID), a.Formula, a.Path, state)
	}
	return nil
}

func newCatalogListCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List catalogued documents",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogQuery(opts, cmd, queryir.Select{})
		},
	}
}

func newCatalogFindCommand(parent *CatalogOptions) *cobra.Command {
	opts := &FindOptions{CatalogOptions: parent}

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find documents matching every given filter",
		Long: `Find documents matching every given filter. Repeated --tag and --element
flags must all match.

Example:
  abipy catalog find --tag DFPT --tag PH_Q_PERT
  abipy catalog find --element Al --min-sites 2 --limit 10
  abipy catalog find --md5 E1B4E2A1F8A9B5C3D7E6F5A4B3C2D1E0`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogQuery(parent, cmd, opts.query())
		},
	}

	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "document carries this tag")
	cmd.Flags().StringArrayVar(&opts.Elements, "element", nil, "structure contains this element")
	cmd.Flags().StringVar(&opts.Class, "class", "", "document @class")
	cmd.Flags().StringVar(&opts.Formula, "formula", "", "reduced formula, e.g. AlAs")
	cmd.Flags().IntVar(&opts.MinSites, "min-sites", 0, "at least this many sites")
	cmd.Flags().StringVar(&opts.MD5, "md5", "", "references a pseudopotential with this md5")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "return at most this many documents (0 means no limit)")

	return cmd
}

// query builds the catalog query for the set flags.
func (o *FindOptions) query() queryir.Query {
	var preds []queryir.Predicate
	for _, t := range o.Tags {
		preds = append(preds, queryir.HasTag{Tag: t})
	}
	for _, e := range o.Elements {
		preds = append(preds, queryir.HasElement{Symbol: e})
	}
	if o.Class != "" {
		preds = append(preds, queryir.ClassIs{Class: o.Class})
	}
	if o.Formula != "" {
		preds = append(preds, queryir.FormulaIs{Formula: o.Formula})
	}
	if o.MinSites != 0 {
		preds = append(preds, queryir.MinSites{N: o.MinSites})
	}
	if o.MD5 != "" {
		preds = append(preds, queryir.HasPseudo{MD5: o.MD5})
	}

	sel := queryir.Select{Limit: o.Limit}
	switch len(preds) {
	case 0:
	case 1:
		sel.Filter = preds[0]
	default:
		sel.Filter = queryir.And{Predicates: preds}
	}
	return sel
}

func runCatalogQuery(opts *CatalogOptions, cmd *cobra.Command, q queryir.Query) error {
	f := newFormatter(opts.RootOptions, cmd)

	if errs := queryir.Validate(q); len(errs) > 0 {
		return f.fail(ErrCodeGeneric, "invalid query", errors.Join(errs...))
	}

	st, err := openCatalog(opts, f)
	if err != nil {
		return err
	}
	defer st.Close()

	docs, err := st.Find(cmd.Context(), q)
	if err != nil {
		return f.fail(ErrCodeCatalog, "query failed", err)
	}

	if f.Format == "json" {
		return f.Success(docs)
	}
	if len(docs) == 0 {
		fmt.Fprintln(f.Writer, "No documents found.")
		return nil
	}
	t := format.NewTable(format.ASCII)
	t.Header("id", "formula", "nsites", "class", "import")
	t.AlignColumns(map[int]format.Align{3: format.AlignRight})
	for _, d := range docs {
		t.Row(shortID(d.ID), d.Formula, d.NumSites, d.Class, shortID(d.ImportID))
	}
	fmt.Fprintln(f.Writer, t.String())
	return nil
}

func newCatalogShowCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-prefix>",
		Short: "Show a catalogued document",
		Long: `Show a catalogued document and its search keys. Any unique prefix of the
document id is accepted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogShow(opts, cmd, args[0])
		},
	}
}

func runCatalogShow(opts *CatalogOptions, cmd *cobra.Command, prefix string) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	st, err := openCatalog(opts, f)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.ResolveID(ctx, prefix)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return f.fail(ErrCodeNotFound, fmt.Sprintf("no document with id %s", prefix), nil)
	case errors.Is(err, store.ErrAmbiguous):
		return f.fail(ErrCodeGeneric, fmt.Sprintf("id prefix %s matches several documents", prefix), nil)
	case err != nil:
		return f.fail(ErrCodeCatalog, "lookup failed", err)
	}

	rec, err := st.GetDocument(ctx, id)
	if err != nil {
		return f.fail(ErrCodeCatalog, "lookup failed", err)
	}
	if f.Format == "json" {
		return f.Success(ShowResult{
			ID:          rec.ID,
			Class:       rec.Class,
			Formula:     rec.Formula,
			FullFormula: rec.FullFormula,
			NumSites:    rec.NumSites,
			Comment:     rec.Comment,
			StructureID: rec.StructureID,
			InputID:     rec.InputID,
			ImportID:    rec.ImportID,
			Tags:        rec.Tags,
			Elements:    rec.Elements,
			Pseudos:     rec.Pseudos,
			Document:    json.RawMessage(rec.Canonical),
		})
	}

	w := f.Writer
	fmt.Fprintf(w, "id:           %s\n", rec.ID)
	fmt.Fprintf(w, "class:        %s.%s\n", rec.Module, rec.Class)
	fmt.Fprintf(w, "formula:      %s (%s)\n", rec.Formula, rec.FullFormula)
	fmt.Fprintf(w, "sites:        %d\n", rec.NumSites)
	if rec.Comment != nil {
		fmt.Fprintf(w, "comment:      %s\n", *rec.Comment)
	}
	fmt.Fprintf(w, "structure_id: %s\n", rec.StructureID)
	fmt.Fprintf(w, "input_id:     %s\n", rec.InputID)
	fmt.Fprintf(w, "import:       %s\n", rec.ImportID)
	fmt.Fprintf(w, "tags:         %s\n", strings.Join(rec.Tags, ", "))
	fmt.Fprintf(w, "elements:     %s\n", strings.Join(rec.Elements, ", "))
	for _, p := range rec.Pseudos {
		fmt.Fprintf(w, "pseudo:       %s %s %s\n", p.Symbol, p.Basename, p.MD5)
	}
	doc, err := ir.Unmarshal([]byte(rec.Canonical))
	if err != nil {
		return f.fail(ErrCodeCatalog, "stored document is corrupt", err)
	}
	pretty, err := ir.MarshalIndent(doc, "", "  ")
	if err != nil {
		return f.fail(ErrCodeGeneric, "failed to format document", err)
	}
	fmt.Fprintf(w, "\n%s\n", pretty)
	return nil
}

func newCatalogPseudosCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "pseudos <md5>",
		Short:         "List the documents referencing a pseudopotential",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts.RootOptions, cmd)
			st, err := openCatalog(opts, f)
			if err != nil {
				return err
			}
			defer st.Close()

			refs, err := st.PseudosByMD5(cmd.Context(), args[0])
			if err != nil {
				return f.fail(ErrCodeCatalog, "query failed", err)
			}
			if f.Format == "json" {
				return f.Success(refs)
			}
			if len(refs) == 0 {
				fmt.Fprintln(f.Writer, "No documents found.")
				return nil
			}
			t := format.NewTable(format.ASCII)
			t.Header("document", "symbol", "basename")
			for _, r := range refs {
				t.Row(shortID(r.DocumentID), r.Symbol, r.Basename)
			}
			fmt.Fprintln(f.Writer, t.String())
			return nil
		},
	}
}

func newCatalogImportsCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "imports",
		Short:         "List import batches",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts.RootOptions, cmd)
			st, err := openCatalog(opts, f)
			if err != nil {
				return err
			}
			defer st.Close()

			imps, err := st.Imports(cmd.Context())
			if err != nil {
				return f.fail(ErrCodeCatalog, "query failed", err)
			}
			if f.Format == "json" {
				return f.Success(imps)
			}
			t := format.NewTable(format.ASCII)
			t.Header("seq", "id", "source", "tool")
			for _, imp := range imps {
				t.Row(imp.Seq, imp.ID, imp.Source, imp.ToolVersion)
			}
			fmt.Fprintln(f.Writer, t.String())
			return nil
		},
	}
}

// shortID abbreviates a content id for tables.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
