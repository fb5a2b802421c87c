package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/listkit/listkit/internal/config"
	"github.com/listkit/listkit/internal/listdata"
	"github.com/listkit/listkit/internal/pager"
	"github.com/listkit/listkit/internal/records"
	"github.com/listkit/listkit/internal/sortspec"
)

// Output formats accepted by --output.
const (
	outputTable  = "table"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
)

// viewParams holds the flag values of the view command.
type viewParams struct {
	inputs    []string
	sort      string
	page      int
	limit     int
	desc      bool
	columns   []string
	output    string
	assignIDs bool
}

// newViewCmd creates the "view" command rendering one page of records.
func newViewCmd() *cobra.Command {
	var params viewParams

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Render one page of records",
		Long:  "Load records from JSON/YAML files, apply sorting and pagination, and render the page",
		Example: `  # First page, default sort order
  listkit view --input users.json

  # Sorted by age ascending, then name descending
  listkit view --input users.json --sort age,-name

  # Third page of 10, as JSON with navigation links
  listkit view --input users.json --page 2 --limit 10 --output json

  # Newest-first page ordering
  listkit view --input users.json --desc`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, params)
		},
	}

	cmd.Flags().StringSliceVar(&params.inputs, "input", nil, "record file(s), JSON or YAML (repeatable)")
	cmd.Flags().StringVar(&params.sort, "sort", "", "sort parameter, e.g. \"age,-name\"")
	cmd.Flags().IntVar(&params.page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&params.limit, "limit", 0, "page size (0 = config default)")
	cmd.Flags().BoolVar(&params.desc, "desc", false, "descending page order (page 0 is presented last)")
	cmd.Flags().StringSliceVar(&params.columns, "columns", nil, "columns to display (default: sortable attributes)")
	cmd.Flags().StringVar(&params.output, "output", outputTable, "output format: table, json, or ndjson")
	cmd.Flags().BoolVar(&params.assignIDs, "assign-ids", false, "assign ULIDs to records missing the key field")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runView(cmd *cobra.Command, params viewParams) error {
	switch params.output {
	case outputTable, outputJSON, outputNDJSON:
	default:
		return fmt.Errorf("unknown output format: %q", params.output)
	}

	ctx := cmd.Context()
	cfg := configFromContext(ctx)

	recs, err := records.Load(ctx, params.inputs)
	if err != nil {
		return err
	}
	logger.Debug().Int("count", len(recs)).Strs("inputs", params.inputs).Msg("records loaded")

	if params.assignIDs {
		assigned := records.AssignIDs(recs, cfg.KeyField)
		logger.Debug().Int("assigned", assigned).Msg("identifiers assigned")
	}

	provider, err := buildProvider(cfg, params.columns)
	if err != nil {
		return err
	}

	page, err := provider.GetPage(recs, listdata.Query{
		Sort:  params.sort,
		Page:  params.page,
		Limit: params.limit,
		Desc:  params.desc,
	})
	if err != nil {
		return err
	}

	columns := params.columns
	if len(columns) == 0 {
		columns = defaultColumns(provider.Spec, page.Items)
	}

	w := cmd.OutOrStdout()
	switch params.output {
	case outputJSON:
		var links map[string]string
		if page.State != nil {
			links = provider.Calc.Links(*page.State, pager.PathBuilder(cfg.BasePath))
		}
		return renderJSON(w, page, params.sort, links)
	case outputNDJSON:
		return renderNDJSON(w, page)
	default:
		return renderTable(w, page, columns, cfg.Locale)
	}
}

// buildProvider assembles the list data provider from the configuration. The
// sortable attribute whitelist comes from the config; when none is configured
// the display columns double as self-mapped sortable attributes.
func buildProvider(cfg *config.Config, columns []string) (*listdata.Provider[records.Record], error) {
	opts := cfg.SortOptions()
	if len(opts.Attributes) == 0 && len(columns) > 0 {
		opts.Attributes = sortspec.Columns(columns...)
	}

	var spec *sortspec.Spec
	if len(opts.Attributes) > 0 {
		s, err := sortspec.New(opts)
		if err != nil {
			return nil, fmt.Errorf("invalid sort configuration: %w", err)
		}
		spec = s
	}

	calc, err := pager.New(cfg.PagerConfig())
	if err != nil {
		return nil, fmt.Errorf("invalid pagination configuration: %w", err)
	}

	var collator *collate.Collator
	if cfg.Locale != "" {
		tag, err := language.Parse(cfg.Locale)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", config.ErrInvalidLocale, cfg.Locale)
		}
		collator = collate.New(tag)
	}

	return &listdata.Provider[records.Record]{
		Spec:     spec,
		Calc:     calc,
		Value:    records.Value,
		KeyField: cfg.KeyField,
		Collator: collator,
	}, nil
}

// defaultColumns returns the sortable attribute names, falling back to the
// union of record fields on the page in first-encounter order.
func defaultColumns(spec *sortspec.Spec, items []records.Record) []string {
	if spec != nil {
		return spec.AttributeNames()
	}

	var columns []string
	seen := map[string]bool{}
	for _, rec := range items {
		for _, field := range recordFields(rec) {
			if !seen[field] {
				seen[field] = true
				columns = append(columns, field)
			}
		}
	}
	return columns
}
