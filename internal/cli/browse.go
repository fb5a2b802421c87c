package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/listkit/listkit/internal/listdata"
	"github.com/listkit/listkit/internal/records"
	"github.com/listkit/listkit/internal/tui"
)

// ErrNotATerminal is returned when browse runs without an interactive
// terminal.
var ErrNotATerminal = errors.New("browse requires an interactive terminal")

// newBrowseCmd creates the "browse" command for paging through records
// interactively.
func newBrowseCmd() *cobra.Command {
	var params viewParams

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse records interactively",
		Long:  "Load records from JSON/YAML files and page through them in an interactive terminal UI",
		Example: `  # Browse records
  listkit browse --input users.json

  # Start sorted by age, 10 records per page
  listkit browse --input users.json --sort age --limit 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, params)
		},
	}

	cmd.Flags().StringSliceVar(&params.inputs, "input", nil, "record file(s), JSON or YAML (repeatable)")
	cmd.Flags().StringVar(&params.sort, "sort", "", "initial sort parameter, e.g. \"age,-name\"")
	cmd.Flags().IntVar(&params.limit, "limit", 0, "page size (0 = config default)")
	cmd.Flags().BoolVar(&params.desc, "desc", false, "descending page order")
	cmd.Flags().StringSliceVar(&params.columns, "columns", nil, "columns to display (default: sortable attributes)")
	cmd.Flags().BoolVar(&params.assignIDs, "assign-ids", false, "assign ULIDs to records missing the key field")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runBrowse(cmd *cobra.Command, params viewParams) error {
	if !isTerminal(os.Stdout) {
		return ErrNotATerminal
	}

	ctx := cmd.Context()
	cfg := configFromContext(ctx)

	recs, err := records.Load(ctx, params.inputs)
	if err != nil {
		return err
	}
	if params.assignIDs {
		records.AssignIDs(recs, cfg.KeyField)
	}

	provider, err := buildProvider(cfg, params.columns)
	if err != nil {
		return err
	}

	columns := params.columns
	if len(columns) == 0 {
		columns = defaultColumns(provider.Spec, recs)
	}

	model, err := tui.NewBrowseModel(provider, recs, columns, listdata.Query{
		Sort:  params.sort,
		Limit: params.limit,
		Desc:  params.desc,
	})
	if err != nil {
		return err
	}

	logger.Debug().Int("count", len(recs)).Msg("starting interactive browser")

	p := tea.NewProgram(*model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run interactive browser: %w", err)
	}
	if bm, ok := final.(tui.BrowseModel); ok && bm.Err() != nil {
		return bm.Err()
	}
	return nil
}
