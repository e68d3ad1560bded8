package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/sabdamanthan/internal/labels"
	"github.com/turtacn/sabdamanthan/internal/panel"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// NewTagsCmd creates the tags command.
func NewTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "tags ner|pos",
		Short:     "Print the tag legend of a task",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(nlp.TaskNER), string(nlp.TaskPOS)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			task, err := nlp.ParseTask(args[0])
			if err != nil || task == nlp.TaskFillMask {
				return errors.InvalidParam(fmt.Sprintf("no tag set for %q (want ner or pos)", args[0]))
			}

			entries := panel.LegendEntries(labels.Legend(task), cliCtx.Locale)
			switch cliCtx.OutputFormat {
			case OutputJSON:
				return printJSON(cmd, entries)
			case OutputTable:
				rows := make([][]string, len(entries))
				for i, e := range entries {
					rows[i] = []string{e.Tag, e.Description}
				}
				return renderTable(cmd.OutOrStdout(), []string{"Tag", "Description"}, rows)
			default:
				renderLegend(cmd.OutOrStdout(), legendTitle(task, cliCtx.Locale), entries)
				return nil
			}
		},
	}
}
