package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/sabdamanthan/internal/labels"
	"github.com/turtacn/sabdamanthan/internal/panel"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// spansResult is the json output of ner and pos.
type spansResult struct {
	Task     nlp.Task            `json:"task"`
	Text     string              `json:"text"`
	Segments []panel.SegmentView `json:"segments"`
	UsedTags []panel.LegendEntry `json:"used_tags,omitempty"`
	Dropped  int                 `json:"dropped,omitempty"`
}

// NewSpansCmd creates the ner or pos command.
func NewSpansCmd(task nlp.Task) *cobra.Command {
	short := "Tag named entities in Nepali text"
	if task == nlp.TaskPOS {
		short = "Tag parts of speech in Nepali text"
	}
	return &cobra.Command{
		Use:   string(task) + " [text]",
		Short: short,
		Long: short + ".\n\nThe text is taken from the arguments, or from standard input when\n" +
			"no arguments are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return runSpans(cmd, task, text)
		},
	}
}

func runSpans(cmd *cobra.Command, task nlp.Task, text string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	p, closeFn, err := cliCtx.predictor(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	pn := panel.New(task, p, cliCtx.PanelOptions)
	if err := pn.Submit(ctx, text); err != nil {
		return &commandError{task: task, locale: cliCtx.Locale, err: err}
	}
	v := pn.View(cliCtx.Locale)
	if v.Dropped > 0 && cliCtx.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d annotation(s) could not be located in the input\n", v.Dropped)
	}

	out := cmd.OutOrStdout()
	switch cliCtx.OutputFormat {
	case OutputJSON:
		return printJSON(cmd, spansResult{
			Task:     task,
			Text:     v.Input,
			Segments: v.Segments,
			UsedTags: v.UsedTags,
			Dropped:  v.Dropped,
		})
	case OutputTable:
		rows := make([][]string, 0, len(v.Segments))
		for _, seg := range v.Segments {
			if seg.Annotated {
				rows = append(rows, []string{seg.Text, seg.Tag, seg.Description})
			}
		}
		return renderTable(out, []string{"Word", "Tag", "Description"}, rows)
	default:
		renderInline(out, v.Segments)
		renderLegend(out, v.Strings.LegendTitle, v.UsedTags)
		return nil
	}
}

// readInput joins args, or reads standard input when there are none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read standard input: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// legendTitle is the legend heading of task in locale.
func legendTitle(task nlp.Task, locale nlp.Locale) string {
	return labels.Messages(locale).Panel(task).LegendTitle
}
