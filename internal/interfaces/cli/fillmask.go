package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/sabdamanthan/internal/highlight"
	"github.com/turtacn/sabdamanthan/internal/labels"
	"github.com/turtacn/sabdamanthan/internal/panel"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

type fillMaskResult struct {
	Text       string                `json:"text"`
	Candidates []panel.CandidateView `json:"candidates,omitempty"`
	Selected   string                `json:"selected,omitempty"`
	Completed  string                `json:"completed,omitempty"`
	Tokens     []highlight.Token     `json:"tokens,omitempty"`
}

// NewFillMaskCmd creates the fill-mask command.
func NewFillMaskCmd() *cobra.Command {
	var pick string
	cmd := &cobra.Command{
		Use:     "fill-mask [text]",
		Aliases: []string{"fill-blank"},
		Short:   "Suggest words for the blank (_) in a Nepali sentence",
		Long: "Suggest words for the blank in a Nepali sentence.  Mark the blank with\n" +
			"one or more underscores.  The most probable word fills the blank unless\n" +
			"--pick names another suggestion.",
		Example: "  sabdamanthan fill-mask 'हाम्रो _ वर्षको प्रोजेक्टको नमूना'",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return runFillMask(cmd, text, pick)
		},
	}
	cmd.Flags().StringVar(&pick, "pick", "", "suggestion to place in the blank instead of the top one")
	return cmd
}

func runFillMask(cmd *cobra.Command, text, pick string) error {
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

	task := nlp.TaskFillMask
	pn := panel.New(task, p, cliCtx.PanelOptions)
	if err := pn.Submit(ctx, text); err != nil {
		return &commandError{task: task, locale: cliCtx.Locale, err: err}
	}
	if pick != "" {
		if err := pn.Select(pick); err != nil {
			return &commandError{task: task, locale: cliCtx.Locale, err: err}
		}
	}
	v := pn.View(cliCtx.Locale)
	s := labels.Messages(cliCtx.Locale)
	out := cmd.OutOrStdout()

	switch cliCtx.OutputFormat {
	case OutputJSON:
		return printJSON(cmd, fillMaskResult{
			Text:       v.Input,
			Candidates: v.Candidates,
			Selected:   v.Selected,
			Completed:  joinTokens(v.Completed, false),
			Tokens:     v.Completed,
		})
	case OutputTable:
		rows := make([][]string, len(v.Candidates))
		for i, c := range v.Candidates {
			mark := ""
			if c.Selected {
				mark = "*"
			}
			rows[i] = []string{fmt.Sprint(i + 1), c.Display, c.Percent, mark}
		}
		if len(rows) > 0 {
			if err := renderTable(out, []string{"Rank", "Word", "Probability", "Selected"}, rows); err != nil {
				return err
			}
		}
	default:
		if len(v.Candidates) > 0 {
			fmt.Fprintln(out, color.New(color.Bold).Sprint(s.SuggestedWords))
			for i, c := range v.Candidates {
				line := fmt.Sprintf("  %d. %s  %s", i+1, c.Display, c.Percent)
				if c.Top {
					line += "  " + color.GreenString("(%s)", s.HighestProbability)
				}
				if c.Selected {
					line = color.New(color.Bold).Sprint(line)
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out)
		}
	}

	if len(v.Completed) > 0 {
		fmt.Fprintf(out, "%s: %s\n", s.CompletedSentence, joinTokens(v.Completed, true))
	}
	return nil
}

// joinTokens rebuilds the completed sentence, optionally highlighting the
// blank word.
func joinTokens(tokens []highlight.Token, highlightBlank bool) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
		if t.Blank && highlightBlank {
			parts[i] = color.New(color.FgBlack, color.BgYellow).Sprint(t.Text)
		}
	}
	return strings.Join(parts, " ")
}
