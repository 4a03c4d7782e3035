package main

import (
	"fmt"

	"github.com/Veraticus/rota/internal/cli"
	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/roster"
	"github.com/spf13/cobra"
)

func confirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <pattern> <code>",
		Short: "Record the correct code for a pattern",
		Long: `Teach rota that an encoded pattern such as M-M-M-M-M-RD-RD belongs to a
pattern code. New codes join the catalog.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.engine.Confirm(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Learned %s → %s", args[0], args[1])))
			return err
		},
	}
}

func learnedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "learned",
		Short: "List learned pattern mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			stats := a.store.Stats()
			summary := fmt.Sprintf("Patterns: %d   Codes: %d   Custom codes: %d   Total usage: %d",
				stats.Patterns, stats.Codes, stats.CustomCodes, stats.TotalUsage)

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, cli.RenderLearned(a.store.Mappings())); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, "\n"+summary)
			return err
		},
	}
}

func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train [roster-file]",
		Short: "Train the sequence classifier",
		Long: `Train the sequence classifier and save the weights to classifier.weights_path.

Without a roster the classifier trains on every learned pattern mapping. With a
roster it trains on each row's shifts labelled by its Pattern Code column; rows
whose code is not in the catalog are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var n int
			source := "learned patterns"
			if len(args) == 1 {
				n, err = trainFromRoster(cmd, a, args[0])
				source = "roster rows"
			} else {
				n, err = a.engine.TrainFromLearned(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if n == 0 {
				_, err = fmt.Fprintln(out, cli.FormatInfo("No "+source+" to train on yet"))
				return err
			}
			_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Trained on %d %s, saved to %s", n, source, a.cfg.Classifier.WeightsPath)))
			return err
		},
	}
}

func trainFromRoster(cmd *cobra.Command, a *app, path string) (int, error) {
	sheet, err := roster.ReadFile(path)
	if err != nil {
		return 0, common.NewUserError("could not read roster "+path, err)
	}
	if !sheet.HasCodes {
		return 0, common.NewUserError("roster "+path+" has no "+roster.CodeColumn+" column", common.ErrInvalidInput)
	}
	return a.engine.TrainFromRoster(cmd.Context(), sheet.Rows, sheet.Codes)
}
