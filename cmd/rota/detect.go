package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/rota/internal/cli"
	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/model"
	"github.com/Veraticus/rota/internal/roster"
	"github.com/spf13/cobra"
)

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <roster-file>",
		Short: "Detect pattern codes for every employee in a roster",
		Long: `Read a CSV or XLSX roster and assign a pattern code to every row.

Matches above the usage threshold count towards their code; confident matches
are learned; everything else is kept as an unknown pattern for clustering.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showProgress, _ := cmd.Flags().GetBool("progress")
			withClusters, _ := cmd.Flags().GetBool("cluster")

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			run, err := runDetection(cmd, a, args[0], showProgress)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, cli.RenderReport(run.report, run.begins)); err != nil {
				return err
			}
			if withClusters {
				if _, err := fmt.Fprintln(out, "\n"+cli.RenderClusters(a.engine.ClusterUnknowns())); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("progress", true, "show a progress bar while detecting")
	cmd.Flags().Bool("cluster", false, "cluster the unknown patterns after detection")

	return cmd
}

func clusterCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "cluster <roster-file>",
		Aliases: []string{"unknowns"},
		Short:   "Group the patterns of a roster that no stage could match",
		Long: `Run detection over a roster and group the patterns no stage could match.

Detection runs in full: usage counts are recorded and confident matches are
learned, exactly as with detect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := runDetection(cmd, a, args[0], false); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderClusters(a.engine.ClusterUnknowns()))
			return err
		},
	}
}

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights <roster-file>",
		Short: "Summarise the codes and shifts found in a roster",
		Long: `Run detection over a roster and summarise the top codes and the shift
distribution.

Detection runs in full: usage counts are recorded and confident matches are
learned, exactly as with detect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			run, err := runDetection(cmd, a, args[0], false)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderInsights(a.engine.Insights(run.report.Results)))
			return err
		},
	}
}

type detection struct {
	report model.DetectionReport
	begins []string
}

// runDetection reads a roster and runs batch detection over it. An interrupt
// stops the run early; the rows processed so far are still reported.
func runDetection(cmd *cobra.Command, a *app, path string, showProgress bool) (detection, error) {
	sheet, err := roster.ReadFile(path)
	if err != nil {
		return detection{}, common.NewUserError("could not read roster "+path, err)
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := handler.HandleInterrupts(cmd.Context(), true)
	defer stop()

	var progress *cli.Progress
	if showProgress && len(sheet.Rows) > 0 {
		progress = cli.NewProgress(cmd.ErrOrStderr(), len(sheet.Rows), "Detecting patterns...")
	}

	report, err := a.engine.DetectAll(ctx, sheet.Rows, func(model.DetectionResult) {
		if progress != nil {
			progress.Advance()
		}
	})
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		if !handler.WasInterrupted() || !errors.Is(err, ctx.Err()) {
			return detection{}, fmt.Errorf("detection failed: %w", err)
		}
		slog.Warn("Detection stopped early", "processed", len(report.Results), "rows", len(sheet.Rows))
	}

	begins := make([]string, len(report.Results))
	for i := range report.Results {
		begins[i] = roster.DetectRosterBegin(sheet.Rows[i], a.tokens)
	}

	return detection{report: report, begins: begins}, nil
}
