package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/rota/internal/cli"
	"github.com/Veraticus/rota/internal/classification"
	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/config"
	"github.com/Veraticus/rota/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <cell>...",
		Short: "Classify raw roster cells into shift labels",
		Long: `Classify each raw cell (times such as 0700-1500, rest keywords such as WOFF)
into M, A, N, RD or ? and print the resulting pattern.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return common.NewUserError("invalid configuration", err)
			}
			tokens, err := newTokenClassifier(cfg)
			if err != nil {
				return err
			}

			encoder := classification.NewEncoder(tokens)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderEncoded(encoder.Encode(args)))
			return err
		},
	}
}

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match [cell]...",
		Short: "Find the pattern code for a row of shifts",
		Long: `Run the matching chain (learned patterns, predefined rotations, the sequence
classifier, catalog similarity and periodicity) over a row of raw cells or an
already encoded pattern. Nothing is learned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patternStr, _ := cmd.Flags().GetString("pattern")
			patternStr = strings.TrimSpace(patternStr)
			if patternStr == "" && len(args) == 0 {
				return common.NewUserError("nothing to match", common.InvalidInput("pass cells or --pattern"))
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var labels []model.ShiftLabel
			if patternStr != "" {
				labels = model.ParseLabels(patternStr)
			} else {
				encoded := a.engine.ClassifyRow(model.Row{Cells: cellsFromArgs(args)})
				patternStr, labels = encoded.Pattern, encoded.Labels
			}

			result, err := a.engine.Match(cmd.Context(), patternStr, labels)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderMatch(patternStr, result))
			return err
		},
	}

	cmd.Flags().String("pattern", "", "match an encoded pattern such as M-M-RD instead of raw cells")

	return cmd
}

func cellsFromArgs(args []string) []model.Cell {
	cells := make([]model.Cell, len(args))
	for i, v := range args {
		cells[i] = model.Cell{Column: strconv.Itoa(i + 1), Value: v}
	}
	return cells
}
