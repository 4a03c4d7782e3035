package main

import (
	"fmt"

	"github.com/Veraticus/rota/internal/cli"
	"github.com/Veraticus/rota/internal/roster"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <roster-file>",
		Short: "Check a roster for missing IDs and unknown pattern codes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sheet, err := roster.ReadFile(args[0])
			if err != nil {
				return err
			}
			issues, err := roster.Validate(sheet)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, cli.RenderIssues(issues)); err != nil {
				return err
			}
			if !sheet.HasCodes {
				return nil
			}
			_, err = fmt.Fprintln(out, cli.RenderValidation(a.engine.ValidateCodes(sheet.AssignedCodes())))
			return err
		},
	}
}
