package main

import (
	"fmt"

	"github.com/Veraticus/rota/internal/cli"
	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage pattern codes",
		Long:  `List, search and extend the catalog of known pattern codes.`,
	}

	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogAddCmd())
	cmd.AddCommand(catalogSearchCmd())

	return cmd
}

func catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all pattern codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderCodes(a.engine.Catalog().Codes()))
			return err
		},
	}
}

func catalogAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <code>",
		Short: "Add a pattern code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			added, err := a.engine.AddCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			msg := cli.FormatSuccess("Added " + args[0])
			if !added {
				msg = cli.FormatInfo(args[0] + " is already in the catalog")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		},
	}
}

func catalogSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search pattern codes",
		Long:  `Search codes by prefix, then substring, then fuzzy match.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderCodes(a.engine.SearchCodes(args[0], limit)))
			return err
		},
	}

	cmd.Flags().Int("limit", 10, "maximum number of codes to show (0 for all)")

	return cmd
}
