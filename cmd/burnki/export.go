package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/burnki/internal/app"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all Burnki notes to a spreadsheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("out")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n, err := a.Export(ctx, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s\n", n, out)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "burnki.xlsx", "Output .xlsx file")
	rootCmd.AddCommand(exportCmd)
}
