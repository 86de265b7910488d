package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"consumption-heatmap/internal/data"
)

func newSheetsCmd(root *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "List the sheets of a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := root.loadConfig(); err != nil {
				return err
			}
			raw, err := readWorkbook(file)
			if err != nil {
				return err
			}
			wb, err := data.OpenWorkbookBytes(raw)
			if err != nil {
				return err
			}
			defer wb.Close()

			for _, s := range wb.Sheets() {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "workbook (.xlsx)")
	return cmd
}
