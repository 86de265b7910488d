package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newColumnsCmd(root *rootOptions) *cobra.Command {
	var file, sheet string
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List the column names of a sheet below its preamble",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			svc, err := root.service(cfg)
			if err != nil {
				return err
			}
			raw, err := readWorkbook(file)
			if err != nil {
				return err
			}
			cols, err := svc.Columns(cmd.Context(), raw, sheet)
			if err != nil {
				return err
			}
			for _, c := range cols {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "workbook (.xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name")
	_ = cmd.MarkFlagRequired("sheet")
	return cmd
}
