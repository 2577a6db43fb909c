package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:       "export [answers|shifts]",
		Short:     "Publish answers or the daily shift report",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"answers", "shifts"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			switch args[0] {
			case "answers":
				if err := a.export.ExportAnswers(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("answers exported")
			case "shifts":
				if err := a.export.ExportShifts(cmd.Context(), date); err != nil {
					return err
				}
				fmt.Println("shift report exported")
			default:
				return fmt.Errorf("unknown export target %q", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "report date (DD.MM.YYYY, default today)")
	return cmd
}
