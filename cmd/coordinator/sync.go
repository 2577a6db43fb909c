package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:       "sync [workers|pairs|surveys|shifts|all]",
		Short:     "Reconcile persisted state with the source spreadsheet",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"workers", "pairs", "surveys", "shifts", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			target := "all"
			if len(args) == 1 {
				target = args[0]
			}

			ctx := cmd.Context()
			switch target {
			case "workers":
				created, err := a.reconcile.SyncWorkers(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("workers synced, %d created\n", created)
			case "pairs":
				created, err := a.reconcile.SyncPairs(ctx, date)
				if err != nil {
					return err
				}
				fmt.Printf("pairs synced, %d created\n", created)
			case "surveys":
				created, err := a.reconcile.SyncSurveys(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("surveys synced, %d created\n", created)
			case "shifts":
				inserted, err := a.reconcile.SyncShifts(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("shifts synced, %d inserted\n", inserted)
			default:
				if err := a.reconcile.SyncAll(ctx); err != nil {
					return err
				}
				fmt.Println("full sync complete")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "target date for pair sync (DD.MM.YYYY, default today)")
	return cmd
}
