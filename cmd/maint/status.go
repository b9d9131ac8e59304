package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var (
		sortKey string
		dir     string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of every maintenance task",
		Long:  "Lists each workshop's equipment with the next due date and the status of every task.",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := schedule.EquipmentSortKey(sortKey)
			if key != schedule.EquipmentByDate && key != schedule.EquipmentByName {
				return fmt.Errorf("unknown --sort %q (want date or name)", sortKey)
			}
			return runStatus(cmd, opts, key, schedule.ParseDirection(dir, schedule.Ascending))
		},
	}

	cmd.Flags().StringVar(&sortKey, "sort", "date", "equipment order: date or name")
	cmd.Flags().StringVar(&dir, "dir", "asc", "sort direction: asc or desc")
	return cmd
}

func runStatus(cmd *cobra.Command, opts *rootOptions, key schedule.EquipmentSortKey, dir schedule.Direction) error {
	service, err := openTracker(opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	labels := service.Labels()

	workshops, err := service.ListWorkshops(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, w := range workshops {
		fmt.Fprintf(tw, "%s\n", w.Name)
		equipment, err := service.SortedEquipment(ctx, w.ID, key, dir)
		if err != nil {
			return err
		}
		for _, eq := range equipment {
			next := "-"
			if eq.NextDueDate != nil {
				next = eq.NextDueDate.Format(labels.DateLayout)
			}
			fmt.Fprintf(tw, "  %s\t\t%s\n", eq.Name, next)
			for _, t := range eq.Tasks {
				fmt.Fprintf(tw, "    %s\t%s\t%s\t%.0f%%\n", t.Name, t.Label, t.NextDueDate.Format(labels.DateLayout), t.ProgressPercentage)
			}
		}
	}
	return tw.Flush()
}
