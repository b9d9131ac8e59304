package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
)

func newCompleteCmd(opts *rootOptions) *cobra.Command {
	var workshopID, equipmentID, taskID, date string

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Record a completed task and update the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			var on time.Time
			if date != "" {
				d, err := schedule.ParseDate(date)
				if err != nil {
					return err
				}
				on = d
			}
			service, err := openTracker(opts)
			if err != nil {
				return err
			}
			entry, err := service.CompleteTask(cmd.Context(), workshopID, equipmentID, taskID, on)
			if err != nil {
				return err
			}
			if err := saveTracker(cmd.Context(), service, opts.file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s on %s (%s)\n",
				entry.TaskName, entry.MaintenanceDate.Format(service.Labels().DateLayout), entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&workshopID, "workshop", "", "workshop ID")
	cmd.Flags().StringVar(&equipmentID, "equipment", "", "equipment ID")
	cmd.Flags().StringVar(&taskID, "task", "", "task ID")
	cmd.Flags().StringVar(&date, "date", "", "completion date (YYYY-MM-DD), defaults to today")
	_ = cmd.MarkFlagRequired("workshop")
	_ = cmd.MarkFlagRequired("equipment")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}
