package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newNotificationsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List upcoming and overdue tasks, most urgent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := openTracker(opts)
			if err != nil {
				return err
			}
			items, err := service.Notifications(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "Nothing due.")
				return nil
			}
			for _, n := range items {
				fmt.Fprintf(out, "[%s] %s / %s / %s: %s\n", n.Status, n.WorkshopName, n.EquipmentName, n.TaskName, n.Label)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
