package main

import (
	"bytes"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ukydev/workshop-maintenance/internal/export"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
	"github.com/ukydev/workshop-maintenance/internal/tracker"
)

// historyFlags binds --sort and --dir on cmd.
func historyFlags(cmd *cobra.Command, sortKey, dir *string) {
	cmd.Flags().StringVar(sortKey, "sort", "maintenanceDate", "workshopName, equipmentName, taskName, maintenanceDate or status")
	cmd.Flags().StringVar(dir, "dir", "desc", "sort direction: asc or desc")
}

func parseHistoryQuery(sortKey, dir string) (tracker.HistoryQuery, error) {
	key, ok := schedule.ParseHistorySortKey(sortKey)
	if !ok {
		return tracker.HistoryQuery{}, fmt.Errorf("unknown --sort %q", sortKey)
	}
	return tracker.HistoryQuery{SortKey: key, Direction: schedule.ParseDirection(dir, schedule.Descending)}, nil
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var sortKey, dir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed maintenance with timeliness",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseHistoryQuery(sortKey, dir)
			if err != nil {
				return err
			}
			service, err := openTracker(opts)
			if err != nil {
				return err
			}
			entries, err := service.History(cmd.Context(), q)
			if err != nil {
				return err
			}

			labels := service.Labels()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\tID\n", labels.WorkshopHeader, labels.EquipmentHeader, labels.TaskHeader, labels.DateHeader, labels.StatusHeader)
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.WorkshopName, e.EquipmentName, e.TaskName,
					e.MaintenanceDate.Format(labels.DateLayout), labels.TimelinessLabel(e), e.ID)
			}
			return tw.Flush()
		},
	}
	historyFlags(cmd, &sortKey, &dir)
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var sortKey, dir, format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export maintenance history to XLSX or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			q, err := parseHistoryQuery(sortKey, dir)
			if err != nil {
				return err
			}
			service, err := openTracker(opts)
			if err != nil {
				return err
			}
			entries, err := service.History(cmd.Context(), q)
			if err != nil {
				return err
			}

			labels := service.Labels()
			var buf bytes.Buffer
			if f == export.FormatPDF {
				err = export.WritePDF(&buf, entries, labels)
			} else {
				err = export.WriteXLSX(&buf, entries, labels)
			}
			if err != nil {
				return err
			}

			if out == "" {
				out = export.FileName(labels, f)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", len(entries), out)
			return nil
		},
	}
	historyFlags(cmd, &sortKey, &dir)
	cmd.Flags().StringVar(&format, "format", "xlsx", "xlsx or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path, defaults to a locale-specific file name")
	return cmd
}
