package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/yigit/enrollment/internal/app/migrations"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "show which migrations have been applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(ctx context.Context, m *migrations.Migrator) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			renderStatus(cmd.OutOrStdout(), statuses)
			return nil
		})
	},
}

func statusLabel(s migrations.Status) string {
	switch {
	case s.Missing:
		return "Missing"
	case s.Applied:
		return "Ran"
	default:
		return "Pending"
	}
}

func renderStatus(w io.Writer, statuses []migrations.Status) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Version", "Migration", "Batch", "Applied At", "Status"})
	for _, s := range statuses {
		batch, appliedAt := "", ""
		if s.Applied {
			batch = fmt.Sprint(s.Batch)
		}
		if s.AppliedAt != nil {
			appliedAt = s.AppliedAt.Format(time.DateTime)
		}
		t.AppendRow(table.Row{s.Version, s.Name, batch, appliedAt, statusLabel(s)})
	}
	t.Render()
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
