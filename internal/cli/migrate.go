package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yigit/enrollment/internal/app/migrations"
)

type runFunc func(ctx context.Context, m *migrations.Migrator) (int, error)

// countCommand builds a command that runs fn and reports how many units it touched
func countCommand(use, short, verb string, fn runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *migrations.Migrator) error {
				n, err := fn(ctx, m)
				return reportCount(cmd.OutOrStdout(), verb, n, err)
			})
		},
	}
}

// reportCount prints how many units a run committed, including the ones
// committed before err
func reportCount(w io.Writer, verb string, n int, err error) error {
	if err != nil {
		if n > 0 {
			fmt.Fprintf(w, "%s %d migration(s) before failing.\n", verb, n)
		}
		return err
	}
	if n == 0 {
		fmt.Fprintln(w, "Nothing to do.")
		return nil
	}
	fmt.Fprintf(w, "%s %d migration(s).\n", verb, n)
	return nil
}

var upCmd = countCommand("up", "apply all pending migrations", "Applied",
	func(ctx context.Context, m *migrations.Migrator) (int, error) { return m.Up(ctx) })

var downCmd = countCommand("down", "revert all applied migrations", "Reverted",
	func(ctx context.Context, m *migrations.Migrator) (int, error) { return m.Down(ctx) })

var resetCmd = countCommand("reset", "revert all applied migrations", "Reverted",
	func(ctx context.Context, m *migrations.Migrator) (int, error) { return m.Reset(ctx) })

var refreshCmd = countCommand("refresh", "revert all migrations and apply them again", "Applied",
	func(ctx context.Context, m *migrations.Migrator) (int, error) { return m.Refresh(ctx) })

var freshCmd = countCommand("fresh", "drop every declared table and the history, then apply all migrations", "Applied",
	func(ctx context.Context, m *migrations.Migrator) (int, error) { return m.Fresh(ctx) })

var rollbackCmd = &cobra.Command{
	Use:     "rollback",
	Short:   "revert the last batch, or the last --step migrations",
	Example: "migrate rollback --step 2",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := cmd.Flags().GetInt("step")
		if err != nil {
			return err
		}
		return withMigrator(cmd, func(ctx context.Context, m *migrations.Migrator) error {
			n, err := m.Rollback(ctx, steps)
			return reportCount(cmd.OutOrStdout(), "Rolled back", n, err)
		})
	},
}

var applyCmd = &cobra.Command{
	Use:     "apply <version|name>",
	Short:   "apply a single migration as its own batch",
	Example: "migrate apply create_students_table",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(ctx context.Context, m *migrations.Migrator) error {
			u, err := m.Find(args[0])
			if err != nil {
				return err
			}
			if err := m.Apply(ctx, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s.\n", u.Name())
			return nil
		})
	},
}

var revertCmd = &cobra.Command{
	Use:     "revert <version|name>",
	Short:   "revert a single migration",
	Example: "migrate revert create_documents_table",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(ctx context.Context, m *migrations.Migrator) error {
			u, err := m.Find(args[0])
			if err != nil {
				return err
			}
			if err := m.Revert(ctx, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reverted %s.\n", u.Name())
			return nil
		})
	},
}

func init() {
	rollbackCmd.Flags().Int("step", 0, "number of migrations to revert, 0 for the last batch")

	rootCmd.AddCommand(upCmd, downCmd, resetCmd, refreshCmd, freshCmd, rollbackCmd, applyCmd, revertCmd)
}
