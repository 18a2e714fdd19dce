package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/enrollment/internal/app/migrations"
	"github.com/yigit/enrollment/internal/bootstrap"
	"github.com/yigit/enrollment/internal/schema"
)

type scripted interface {
	Script(down bool) string
}

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "print the statements the migrations run, without connecting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		down, err := cmd.Flags().GetBool("down")
		if err != nil {
			return err
		}

		units, err := declaredUnits()
		if err != nil {
			return err
		}
		if down {
			for i, j := 0, len(units)-1; i < j; i, j = i+1, j-1 {
				units[i], units[j] = units[j], units[i]
			}
		}

		out := cmd.OutOrStdout()
		for _, u := range units {
			s, ok := u.(scripted)
			if !ok {
				continue
			}
			fmt.Fprintf(out, "-- %s %s\n%s\n\n", u.Version(), u.Name(), strings.TrimSpace(s.Script(down)))
		}
		return nil
	},
}

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "print a Mermaid ER diagram of the declared tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		units, err := declaredUnits()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), schema.Mermaid(migrations.Tables(units)))
		return nil
	},
}

// declaredUnits returns the units in version order without touching the database
func declaredUnits() ([]migrations.Unit, error) {
	cfg, lgr, err := loadConfig()
	if err != nil {
		return nil, err
	}
	m, err := bootstrap.BuildMigrator(cfg, nil, lgr)
	if err != nil {
		return nil, err
	}

	units := make([]migrations.Unit, len(m.Units()))
	copy(units, m.Units())
	return units, nil
}

func init() {
	sqlCmd.Flags().Bool("down", false, "print the revert statements in revert order")

	rootCmd.AddCommand(sqlCmd, diagramCmd)
}
