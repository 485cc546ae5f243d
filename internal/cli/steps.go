package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tiletex/pkg/config"
	"github.com/matzehuels/tiletex/pkg/steps"
)

// stepsCommand creates the steps command group.
func (c *CLI) stepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Work with step tables",
	}
	cmd.AddCommand(c.stepsCheckCommand())
	return cmd
}

// stepsCheckCommand creates the "steps check" subcommand.
func (c *CLI) stepsCheckCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check [name:low..high ...]",
		Short: "Validate a step table and show its buckets",
		Long: `Validate a step table without converting an image.

The ranges must cover every intensity 0..255 exactly once. Tokens may be given
as separate arguments or space-separated in one argument:

  tiletex steps check "water:0..89 sand:90..119" grass:120..255
  tiletex steps check --config island.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := args
			if len(tokens) == 0 && configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				tokens = cfg.Steps
			}

			loggerFromContext(cmd.Context()).Debug("checking steps", "tokens", tokens)
			t, err := steps.ParseAll(tokens)
			if err != nil {
				return err
			}

			printSuccess("%d steps cover 0..%d", t.Len(), steps.MaxIntensity)
			fmt.Println(renderTable([]string{"Tile", "Low", "High", "Width"}, stepRows(t), 1, 2, 3))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "read steps from a TOML preset")
	return cmd
}

// stepRows lists the table's ranges in intensity order.
func stepRows(t *steps.Table) [][]string {
	ranges := t.Ranges()
	rows := make([][]string, len(ranges))
	for i, r := range ranges {
		rows[i] = []string{
			r.Name,
			strconv.Itoa(int(r.Low)),
			strconv.Itoa(int(r.High)),
			strconv.Itoa(int(r.High) - int(r.Low) + 1),
		}
	}
	return rows
}
