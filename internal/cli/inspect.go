package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tiletex/pkg/sink"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// inspectCommand creates the inspect command for summarizing Lua tile maps.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file.lua]",
		Short: "Summarize a generated Lua tile map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				if os.IsNotExist(err) {
					return errs.Wrap(errs.ErrCodeFileNotFound, err, "tile map %s", path)
				}
				return err
			}
			defer f.Close()

			d, err := sink.ReadLua(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			loggerFromContext(cmd.Context()).Debug("read tile map", "path", path, "tiles", len(d.Map))

			printKeyValue("size", fmt.Sprintf("%dx%d", d.Width, d.Height))
			if d.Preamble != "" {
				printKeyValue("command", d.Preamble)
			}
			fmt.Println(renderTable([]string{"Index", "Tile", "Cells", "Share"}, tileRows(d), 0, 2, 3))
			return nil
		},
	}
}

// tileRows counts cells per index, ordered by index.
func tileRows(d *sink.Decoded) [][]string {
	counts := make(map[int]int, len(d.Map))
	for _, row := range d.Grid {
		for _, id := range row {
			counts[id]++
		}
	}
	ids := make([]int, 0, len(d.Map))
	for id := range d.Map {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	total := d.Width * d.Height
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		share := 0.0
		if total > 0 {
			share = 100 * float64(counts[id]) / float64(total)
		}
		rows = append(rows, []string{
			strconv.Itoa(id),
			d.Map[id],
			strconv.Itoa(counts[id]),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	return rows
}
