package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"orfmark/core/gcode"
	"orfmark/internal/writers"
)

func newTablesCmd() *cobra.Command {
	var tableFile string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the available genetic codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables := gcode.All()
			if tableFile != "" {
				t, err := gcode.LoadYAMLFile(tableFile)
				if err != nil {
					return err
				}
				tables = append(tables, t)
			}

			table := writers.NewTable(cmd.OutOrStdout(), []string{"ID", "Name", "Starts", "Alt starts", "Stops"})
			for _, t := range tables {
				table.Append([]string{
					strconv.Itoa(t.ID),
					t.Name,
					strings.Join(t.Codons(gcode.Start), " "),
					strings.Join(t.Codons(gcode.AltStart), " "),
					strings.Join(t.Codons(gcode.Stop), " "),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&tableFile, "table-file", "", "also show a custom YAML genetic code")
	return cmd
}
