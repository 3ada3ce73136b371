package cli

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"orfmark/internal/store"
	"orfmark/internal/writers"
)

func newRunsCmd() *cobra.Command {
	var db string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the runs recorded in an annotation database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if db == "" {
				return errors.New("--db is required")
			}
			s, err := store.Open(cmd.Context(), db)
			if err != nil {
				return failed(err)
			}
			defer func() { _ = s.Close() }()

			runs, err := s.Runs(cmd.Context())
			if err != nil {
				return failed(err)
			}
			table := writers.NewTable(cmd.OutOrStdout(), []string{"Run", "Started", "Status", "ORFs", "Inputs"})
			for _, r := range runs {
				table.Append([]string{
					r.ID,
					r.StartedAt.Local().Format(time.DateTime),
					r.Status,
					strconv.Itoa(r.ORFCount),
					strings.Join(r.Inputs, " "),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "SQLite annotation database")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		db     string
		format string
		header bool
	)
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Write the annotations of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if db == "" {
				return errors.New("--db is required")
			}
			if !writers.Supported(format) || writers.NeedsSeq(format) || format == writers.FormatParquet {
				return errors.New("export supports text, tsv, json, jsonl, gff3 and bed")
			}
			s, err := store.Open(cmd.Context(), db)
			if err != nil {
				return failed(err)
			}
			defer func() { _ = s.Close() }()

			if _, err := s.Lookup(cmd.Context(), args[0]); err != nil {
				return failed(err)
			}
			recs, err := s.Annotations(cmd.Context(), args[0])
			if err != nil {
				return failed(err)
			}
			in, done := writers.StartWriter(cmd.OutOrStdout(), format, writers.Options{Header: header}, 64)
			for _, r := range recs {
				in <- r
			}
			close(in)
			return failed(<-done)
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "SQLite annotation database")
	cmd.Flags().StringVarP(&format, "output", "o", writers.FormatTSV, "output format")
	cmd.Flags().BoolVar(&header, "header", true, "print a header line (text, tsv, bed)")
	return cmd
}
