// Package cli wires the orfmark commands: cobra for parsing, viper for
// flag/env/file layering, appcore for the run itself.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"orfmark/internal/appcore"
	"orfmark/internal/blob"
	"orfmark/internal/cliutil"
	"orfmark/internal/config"
	"orfmark/internal/logx"
	"orfmark/internal/writers"
)

// Version is set at build time with -ldflags "-X orfmark/internal/cli.Version=...".
var Version = "dev"

// Run parses argv and executes the selected command, returning the exit code.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	code := appcore.ExitOK
	root := newRootCmd(stdout, stderr, &code)
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		var re runtimeError
		if errors.As(err, &re) {
			return appcore.ExitRuntime
		}
		return appcore.ExitConfig
	}
	return code
}

// runtimeError marks subcommand failures that are not usage errors.
type runtimeError struct{ err error }

func (e runtimeError) Error() string { return e.err.Error() }
func (e runtimeError) Unwrap() error { return e.err }

func failed(err error) error {
	if err == nil {
		return nil
	}
	return runtimeError{err}
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "orfmark [flags] <fasta...>",
		Short: "Find and annotate open reading frames in nucleotide sequences",
		Long: `orfmark scans nucleotide sequences in all three frames of the selected
strands and reports open reading frames.

Inputs are FASTA files (plain, .gz or .zst); "-" reads stdin and glob
patterns are expanded. Settings come from flags, ORFMARK_* environment
variables and orfmark.yaml, in that order of precedence.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			s, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			files, err := cliutil.ExpandPositionals(args)
			if err != nil {
				return err
			}
			set, err := s.Search()
			if err != nil {
				return err
			}
			table, err := s.GeneticCode()
			if err != nil {
				return err
			}

			log := logx.New(stderr, s.Quiet, s.Verbose)
			log.Debug("starting", "inputs", len(files), "table", table.ID, "strand", set.Strand.String(),
				"min_length", set.MinLength, "output", s.Output)

			*code = appcore.Run(cmd.Context(), stdout, stderr, log, appcore.Options{
				SeqFiles:    files,
				Search:      set,
				Table:       table,
				Name:        s.Name,
				Format:      s.Output,
				OutFile:     s.OutFile,
				DB:          s.DB,
				RunSettings: s.Recorded(),
				S3URI:       s.S3URI,
				S3: blob.ClientConfig{
					Region:          s.S3Region,
					Endpoint:        s.S3Endpoint,
					UsePathStyle:    s.S3PathStyle,
					AccessKeyID:     s.S3AccessKey,
					SecretAccessKey: s.S3SecretKey,
				},
				Threads:         s.Threads,
				Quiet:           s.Quiet,
				NoMatchExitCode: s.NoMatchExitCode,
			}, appcore.NewRecordWriterFactory(s.Output, s.Sort, s.Header))
			return nil
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "YAML config file (default ./orfmark.yaml if present)")

	f.String("strand", d.Strand, "strands to search: direct | complement | both")
	f.Int("min-length", d.MinLength, "minimum ORF length in nucleotides")
	f.Int("max-length", d.MaxLength, "maximum ORF length in nucleotides (0 = no limit)")
	f.Bool("require-init", d.RequireInit, "ORFs must begin with an initiation codon")
	f.Bool("alt-init", d.AltInit, "also accept alternative initiation codons")
	f.Bool("require-stop", d.RequireStop, "ORFs must end with a stop codon inside the region")
	f.Bool("allow-overlaps", d.AllowOverlaps, "keep nested ORFs that share a stop codon")
	f.Bool("include-stop", d.IncludeStop, "include the stop codon in the reported ORF")
	f.Int("max-results", d.MaxResults, "keep at most N ORFs per sequence (0 = no limit)")
	f.String("region", d.Region, "search only START-END (1-based, inclusive)")

	f.Int("table", d.Table, "NCBI genetic code id (see 'orfmark tables')")
	f.String("table-file", d.TableFile, "YAML file with a custom genetic code")

	f.String("name", d.Name, "annotation name")
	f.StringP("output", "o", d.Output, "output format: "+joinFormats())
	f.String("out-file", d.OutFile, "write output to this file instead of stdout")
	f.Bool("header", d.Header, "print a header line (text, tsv, bed)")
	f.Bool("sort", d.Sort, "emit results in input order (buffers the output)")

	f.String("db", d.DB, "SQLite database that records runs and annotations")
	f.String("s3-uri", d.S3URI, "upload --out-file to s3://bucket/key (key ending in / is a prefix)")
	f.String("s3-region", d.S3Region, "S3 region")
	f.String("s3-endpoint", d.S3Endpoint, "S3-compatible endpoint URL")
	f.Bool("s3-path-style", d.S3PathStyle, "use path-style S3 addressing")

	f.Int("threads", d.Threads, "sequence workers (0 = number of CPUs)")
	f.BoolP("quiet", "q", d.Quiet, "only log warnings and errors")
	f.BoolP("verbose", "v", d.Verbose, "log debug details")
	f.Int("no-match-exit-code", d.NoMatchExitCode, "exit code when no ORF is found")

	cmd.AddCommand(newTablesCmd(), newRunsCmd(), newExportCmd(), newVersionCmd())
	return cmd
}

func joinFormats() string { return strings.Join(writers.Formats(), " | ") }
