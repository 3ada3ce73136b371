// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"orfmark/core/fasta"
	"orfmark/core/gcode"
	"orfmark/core/orf"
	"orfmark/core/seq"
	"orfmark/internal/annotate"
	"orfmark/internal/blob"
	"orfmark/internal/store"
	"orfmark/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitConfig    = 2
	ExitRuntime   = 3
	ExitCancelled = 130
)

type Options struct {
	SeqFiles []string

	Search orf.Settings
	Table  *gcode.Table
	Name   string

	Format  string
	OutFile string

	// DB is the SQLite annotation store; empty disables persistence.
	DB string
	// RunSettings is recorded with the run in the store.
	RunSettings any

	// S3URI uploads OutFile after a successful run.
	S3URI    string
	S3       blob.ClientConfig
	S3Client blob.API // overrides S3 when set

	Threads         int
	Quiet           bool
	NoMatchExitCode int

	ProgressEvery time.Duration
}

// Stats summarizes a run.
type Stats struct {
	Sequences int64
	Skipped   int64
	ORFs      int64
	Truncated int64
}

func Run(
	parent context.Context,
	stdout, stderr io.Writer,
	log *slog.Logger,
	o Options,
	wf WriterFactory,
) int {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if o.Table == nil {
		fmt.Fprintln(stderr, "error: no genetic code table")
		return ExitConfig
	}
	if err := o.Search.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitConfig
	}
	if len(o.SeqFiles) == 0 {
		fmt.Fprintln(stderr, "error: no input files")
		return ExitConfig
	}
	var dst blob.Location
	if o.S3URI != "" {
		if o.OutFile == "" {
			fmt.Fprintln(stderr, "error: --s3-uri needs --out-file")
			return ExitConfig
		}
		var err error
		if dst, err = blob.ParseURI(o.S3URI); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitConfig
		}
		dst = dst.ResolveKey(filepath.Base(o.OutFile))
	}

	thr := o.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}
	markRun := func(string) {}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	dest := stdout
	var outFile *os.File
	if o.OutFile != "" {
		f, err := os.Create(o.OutFile)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitRuntime
		}
		outFile = f
		dest = f
	}
	outw := bufio.NewWriter(dest)

	var db *store.Store
	var runID string
	if o.DB != "" {
		// recorded even when ctx is already cancelled, so the run ends up "cancelled"
		setup := context.WithoutCancel(ctx)
		var err error
		if db, err = store.Open(setup, o.DB); err != nil {
			closeQuietly(outFile)
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitRuntime
		}
		defer func() { _ = db.Close() }()
		if runID, err = db.BeginRun(setup, o.RunSettings, o.SeqFiles); err != nil {
			closeQuietly(outFile)
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitRuntime
		}
		log.Debug("run recorded", "db", o.DB, "run", runID)

		// Stamped last, so a failed upload is recorded as a failed run.
		status := store.StatusFailed
		defer func() {
			if err := db.FinishRun(setup, runID, status); err != nil {
				log.Warn("could not finish run", "run", runID, "err", err)
			}
		}()
		markRun = func(s string) { status = s }
	}

	start := time.Now()
	inCh, writeErr := wf.Start(outw, thr*4)

	stats, perr := process(ctx, log, o, thr, wf.NeedSeq(), db, runID, func(r annotate.Record) error {
		select {
		case inCh <- r:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	close(inCh)

	code := finish(stderr, <-writeErr, outw, outFile)
	if code == ExitOK && perr != nil {
		switch {
		case errors.Is(perr, context.Canceled):
			code = ExitCancelled
			markRun(store.StatusCancelled)
		case errors.Is(perr, orf.ErrConfiguration):
			fmt.Fprintf(stderr, "error: %v\n", perr)
			code = ExitConfig
		default:
			fmt.Fprintln(stderr, perr)
			code = ExitRuntime
		}
	}
	if code != ExitOK {
		return code
	}

	if o.S3URI != "" {
		if err := upload(ctx, o, dst); err != nil {
			fmt.Fprintf(stderr, "error: upload: %v\n", err)
			return ExitRuntime
		}
		log.Info("uploaded", "uri", dst.String())
	}
	markRun(store.StatusDone)

	if !o.Quiet {
		summary(stderr, stats, time.Since(start))
	}
	if stats.ORFs == 0 {
		return o.NoMatchExitCode
	}
	return ExitOK
}

func closeQuietly(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}

// finish maps writer/flush/close failures to an exit code; broken pipes are success.
func finish(stderr io.Writer, werr error, outw *bufio.Writer, f *os.File) int {
	if werr != nil && !writers.IsBrokenPipe(werr) {
		fmt.Fprintln(stderr, werr)
		return ExitRuntime
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		fmt.Fprintln(stderr, e)
		return ExitRuntime
	}
	if f != nil {
		if e := f.Close(); e != nil {
			fmt.Fprintln(stderr, e)
			return ExitRuntime
		}
	}
	return ExitOK
}

// process streams the inputs through a bounded pool of search workers.
func process(
	ctx context.Context,
	log *slog.Logger,
	o Options,
	threads int,
	needSeq bool,
	db *store.Store,
	runID string,
	emit func(annotate.Record) error,
) (Stats, error) {
	var (
		st        Stats
		sequences atomic.Int64
		skipped   atomic.Int64
		orfs      atomic.Int64
		truncated atomic.Int64
	)

	every := o.ProgressEvery
	if every <= 0 {
		every = 2 * time.Second
	}
	progress := rate.Sometimes{First: 1, Interval: every}

	scanThreads := min(threads, 6)
	sink := annotate.NewSink(o.Name, needSeq, log)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	recs, streamErr := fasta.StreamPaths(gctx, o.SeqFiles)
	idx := 0
	for rec := range recs {
		seqIndex := idx
		idx++
		g.Go(func() error {
			sequences.Add(1)
			if len(rec.Seq) == 0 {
				skipped.Add(1)
				log.Warn("empty sequence skipped", "sequence", rec.ID, "file", rec.Source)
				return nil
			}
			if !orf.IsNucleotide(rec.Seq) {
				skipped.Add(1)
				log.Warn("protein sequence skipped", "sequence", rec.ID, "file", rec.Source)
				return nil
			}

			eng := orf.New(o.Table,
				orf.WithLogger(log),
				orf.WithThreads(scanThreads),
				orf.WithProgress(func(f float64) {
					log.Debug("scan", "sequence", rec.ID, "pct", int(f*100))
				}),
			)
			s := seq.Sequence{ID: rec.ID, Data: rec.Seq}
			res, err := eng.Search(gctx, s, o.Search)
			if errors.Is(err, orf.ErrConfiguration) {
				return fmt.Errorf("sequence %s: %w", rec.ID, err)
			}
			if err != nil {
				skipped.Add(1)
				log.Warn("sequence skipped", "sequence", rec.ID, "file", rec.Source, "err", err)
				return nil
			}
			if res.Cancelled {
				return gctx.Err()
			}
			if res.Truncated {
				truncated.Add(1)
				log.Info("result limit reached", "sequence", rec.ID, "limit", o.Search.MaxResults)
			}

			out := sink.Records(rec.Source, seqIndex, s, res)
			orfs.Add(int64(len(out)))
			if db != nil {
				if err := db.AddAnnotations(gctx, runID, out); err != nil {
					return err
				}
			}
			for _, r := range out {
				if err := emit(r); err != nil {
					return err
				}
			}
			progress.Do(func() {
				log.Info("progress", "sequences", sequences.Load(), "orfs", orfs.Load())
			})
			return nil
		})
	}

	err := g.Wait()
	if serr := <-streamErr; err == nil {
		err = serr
	}
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	st.Sequences = sequences.Load()
	st.Skipped = skipped.Load()
	st.ORFs = orfs.Load()
	st.Truncated = truncated.Load()
	return st, err
}

func upload(ctx context.Context, o Options, dst blob.Location) error {
	client := o.S3Client
	if client == nil {
		c, err := blob.NewClient(ctx, o.S3)
		if err != nil {
			return err
		}
		client = c
	}
	return blob.NewUploader(client).UploadFile(ctx, o.OutFile, dst, ContentType(o.Format))
}

func summary(w io.Writer, st Stats, took time.Duration) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s %d ORFs in %d sequences", green("done:"), st.ORFs, st.Sequences-st.Skipped)
	if st.Skipped > 0 {
		fmt.Fprintf(w, ", %s", yellow(fmt.Sprintf("%d skipped", st.Skipped)))
	}
	if st.Truncated > 0 {
		fmt.Fprintf(w, ", %s", yellow(fmt.Sprintf("%d capped by --max-results", st.Truncated)))
	}
	fmt.Fprintf(w, " %s\n", gray(fmt.Sprintf("(%s)", took.Round(time.Millisecond))))
}
