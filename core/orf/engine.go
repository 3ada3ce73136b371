package orf

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"orfmark/core/gcode"
	"orfmark/core/seq"
)

// Engine runs ORF searches against one genetic code. It keeps no state
// between searches and is safe for concurrent use.
type Engine struct {
	table    *gcode.Table
	threads  int
	progress func(float64)
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreads bounds the number of (strand, frame) scans run at once.
// n <= 0 selects min(6, GOMAXPROCS); 1 scans sequentially.
func WithThreads(n int) Option { return func(e *Engine) { e.threads = n } }

// WithProgress receives the fraction of (strand, frame) scans completed.
// Calls are serialized and non-decreasing.
func WithProgress(fn func(float64)) Option { return func(e *Engine) { e.progress = fn } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// New creates an Engine for table.
func New(table *gcode.Table, opts ...Option) *Engine {
	e := &Engine{table: table, log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(e)
	}
	if e.threads <= 0 {
		e.threads = min(6, runtime.GOMAXPROCS(0))
	}
	return e
}

// Table returns the engine's genetic code.
func (e *Engine) Table() *gcode.Table { return e.table }

// IsNucleotide reports whether data can be searched at all. Callers use it
// to skip protein records instead of failing on them.
func IsNucleotide(data []byte) bool { return seq.LooksNucleotide(data) }

// Search finds every ORF of s matching set. It returns a *ConfigError or
// *InputError before scanning when the request is unusable. When ctx is
// cancelled mid-run the accumulated ORFs are dropped and the Result is
// marked Cancelled with a nil error.
func (e *Engine) Search(ctx context.Context, s seq.Sequence, set Settings) (Result, error) {
	if e.table == nil {
		return Result{}, &ConfigError{Field: "table", Reason: "no genetic code"}
	}
	if err := set.Validate(); err != nil {
		return Result{}, err
	}
	if len(s.Data) == 0 {
		return Result{}, &InputError{SeqID: s.ID, Reason: "empty sequence"}
	}
	if err := seq.Validate(s.Data); err != nil {
		return Result{}, &InputError{SeqID: s.ID, Reason: err.Error()}
	}
	region, err := set.Region.Resolve(len(s.Data))
	if err != nil {
		return Result{}, &ConfigError{Field: "region", Reason: err.Error()}
	}
	if ctx.Err() != nil {
		return Result{Cancelled: true}, nil
	}

	views := map[seq.Strand][]byte{}
	direct := s.Data[region.Start:region.End]
	for _, st := range set.Strand.Strands() {
		if st == seq.Complement {
			views[st] = seq.RevComp(direct)
		} else {
			views[st] = direct
		}
	}

	pairs := pairsFor(set.Strand)
	parts := make([][]Candidate, len(pairs))

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		if e.progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		e.progress(float64(done) / float64(len(pairs)))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.threads)
	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := scanPair(gctx, views[p.strand], region, p, e.table, &set)
			if err != nil {
				return err
			}
			parts[i] = out
			report()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			e.log.Debug("orf search cancelled", "seq", s.ID)
			return Result{Cancelled: true}, nil
		}
		return Result{}, err
	}
	if ctx.Err() != nil {
		return Result{Cancelled: true}, nil
	}

	orfs, truncated := merge(parts, set.MaxResults)
	e.log.Debug("orf search done",
		"seq", s.ID,
		"region", region.String(),
		"strand", set.Strand.String(),
		"orfs", len(orfs),
		"truncated", truncated,
	)
	return Result{ORFs: orfs, Truncated: truncated}, nil
}

// Search is a one-shot helper using a default Engine.
func Search(ctx context.Context, table *gcode.Table, s seq.Sequence, set Settings) (Result, error) {
	return New(table).Search(ctx, s, set)
}
