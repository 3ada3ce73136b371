package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"orfmark/internal/cli"
)

func TestCtrlC_MidScan_Exit130(t *testing.T) {
	// Biggish FASTA to ensure scanning is underway.
	fn := filepath.Join(t.TempDir(), "cancel_big.fa")
	const Mb = 1 << 20
	line := strings.Repeat("ATGAAACCC", 9) + "\n" // 81 nt per line, no stop codon
	var b strings.Builder
	b.WriteString(">chr1\n")
	for b.Len() < 32*Mb {
		b.WriteString(line)
	}
	if err := os.WriteFile(fn, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write fasta: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel shortly after start.
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	code := cli.Run(ctx, []string{"-q", "-o", "tsv", fn}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}

func TestCancelledBeforeStart_Exit130(t *testing.T) {
	fn := writeFASTA(t, ">s\nATGAAATAG\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if code := cli.Run(ctx, []string{"-q", fn}, io.Discard, io.Discard); code != 130 {
		t.Fatalf("expected exit 130, got %d", code)
	}
}
