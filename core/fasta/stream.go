// core/fasta/stream.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one FASTA entry. Seq holds the residues with line breaks and
// whitespace removed; case is preserved.
type Record struct {
	ID   string
	Desc string
	Seq  []byte

	Source string // input path, set by StreamPaths
}

// StreamCtx parses FASTA from r and emits one Record per entry. It is
// cancelable: it returns ctx.Err() promptly when ctx is done, even
// mid-record. A non-nil error from emit stops the scan and is returned.
func StreamCtx(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		id, desc string
		header   bool
		seq      = make([]byte, 0, 1<<20)
	)

	flush := func() error {
		if !header && len(seq) == 0 {
			return nil
		}
		return emit(Record{ID: id, Desc: desc, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			seq = seq[:0]
			id, desc = parseHeader(line[1:])
			header = true
			continue
		}
		if line[0] == ';' {
			continue
		}
		for _, f := range bytes.Fields(line) {
			seq = append(seq, f...)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

func parseHeader(hdr []byte) (id, desc string) {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i]), string(bytes.TrimSpace(hdr[i+1:]))
	}
	return string(hdr), ""
}
