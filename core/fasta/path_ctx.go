// core/fasta/path_ctx.go
package fasta

import (
	"context"
	"fmt"
)

// StreamPathCtx opens path (gzip, zstd and "-" aware) and streams its
// records to emit. Open errors are returned before any record is emitted.
func StreamPathCtx(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	if err := StreamCtx(ctx, rc, emit); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
