// core/fasta/reader.go
package fasta

import "context"

// StreamPaths streams the records of every path in order on the returned
// channel. The error channel receives at most one error (open or scan
// failure, or ctx.Err()) and is closed together with the record channel.
func StreamPaths(ctx context.Context, paths []string) (<-chan Record, <-chan error) {
	out := make(chan Record, 8)
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		defer close(out)
		for _, p := range paths {
			err := StreamPathCtx(ctx, p, func(r Record) error {
				r.Source = p
				select {
				case out <- r:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				errCh <- err
				return
			}
		}
	}()
	return out, errCh
}
