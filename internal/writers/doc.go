// Package writers turns annotation records into serialized outputs.
//
// Design:
//   • Writers own all presentation knowledge (table, TSV, JSON/JSONL, GFF3, BED, FASTA, Parquet).
//   • The engine stays domain-only; appcore stays orchestration-only.
//   • JSON/JSONL go through pkg/api (v1) for a stable wire format.
//   • Text output is 1-based inclusive, like GFF3; TSV, JSON and BED keep the
//     engine's 0-based half-open coordinates.
package writers
