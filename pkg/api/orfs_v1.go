// pkg/api/orfs_v1.go
package api

// ORFV1 is the stable JSON/JSONL schema for one ORF annotation.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ORFV1 struct {
	SequenceID   string `json:"sequence_id"`
	Name         string `json:"name"`
	Start        int    `json:"start"` // 0-based, direct strand
	End          int    `json:"end"`   // exclusive
	Length       int    `json:"length"`
	Strand       string `json:"strand"` // "+" | "-"
	Frame        int    `json:"frame"`
	Terminated   bool   `json:"terminated"`
	IncludesStop bool   `json:"includes_stop"`
	Seq          string `json:"seq,omitempty"`
	SourceFile   string `json:"source_file,omitempty"`
}
