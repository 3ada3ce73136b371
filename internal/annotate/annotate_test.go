package annotate

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfmark/core/orf"
	"orfmark/core/seq"
)

func TestNewSinkDefaultsName(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	k := NewSink("  ", false, log)
	assert.Equal(t, DefaultName, k.Name)
	assert.Contains(t, logs.String(), "annotation name is empty")

	logs.Reset()
	k = NewSink("gene", false, log)
	assert.Equal(t, "gene", k.Name)
	assert.Empty(t, logs.String())
}

func TestRecords(t *testing.T) {
	s := seq.Sequence{ID: "chr1", Data: []byte("CCATGAAATAGCC")}
	res := orf.Result{ORFs: []orf.Candidate{
		{Strand: seq.Direct, Frame: 2, Start: 2, End: 11, Terminated: true, IncludesStop: true},
		{Strand: seq.Complement, Frame: 0, Start: 2, End: 11, Terminated: true, IncludesStop: true},
	}}

	recs := NewSink("ORF", true, nil).Records("in.fa", 4, s, res)
	require.Len(t, recs, 2)

	assert.Equal(t, "ORF_1", recs[0].Label())
	assert.Equal(t, "ORF_2", recs[1].Label())
	assert.Equal(t, 4, recs[1].SeqIndex)
	assert.Equal(t, "in.fa", recs[0].SourceFile)
	assert.Equal(t, 9, recs[0].Length())
	assert.Equal(t, "ATGAAATAG", string(recs[0].Seq))
	assert.Equal(t, "CTATTTCAT", string(recs[1].Seq))

	api := ToAPI(recs[1])
	assert.Equal(t, "-", api.Strand)
	assert.Equal(t, "ORF_2", api.Name)
	assert.Equal(t, 9, api.Length)
	assert.Equal(t, "CTATTTCAT", api.Seq)
}

func TestRecordsWithoutSeq(t *testing.T) {
	s := seq.Sequence{ID: "x", Data: []byte("ATGAAATAG")}
	res := orf.Result{ORFs: []orf.Candidate{{Start: 0, End: 9, Terminated: true}}}
	recs := NewSink("", false, nil).Records("", 0, s, res)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].Seq)
	assert.Equal(t, "ORF_1", recs[0].Label())
}
