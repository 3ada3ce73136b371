package appcore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfmark/core/gcode"
	"orfmark/core/orf"
	"orfmark/core/seq"
	"orfmark/internal/store"
	"orfmark/internal/writers"
)

const testFASTA = ">s1 first\nCCATGAAATAGCC\n>p1 protein\nMKLEFPQ\n>s2\nGGGATGCCC\nTAAGG\n"

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.fa")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func baseOptions(t *testing.T, files ...string) Options {
	set := orf.DefaultSettings()
	set.Strand = seq.SelectDirect
	set.MinLength = 6
	return Options{
		SeqFiles: files,
		Search:   set,
		Table:    gcode.Standard(),
		Name:     "ORF",
		Format:   writers.FormatTSV,
		Threads:  2,
		Quiet:    true,
	}
}

func tsv() WriterFactory { return NewRecordWriterFactory(writers.FormatTSV, true, false) }

func TestRunTSV(t *testing.T) {
	in := writeInput(t, testFASTA)
	var out, errb bytes.Buffer

	code := Run(context.Background(), &out, &errb, nil, baseOptions(t, in), tsv())
	require.Equal(t, ExitOK, code, errb.String())
	assert.Equal(t,
		"s1\tORF_1\t2\t11\t9\t+\t2\ttrue\ttrue\n"+
			"s2\tORF_1\t3\t12\t9\t+\t0\ttrue\ttrue\n",
		out.String())
}

func TestRunSummaryAndWarnings(t *testing.T) {
	in := writeInput(t, testFASTA)
	var out, errb, logs bytes.Buffer
	o := baseOptions(t, in)
	o.Quiet = false

	log := newTestLogger(&logs)
	code := Run(context.Background(), &out, &errb, log, o, tsv())
	require.Equal(t, ExitOK, code)
	assert.Contains(t, logs.String(), "protein sequence skipped")
	assert.Contains(t, logs.String(), "sequence=p1")
	assert.Contains(t, errb.String(), "2 ORFs in 2 sequences")
	assert.Contains(t, errb.String(), "1 skipped")
}

func TestRunNoMatchExitCode(t *testing.T) {
	in := writeInput(t, ">x\nCCCCCCCCCCCC\n")
	var out, errb bytes.Buffer
	o := baseOptions(t, in)
	o.NoMatchExitCode = 1
	assert.Equal(t, 1, Run(context.Background(), &out, &errb, nil, o, tsv()))
	assert.Empty(t, out.String())
}

func TestRunConfigErrors(t *testing.T) {
	in := writeInput(t, testFASTA)
	var out, errb bytes.Buffer

	o := baseOptions(t, in)
	o.Search.MinLength = 0
	assert.Equal(t, ExitConfig, Run(context.Background(), &out, &errb, nil, o, tsv()))

	o = baseOptions(t)
	assert.Equal(t, ExitConfig, Run(context.Background(), &out, &errb, nil, o, tsv()))

	o = baseOptions(t, in)
	o.Table = nil
	assert.Equal(t, ExitConfig, Run(context.Background(), &out, &errb, nil, o, tsv()))

	o = baseOptions(t, in)
	o.S3URI = "s3://bucket/key"
	assert.Equal(t, ExitConfig, Run(context.Background(), &out, &errb, nil, o, tsv()))
}

func TestRunMissingInput(t *testing.T) {
	var out, errb bytes.Buffer
	o := baseOptions(t, filepath.Join(t.TempDir(), "missing.fa"))
	assert.Equal(t, ExitRuntime, Run(context.Background(), &out, &errb, nil, o, tsv()))
	assert.NotEmpty(t, errb.String())
}

func TestRunCancelled(t *testing.T) {
	in := writeInput(t, testFASTA)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errb bytes.Buffer
	assert.Equal(t, ExitCancelled, Run(ctx, &out, &errb, nil, baseOptions(t, in), tsv()))
}

func TestRunUnknownFormat(t *testing.T) {
	in := writeInput(t, testFASTA)
	var out, errb bytes.Buffer
	code := Run(context.Background(), &out, &errb, nil, baseOptions(t, in), NewRecordWriterFactory("xml", false, false))
	assert.Equal(t, ExitRuntime, code)
	assert.Contains(t, errb.String(), "unknown output format")
}

func TestRunPersistsToStore(t *testing.T) {
	in := writeInput(t, testFASTA)
	dbPath := filepath.Join(t.TempDir(), "orf.db")
	o := baseOptions(t, in)
	o.DB = dbPath
	o.RunSettings = map[string]int{"min-length": 6}

	var out, errb bytes.Buffer
	require.Equal(t, ExitOK, Run(context.Background(), &out, &errb, nil, o, tsv()), errb.String())

	db, err := store.Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	runs, err := db.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.StatusDone, runs[0].Status)
	assert.Equal(t, 2, runs[0].ORFCount)
	assert.Equal(t, []string{in}, runs[0].Inputs)

	recs, err := db.Annotations(context.Background(), runs[0].ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "s1", recs[0].SequenceID)
	assert.Equal(t, "s2", recs[1].SequenceID)
	assert.Equal(t, 2, recs[1].SeqIndex)
}

type fakeS3 struct {
	key  string
	body []byte
	ct   string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.ct = aws.ToString(in.ContentType)
	b, err := io.ReadAll(in.Body)
	f.body = b
	return &s3.PutObjectOutput{}, err
}

func TestRunWritesFileAndUploads(t *testing.T) {
	in := writeInput(t, testFASTA)
	outFile := filepath.Join(t.TempDir(), "orfs.gff3")
	fake := &fakeS3{}

	o := baseOptions(t, in)
	o.Format = writers.FormatGFF3
	o.OutFile = outFile
	o.S3URI = "s3://bucket/runs/"
	o.S3Client = fake

	var out, errb bytes.Buffer
	code := Run(context.Background(), &out, &errb, nil, o, NewRecordWriterFactory(writers.FormatGFF3, true, true))
	require.Equal(t, ExitOK, code, errb.String())
	assert.Empty(t, out.String())

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "##gff-version 3\n"))
	assert.Equal(t, "bucket/runs/orfs.gff3", fake.key)
	assert.Equal(t, string(data), string(fake.body))
	assert.Equal(t, "text/x-gff3", fake.ct)
}

func TestRunFASTAIncludesSequence(t *testing.T) {
	in := writeInput(t, testFASTA)
	o := baseOptions(t, in)
	o.Search.Strand = seq.SelectBoth

	var out, errb bytes.Buffer
	code := Run(context.Background(), &out, &errb, nil, o, NewRecordWriterFactory(writers.FormatFASTA, true, false))
	require.Equal(t, ExitOK, code, errb.String())
	assert.Contains(t, out.String(), ">s1_ORF_1 3..11 + frame=2\nATGAAATAG\n")
	assert.Contains(t, out.String(), ">s2_ORF_1 4..12 + frame=0\nATGCCCTAA\n")
}

func storedRuns(t *testing.T, dbPath string) []store.Run {
	t.Helper()
	db, err := store.Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	runs, err := db.Runs(context.Background())
	require.NoError(t, err)
	return runs
}

func TestRunUncreatableOutputLeavesNoRunningRun(t *testing.T) {
	in := writeInput(t, testFASTA)
	dbPath := filepath.Join(t.TempDir(), "orf.db")
	o := baseOptions(t, in)
	o.DB = dbPath
	o.OutFile = filepath.Join(t.TempDir(), "missing", "out.tsv")

	var out, errb bytes.Buffer
	require.Equal(t, ExitRuntime, Run(context.Background(), &out, &errb, nil, o, tsv()))
	for _, r := range storedRuns(t, dbPath) {
		assert.NotEqual(t, store.StatusRunning, r.Status, "run %s", r.ID)
	}
}

func TestRunFailedUploadMarksRunFailed(t *testing.T) {
	in := writeInput(t, testFASTA)
	dbPath := filepath.Join(t.TempDir(), "orf.db")
	o := baseOptions(t, in)
	o.DB = dbPath
	o.OutFile = filepath.Join(t.TempDir(), "orfs.tsv")
	o.S3URI = "s3://bucket/runs/"
	o.S3Client = &fakeS3{err: errors.New("access denied")}

	var out, errb bytes.Buffer
	require.Equal(t, ExitRuntime, Run(context.Background(), &out, &errb, nil, o, tsv()))
	assert.Contains(t, errb.String(), "upload")

	runs := storedRuns(t, dbPath)
	require.Len(t, runs, 1)
	assert.Equal(t, store.StatusFailed, runs[0].Status)
}

func TestRunCancelledMarksRunCancelled(t *testing.T) {
	in := writeInput(t, testFASTA)
	dbPath := filepath.Join(t.TempDir(), "orf.db")
	o := baseOptions(t, in)
	o.DB = dbPath
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errb bytes.Buffer
	require.Equal(t, ExitCancelled, Run(ctx, &out, &errb, nil, o, tsv()))
	runs := storedRuns(t, dbPath)
	require.Len(t, runs, 1)
	assert.Equal(t, store.StatusCancelled, runs[0].Status)
}

func TestRunRegionOutsideSequenceIsConfigError(t *testing.T) {
	in := writeInput(t, ">s\nATGAAATAG\n")
	o := baseOptions(t, in)
	o.Search.Region = seq.Region{Start: 4, End: 500}

	var out, errb bytes.Buffer
	assert.Equal(t, ExitConfig, Run(context.Background(), &out, &errb, nil, o, tsv()))
	assert.Contains(t, errb.String(), "region")
	assert.Empty(t, out.String())
}

func TestRunLogsScanProgress(t *testing.T) {
	in := writeInput(t, testFASTA)
	var out, errb, logs bytes.Buffer
	log := newTestLogger(&logs)

	require.Equal(t, ExitOK, Run(context.Background(), &out, &errb, log, baseOptions(t, in), tsv()))
	assert.Contains(t, logs.String(), "msg=scan sequence=s1")
	assert.Contains(t, logs.String(), "pct=100")
}
