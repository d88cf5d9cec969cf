package fasta

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const plain = `>seq1 first guide target
ACGT
acgt

>seq2
NNnn
`

// writeGz creates a gzipped FASTA file with provided data, returns the file path.
func writeGz(t *testing.T, data string) string {
	path := filepath.Join(t.TempDir(), "test.fa.gz")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestReadAll(t *testing.T) {
	recs, err := ReadAll(context.Background(), strings.NewReader(plain))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("want 2 records, got %d", len(recs))
	}
	if recs[0].ID != "seq1" || recs[0].Description != "first guide target" || recs[0].Seq != "ACGTacgt" {
		t.Fatalf("record 0 = %+v", recs[0])
	}
	if recs[1].ID != "seq2" || recs[1].Seq != "NNnn" {
		t.Fatalf("record 1 = %+v", recs[1])
	}
}

func TestReadNoHeader(t *testing.T) {
	_, err := ReadAll(context.Background(), strings.NewReader("ACGT\n>x\nA\n"))
	if !errors.Is(err, ErrNoHeader) {
		t.Fatalf("want ErrNoHeader, got %v", err)
	}
}

func TestReadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := 0
	err := Read(ctx, strings.NewReader(plain), func(Record) error { n++; return nil })
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Fatalf("want canceled with 0 records, got err=%v n=%d", err, n)
	}
}

func TestReadEmitError(t *testing.T) {
	stop := errors.New("stop")
	err := Read(context.Background(), strings.NewReader(plain), func(Record) error { return stop })
	if !errors.Is(err, stop) {
		t.Fatalf("emit error not propagated: %v", err)
	}
}

func TestOpenGzip(t *testing.T) {
	rc, err := Open(writeGz(t, plain))
	if err != nil {
		t.Fatalf("open gz: %v", err)
	}
	defer rc.Close()
	recs, err := ReadAll(context.Background(), rc)
	if err != nil {
		t.Fatalf("read gz: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "seq1" {
		t.Fatalf("gzip parse failed: %+v", recs)
	}
}

func TestOpenStdin(t *testing.T) {
	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	go func() {
		_, _ = io.WriteString(w, plain)
		_ = w.Close()
	}()

	rc, err := Open("-")
	if err != nil {
		t.Fatalf("open stdin: %v", err)
	}
	recs, err := ReadAll(context.Background(), rc)
	if err != nil || len(recs) != 2 {
		t.Fatalf("expected 2 records from stdin, got %d (%v)", len(recs), err)
	}
}

func TestLooks(t *testing.T) {
	if !Looks([]byte("\n  >x\nACGT")) {
		t.Fatal("FASTA not detected")
	}
	if Looks([]byte("name,sequence\n")) || Looks(bytes.TrimSpace(nil)) {
		t.Fatal("false positive")
	}
}

func TestWriteWraps(t *testing.T) {
	var b strings.Builder
	if err := Write(&b, Record{ID: "r1", Description: "gc=0.5", Seq: "ACGTACGTAC"}, 4); err != nil {
		t.Fatal(err)
	}
	want := ">r1 gc=0.5\nACGT\nACGT\nAC\n"
	if b.String() != want {
		t.Fatalf("got %q want %q", b.String(), want)
	}
	recs, err := ReadAll(context.Background(), strings.NewReader(b.String()))
	if err != nil || len(recs) != 1 || recs[0].Seq != "ACGTACGTAC" {
		t.Fatalf("reread: %v %+v", err, recs)
	}
}

func TestOpenGzipWithoutSuffix(t *testing.T) {
	gz := writeGz(t, plain)
	path := filepath.Join(t.TempDir(), "renamed.fa")
	if err := os.Rename(gz, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
	rc, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	recs, err := ReadAll(context.Background(), rc)
	if err != nil || len(recs) != 2 {
		t.Fatalf("magic detection failed: %v %+v", err, recs)
	}
}
