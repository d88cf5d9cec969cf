// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"grna/core/sequence"
	"grna/internal/app"
	"grna/pkg/api"
)

func write(t *testing.T, name, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

// randomBatch writes n generated sequences as FASTA.
func randomBatch(t *testing.T, n, length int) string {
	t.Helper()
	src := rand.NewPCG(11, 13)
	var b strings.Builder
	for i := range n {
		s, err := sequence.Generate(length, 0.5, src)
		if err != nil {
			t.Fatal(err)
		}
		fmt.Fprintf(&b, ">s%d\n%s\n", i+1, s)
	}
	return write(t, "batch.fa", b.String())
}

func TestEndToEnd(t *testing.T) {
	t.Chdir(t.TempDir())
	fa := randomBatch(t, 3, 200)

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"batch", fa}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errBuf.String())
	}
	if out.Len() == 0 {
		t.Fatalf("expected text output")
	}
}

func TestParallelMatchesEqualSerial(t *testing.T) {
	t.Chdir(t.TempDir())
	fa := randomBatch(t, 12, 300)

	run := func(threads int, index bool) []api.CandidateV1 {
		var out, errB bytes.Buffer
		code := app.Run([]string{
			"batch", fa,
			"--threads", fmt.Sprint(threads),
			"--index=" + fmt.Sprint(index),
			"--pool", "all",
			"--off-targets",
			"--output", "json",
		}, &out, &errB)
		if code != 0 {
			t.Fatalf("exit %d err %s", code, errB.String())
		}
		var list []api.CandidateV1
		if err := json.Unmarshal(out.Bytes(), &list); err != nil {
			t.Fatalf("decode: %v", err)
		}
		for i := range list {
			list[i].RunID = ""
		}
		return list
	}

	serial := run(1, false)
	parallel := run(4, true)

	if len(serial) == 0 {
		t.Fatal("no candidates")
	}
	a, _ := json.Marshal(serial)
	b, _ := json.Marshal(parallel)
	if !bytes.Equal(a, b) {
		t.Fatalf("parallel output differs from serial\nserial: %s\nparallel:%s", a, b)
	}
}
