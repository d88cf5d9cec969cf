package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grna/internal/version"
	"grna/pkg/api"
)

const scenario = "AAGCGGTACCTGGAAGGTAGGCCTGGAACCTGGA"

// run executes argv in a scratch directory so no grna.yaml or .env leaks in.
func run(t *testing.T, argv ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Chdir(t.TempDir())
	var out, errBuf bytes.Buffer
	code = Run(argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func write(t *testing.T, name, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

func TestDesignText(t *testing.T) {
	code, out, errOut := run(t, "design", "-s", strings.ToLower(scenario))
	require.Equal(t, 0, code, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "sequence_id\trank\tid\t"))
	for i, l := range lines[1:] {
		f := strings.Split(l, "\t")
		assert.Equal(t, "Sequence_1", f[0])
		assert.Equal(t, []string{"1", "2", "3"}[i], f[1])
	}
}

func TestDesignJSONFromFASTA(t *testing.T) {
	fa := write(t, "in.fa", ">t1 demo\n"+scenario[:17]+"\n"+scenario[17:]+"\n")
	code, out, errOut := run(t, "design", "-o", "json", "--limit", "2", fa)
	require.Equal(t, 0, code, errOut)
	var list []api.CandidateV1
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "t1", list[0].SequenceID)
	assert.Equal(t, 1, list[0].Rank)
	assert.NotEmpty(t, list[0].RunID)
	assert.Equal(t, list[0].RunID, list[1].RunID)
	assert.GreaterOrEqual(t, list[0].Efficiency, list[1].Efficiency)
}

func TestDesignNoMatch(t *testing.T) {
	noPAM := strings.Repeat("AT", 15)
	code, _, _ := run(t, "design", "-s", noPAM)
	assert.Equal(t, 1, code)
	code, _, _ = run(t, "design", "--no-match-exit-code", "0", "-s", noPAM)
	assert.Equal(t, 0, code)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"unknown flag", []string{"design", "--bogus"}},
		{"unknown command", []string{"frobnicate"}},
		{"no input", []string{"design"}},
		{"invalid base", []string{"design", "-s", "ACGTXACGTACGTACGTACGTACGTAGG"}},
		{"too short", []string{"design", "-s", "ACGTAGG"}},
		{"unknown system", []string{"design", "-S", "Cas13", "-s", scenario}},
		{"bad format", []string{"design", "-o", "yaml", "-s", scenario}},
		{"bad risk", []string{"design", "--max-risk", "severe", "-s", scenario}},
		{"guide length", []string{"score", "ACGT"}},
		{"batch missing file", []string{"batch", "/nonexistent/batch.csv"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := run(t, tc.argv...)
			assert.Equal(t, 2, code)
			assert.Contains(t, errOut, "error:")
		})
	}
}

func TestBatchIdenticalSequences(t *testing.T) {
	csv := write(t, "batch.csv", "name,sequence\na,"+scenario+"\nb,"+scenario+"\nbad,NOPE\n")
	code, out, errOut := run(t, "batch", "-o", "jsonl", "--summary", csv)
	require.Equal(t, 0, code, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	seen := map[string]int{}
	for _, l := range lines {
		var c api.CandidateV1
		require.NoError(t, json.Unmarshal([]byte(l), &c))
		assert.Equal(t, "exact-duplicate", c.Risk)
		seen[c.SequenceID]++
	}
	assert.Equal(t, map[string]int{"a": 3, "b": 3}, seen)
	assert.Contains(t, errOut, "sequences: 3 (succeeded 2, failed 1, canceled 0)")
	assert.Contains(t, errOut, "sequence failed")
}

func TestBatchMaxRiskFilter(t *testing.T) {
	csv := write(t, "batch.csv", scenario+"\n"+scenario+"\n")
	code, out, _ := run(t, "batch", "--max-risk", "high", "--header=false", csv)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
}

func TestBatchTooLarge(t *testing.T) {
	csv := write(t, "batch.csv", scenario+"\n"+scenario+"\n")
	code, _, errOut := run(t, "batch", "--max-batch", "1", csv)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "exceeds the limit of 1")
}

func TestScore(t *testing.T) {
	code, out, errOut := run(t, "score", "gagtccgagcagaagaagaa", "GAGTCCGAGCAGAAGAAGAA")
	require.Equal(t, 0, code, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	f := strings.Split(lines[1], "\t")
	assert.Equal(t, "GAGTCCGAGCAGAAGAAGAA", f[0])
	assert.Equal(t, "0.500", f[1])
	assert.Equal(t, "1.000", f[2])

	code, out, _ = run(t, "score", "-o", "json", "GAGTCCGAGCAGAAGAAGAA")
	require.Equal(t, 0, code)
	var list []api.ScoreResponseV1
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "SpCas9", list[0].System)
}

func TestOffTarget(t *testing.T) {
	fa := write(t, "pool.fa", ">t1\n"+scenario+"\n")
	code, out, errOut := run(t, "offtarget", "-m", "0", "CGGTACCTGGAAGGTAGGCC", fa)
	require.Equal(t, 0, code, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "t1\t3\t+\t0\t\tCGGTACCTGGAAGGTAGGCC\texact-duplicate", lines[1])
	assert.Equal(t, "# risk exact duplicate  off-target score 20.0", lines[2])

	code, out, _ = run(t, "offtarget", "-o", "json", "-m", "0", "CGGTACCTGGAAGGTAGGCA", fa)
	assert.Equal(t, 1, code)
	var resp api.OffTargetResponseV1
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Empty(t, resp.Hits)
	assert.Equal(t, "low", resp.Risk)
}

func TestSystems(t *testing.T) {
	code, out, _ := run(t, "systems", "-o", "json")
	require.Equal(t, 0, code)
	var list []api.SystemV1
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "Cas12a", list[0].Name)
}

func TestAnalyzeAndRevcomp(t *testing.T) {
	code, out, _ := run(t, "analyze", "-s", "ACGGN")
	require.Equal(t, 0, code)
	assert.Equal(t, "id\tlength\tgc_percent\tA\tC\tG\tT\tother\nSequence_1\t5\t60.00\t1\t1\t2\t0\t1\n", out)

	code, out, _ = run(t, "revcomp", "-s", "aacg", "-s", "GATTACA")
	require.Equal(t, 0, code)
	assert.Equal(t, "CGTT\nTGTAATC\n", out)
}

func TestGenerateReproducible(t *testing.T) {
	argv := []string{"generate", "--length", "130", "--count", "2", "--organism", "mycobacterium", "--seed", "42"}
	code, a, _ := run(t, argv...)
	require.Equal(t, 0, code)
	_, b, _ := run(t, argv...)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, strings.Count(a, ">random_"))
	assert.Contains(t, a, "gc=0.65 seed=42")

	code, _, _ = run(t, "generate", "--organism", "martian")
	assert.Equal(t, 2, code)
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "version")
	require.Equal(t, 0, code)
	assert.Equal(t, "grna version "+version.Version+"\n", out)
}

func TestHelp(t *testing.T) {
	code, out, _ := run(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "design")
	assert.Contains(t, out, "batch")
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("GRNA_OUTPUT_FORMAT", "jsonl")
	code, out, errOut := run(t, "design", "-s", scenario)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.True(t, strings.HasPrefix(out, "{"))

	// flags beat the environment
	code, out, _ = run(t, "design", "-o", "csv", "-s", scenario)
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "sequence_id,rank"))
}

func TestConfigFile(t *testing.T) {
	cfg := write(t, "grna.yaml", "output:\n  header: false\nfilters:\n  limit: 1\n")
	code, out, errOut := run(t, "--config", cfg, "design", "-s", scenario)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.True(t, strings.HasPrefix(out, "Sequence_1\t1\t"))
}
