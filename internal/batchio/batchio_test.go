package batchio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grna/core/design"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []design.Entry
	}{
		{
			"csv with header",
			"name,sequence\nfirst,ACGT\nsecond, ACGG \n",
			[]design.Entry{{Name: "first", Raw: "ACGT"}, {Name: "second", Raw: "ACGG"}},
		},
		{
			"header with swapped columns",
			"sequence,id\nACGT,a\n",
			[]design.Entry{{Name: "a", Raw: "ACGT"}},
		},
		{
			"csv without header",
			"first,ACGT\nsecond,ACGG\n",
			[]design.Entry{{Name: "first", Raw: "ACGT"}, {Name: "second", Raw: "ACGG"}},
		},
		{
			"plain text one per line",
			"ACGT\n\n# comment\nacgg\n",
			[]design.Entry{{Raw: "ACGT"}, {Raw: "acgg"}},
		},
		{
			"tsv",
			"name\tsequence\nx\tACGT\n",
			[]design.Entry{{Name: "x", Raw: "ACGT"}},
		},
		{
			"fasta",
			">x desc\nACGT\nACGT\n>y\nGG\n",
			[]design.Entry{{Name: "x", Raw: "ACGTACGT"}, {Name: "y", Raw: "GG"}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(context.Background(), strings.NewReader(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(context.Background(), strings.NewReader("name,sequence\n"))
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,sequence\na,ACGT\n"), 0o644))
	got, err := Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []design.Entry{{Name: "a", Raw: "ACGT"}}, got)

	_, err = Read(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
