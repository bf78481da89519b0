package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTestSeq = ">test_seq\nLGVGCEDGVVECWDTRSNNRVGLLDTIPGLVGGASLEDP\n"

// writeTool drops an executable shell script into dir.
func writeTool(t *testing.T, dir, name, script string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+script), 0o755))
}

func TestRunSearchBLAST(t *testing.T) {
	bin := t.TempDir()
	// Echoes the query header back as a hit title so the test can see stdin.
	writeTool(t, bin, "blastp", `
header=$(head -n 1 | tr -d '>')
case "$*" in
  *"-db invalid_db"*) echo "BLAST Database error" >&2; exit 2 ;;
esac
printf 'test_seq\thitB\t80\t100\t20\t0\t1\t100\t1\t100\t1e-10\t90\tB %s\n' "$header"
printf 'test_seq\thitA\t99\t100\t1\t0\t1\t100\t1\t100\t0.0\t200\tA %s\n' "$header"
`)

	tests := []struct {
		name        string
		inputFasta  string
		db          string
		program     string
		want        []string
		shouldError bool
	}{
		{name: "ValidInput", inputFasta: validTestSeq, db: "prot_v3", program: "blastp", want: []string{"hitA", "hitB"}},
		{name: "EmptyInput", inputFasta: "  \n", db: "prot_v3", program: "blastp", shouldError: true},
		{name: "InvalidDB", inputFasta: validTestSeq, db: "invalid_db", program: "blastp", shouldError: true},
		{name: "UnknownProgram", inputFasta: validTestSeq, db: "prot_v3", program: "diamond", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := RunSearch(context.Background(), SearchCommand{
				Program:  tt.program,
				Database: tt.db,
				Query:    tt.inputFasta,
				EValue:   Float(1e-5),
				MaxHits:  Int(10),
				BinDir:   bin,
			})
			if tt.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var got []string
			for _, h := range hits {
				got = append(got, h.TargetID)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "A test_seq", hits[0].Title)
		})
	}
}

func TestRunSearchHMMER(t *testing.T) {
	bin := t.TempDir()
	writeTool(t, bin, "phmmer", `
while [ $# -gt 0 ]; do
  case "$1" in
    --tblout) tbl="$2"; shift 2 ;;
    -o|-E) shift 2 ;;
    *) shift ;;
  esac
done
cat > "$tbl" <<EOF
# target name accession query name accession E-value score bias
t2 - q - 1e-30 90.0 0.0 1e-30 89.0 0.0 1.0 1 0 0 1 1 1 1 second
t1 - q - 1e-60 190.0 0.0 1e-60 189.0 0.0 1.0 1 0 0 1 1 1 1 first
t3 - q - 1e-10 40.0 0.0 1e-10 39.0 0.0 1.0 1 0 0 1 1 1 1 third
EOF
`)

	hits, err := RunSearch(context.Background(), SearchCommand{
		Program:  "phmmer",
		Database: "db.fa",
		Query:    validTestSeq,
		MaxHits:  Int(2),
		BinDir:   bin,
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "t1", hits[0].TargetID)
	assert.Equal(t, "t1 first", hits[0].Title)
	assert.Equal(t, "t2", hits[1].TargetID)
}

func TestCleanFasta(t *testing.T) {
	got, err := cleanFasta("\n  >a  \n\nMKV \n")
	require.NoError(t, err)
	assert.Equal(t, ">a\nMKV\n", got)

	_, err = cleanFasta("   ")
	assert.Error(t, err)
}
