package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fake 'samtools' that echoes the requested ids back as FASTA records
func createFakeSamtools(t *testing.T, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake samtools needs a POSIX shell")
	}
	script := "#!/bin/sh\n" +
		"while read id; do\n" +
		"  printf '>%s\\nMKV\\n' \"$id\"\n" +
		"done\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "samtools"), []byte(script), 0o755))
}

func TestFastaPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PinsDB.faa.gz"), []byte(""), 0o644))

	seqdb, err := NewSequenceDB(dir)
	require.NoError(t, err)

	got, err := seqdb.FastaPath("PinsDB")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "PinsDB.faa.gz"), got)

	_, err = seqdb.FastaPath("Other")
	assert.True(t, errors.Is(err, ErrSequenceNotExists))
}

func TestNewSequenceDBMissingDir(t *testing.T) {
	_, err := NewSequenceDB(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestGetSequences_MockSamtools(t *testing.T) {
	bin := t.TempDir()
	createFakeSamtools(t, bin)
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PinsDB.fa"), []byte(">x\nA\n"), 0o644))
	seqdb := &SequenceDB{Dir: dir}

	out, err := seqdb.GetSequences(context.Background(), "PinsDB", []string{"hitA", "hitB"})
	require.NoError(t, err)
	assert.Equal(t, ">hitA\nMKV\n>hitB\nMKV\n", string(out))

	out, err = seqdb.GetSequences(context.Background(), "PinsDB", nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSplitFasta(t *testing.T) {
	records := SplitFasta([]byte(">hitA desc one\nMKV\nLLA\r\n\n>hitB\nGGG\n"))
	assert.Equal(t, map[string]string{
		"hitA": ">hitA desc one\nMKV\nLLA\n",
		"hitB": ">hitB\nGGG\n",
	}, records)

	assert.Empty(t, SplitFasta(nil))
	assert.Empty(t, SplitFasta([]byte("MKV\n")), "sequence lines without a header are dropped")
}
