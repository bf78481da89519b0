package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/yumyai/rbhsum/internal/util"
)

// Defining possible error
var ErrSequenceNotExists = errors.New("sequence file does not exist")

// SequenceDB is a folder of samtools-indexed FASTA files, one per search
// database, named <database id>.<ext>.
type SequenceDB struct {
	Dir string
}

var fastaExtensions = []string{".fa.gz", ".faa.gz", ".fna.gz", ".fasta.gz", ".fa", ".faa", ".fna", ".fasta"}

func NewSequenceDB(dir string) (*SequenceDB, error) {
	if !util.DirExists(dir) {
		return nil, fmt.Errorf("%w: %s", os.ErrNotExist, dir)
	}
	return &SequenceDB{Dir: dir}, nil
}

// FastaPath finds the FASTA file backing databaseID.
func (seqdb *SequenceDB) FastaPath(databaseID string) (string, error) {
	base := filepath.Base(databaseID)
	for _, ext := range fastaExtensions {
		candidate := filepath.Join(seqdb.Dir, base+ext)
		if util.FileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSequenceNotExists, databaseID)
}

// GetSequences fetches the records named by ids from the FASTA file of
// databaseID using samtools faidx.
func (seqdb *SequenceDB) GetSequences(ctx context.Context, databaseID string, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return []byte{}, nil
	}
	fasta, err := seqdb.FastaPath(databaseID)
	if err != nil {
		return nil, err
	}

	// Input for samtools ( stdin ), one sequence id per line.
	var idBuffer bytes.Buffer
	for _, id := range ids {
		idBuffer.WriteString(id)
		idBuffer.WriteString("\n")
	}

	// cat ids.txt | samtools faidx db.fa.gz -r -
	cmd := exec.CommandContext(ctx, "samtools", "faidx", fasta, "-r", "-")
	cmd.Stdin = &idBuffer

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("samtools faidx %s: %w - %s", fasta, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// SplitFasta breaks samtools output into one record per sequence, keyed by
// the first word of the header. Each record keeps its header line.
func SplitFasta(data []byte) map[string]string {
	records := map[string]string{}
	var (
		id     string
		record strings.Builder
	)
	flush := func() {
		if id != "" {
			records[id] = record.String()
		}
		record.Reset()
	}

	for _, line := range bytes.Split(data, []byte("\n")) {
		lineStr := strings.TrimRight(string(line), "\r")
		if lineStr == "" {
			continue
		}
		if strings.HasPrefix(lineStr, ">") {
			flush()
			id = ""
			if fields := strings.Fields(strings.TrimPrefix(lineStr, ">")); len(fields) > 0 {
				id = fields[0]
			}
		}
		record.WriteString(lineStr)
		record.WriteString("\n")
	}
	flush()
	return records
}
