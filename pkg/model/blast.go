package model

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yumyai/rbhsum/logger"
	"go.uber.org/zap"
)

// SearchCommand describes one external search invocation.
type SearchCommand struct {
	Program  string
	Database string
	Query    string
	EValue   *float64
	MaxHits  *int
	BinDir   string
}

var blastPrograms = map[string]bool{
	"blastp": true, "blastn": true, "blastx": true, "tblastn": true, "tblastx": true,
}

var hmmerPrograms = map[string]bool{
	"phmmer": true, "hmmsearch": true,
}

// cleanFasta validates and cleans the input FASTA string.
func cleanFasta(inputFasta string) (string, error) {
	cleaned := strings.TrimSpace(inputFasta)
	if cleaned == "" {
		return "", errors.New("input FASTA string is empty")
	}

	lines := strings.Split(cleaned, "\n")
	var validLines []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			validLines = append(validLines, trimmed)
		}
	}

	return strings.Join(validLines, "\n") + "\n", nil
}

func (c SearchCommand) binary() string {
	if c.BinDir == "" {
		return c.Program
	}
	return filepath.Join(c.BinDir, c.Program)
}

// RunSearch executes a BLAST or HMMer program and returns the parsed hit
// list, sorted ascending by e-value.
func RunSearch(ctx context.Context, c SearchCommand) ([]HitRecord, error) {
	query, err := cleanFasta(c.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to clean FASTA: %w", err)
	}

	switch {
	case blastPrograms[c.Program]:
		return runBLASTCommand(ctx, c, query)
	case hmmerPrograms[c.Program]:
		return runHMMERCommand(ctx, c, query)
	}
	return nil, fmt.Errorf("unsupported search program %q", c.Program)
}

// runBLASTCommand feeds the query on stdin and parses tabular output from stdout.
func runBLASTCommand(ctx context.Context, c SearchCommand, query string) ([]HitRecord, error) {
	args := []string{"-db", c.Database, "-outfmt", "6 std stitle"}
	if c.EValue != nil {
		args = append(args, "-evalue", strconv.FormatFloat(*c.EValue, 'g', -1, 64))
	}
	if c.MaxHits != nil {
		args = append(args, "-max_target_seqs", strconv.Itoa(*c.MaxHits))
	}

	cmd := exec.CommandContext(ctx, c.binary(), args...)
	cmd.Stdin = bytes.NewBufferString(query)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	logger.Debug("Running search", zap.String("program", c.Program), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w: %s", c.Program, err, strings.TrimSpace(stderr.String()))
	}

	hits, err := ParseTabularHits(&out, FormatBLAST6)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s output: %w", c.Program, err)
	}
	return hits, nil
}

// runHMMERCommand writes the query to a temp file and reads --tblout back.
func runHMMERCommand(ctx context.Context, c SearchCommand, query string) ([]HitRecord, error) {
	dir, err := os.MkdirTemp("", "rbhsum-hmmer")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	queryFile := filepath.Join(dir, "query.in")
	tblFile := filepath.Join(dir, "hits.tbl")
	if err := os.WriteFile(queryFile, []byte(query), 0o644); err != nil {
		return nil, fmt.Errorf("write query: %w", err)
	}

	args := []string{"--tblout", tblFile, "-o", os.DevNull}
	if c.EValue != nil {
		args = append(args, "-E", strconv.FormatFloat(*c.EValue, 'g', -1, 64))
	}
	args = append(args, queryFile, c.Database)

	cmd := exec.CommandContext(ctx, c.binary(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("Running search", zap.String("program", c.Program), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w: %s", c.Program, err, strings.TrimSpace(stderr.String()))
	}

	f, err := os.Open(tblFile)
	if err != nil {
		return nil, fmt.Errorf("open %s tblout: %w", c.Program, err)
	}
	defer f.Close()

	hits, err := ParseTabularHits(f, FormatHMMERTbl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s output: %w", c.Program, err)
	}
	// HMMer has no max target option; apply the cap after parsing.
	if c.MaxHits != nil && len(hits) > *c.MaxHits {
		hits = hits[:*c.MaxHits]
	}
	return hits, nil
}
