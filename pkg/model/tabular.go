package model

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yumyai/rbhsum/logger"
	"go.uber.org/zap"
)

// TabularFormat names a supported search output layout.
type TabularFormat string

const (
	// BLAST -outfmt 6, optionally with stitle as a 13th column.
	FormatBLAST6 TabularFormat = "blast6"
	// HMMer --tblout.
	FormatHMMERTbl TabularFormat = "hmmer_tblout"
)

func ParseTabularFormat(raw string) (TabularFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "blast6", "blast", "outfmt6":
		return FormatBLAST6, nil
	case "hmmer_tblout", "hmmer", "tblout":
		return FormatHMMERTbl, nil
	}
	return "", fmt.Errorf("unsupported tabular format %q", raw)
}

// ParseTabularHits reads one query's tabular output. Only the first line
// per target is kept (the best HSP or domain) and the hits come back sorted
// ascending by e-value. Unreadable e-values sort last.
func ParseTabularHits(r io.Reader, format TabularFormat) ([]HitRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var hits []HitRecord
	seen := map[string]struct{}{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var (
			hit HitRecord
			err error
		)
		switch format {
		case FormatBLAST6:
			hit, err = parseBLAST6Line(line)
		case FormatHMMERTbl:
			hit, err = parseTbloutLine(line)
		default:
			return nil, fmt.Errorf("unsupported tabular format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if _, dup := seen[hit.TargetID]; dup {
			continue
		}
		seen[hit.TargetID] = struct{}{}
		hits = append(hits, hit)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tabular output: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].NormalizedEValue() < hits[j].NormalizedEValue()
	})
	return hits, nil
}

func parseBLAST6Line(line string) (HitRecord, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 12 {
		return HitRecord{}, fmt.Errorf("expected at least 12 tab separated columns, got %d", len(fields))
	}
	hit := HitRecord{
		TargetID: fields[1],
		Title:    fields[1],
		EValue:   parseEValue(fields[1], fields[10]),
		Score:    parseScore(fields[11]),
	}
	if len(fields) > 12 && strings.TrimSpace(fields[12]) != "" {
		hit.Title = strings.TrimSpace(fields[12])
	}
	return hit, nil
}

func parseTbloutLine(line string) (HitRecord, error) {
	fields := strings.Fields(line)
	if len(fields) < 18 {
		return HitRecord{}, fmt.Errorf("expected at least 18 columns, got %d", len(fields))
	}
	hit := HitRecord{
		TargetID: fields[0],
		Title:    fields[0],
		EValue:   parseEValue(fields[0], fields[4]),
		Score:    parseScore(fields[5]),
	}
	if len(fields) > 18 {
		desc := strings.Join(fields[18:], " ")
		if desc != "-" {
			hit.Title = fields[0] + " " + desc
		}
	}
	return hit, nil
}

func parseEValue(target, raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || v < 0 {
		logger.Warn("Malformed e-value, sorting hit last",
			zap.String("target_id", target),
			zap.String("evalue", raw))
		return math.Inf(1)
	}
	return v
}

func parseScore(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
