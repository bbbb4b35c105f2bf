package main

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/biogo/seq"

	"github.com/biocore/locuspick/internal/tx"
)

// readFeatures streams GTF/GFF3 lines from path (gzip-aware) into
// tx.FeatureRecord values. This is the CLI's sole parsing concern — the
// core package never sees raw text.
func readFeatures(path string) ([]tx.FeatureRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feature file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var records []tx.FeatureRecord
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseFeatureLine(line)
		if err != nil {
			continue // malformed lines are skipped, not fatal
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}

func parseFeatureLine(line string) (tx.FeatureRecord, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return tx.FeatureRecord{}, fmt.Errorf("expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return tx.FeatureRecord{}, fmt.Errorf("parse start: %w", err)
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return tx.FeatureRecord{}, fmt.Errorf("parse end: %w", err)
	}

	phase := -1
	if fields[7] != "." {
		phase, err = strconv.Atoi(fields[7])
		if err != nil {
			phase = -1
		}
	}

	return tx.FeatureRecord{
		Chrom:      fields[0],
		Source:     fields[1],
		Feature:    fields[2],
		Start:      start,
		End:        end,
		Strand:     parseFeatureStrand(fields[6]),
		Phase:      phase,
		Attributes: parseFeatureAttributes(fields[8]),
	}, nil
}

func parseFeatureStrand(s string) seq.Strand {
	switch s {
	case "+":
		return seq.Plus
	case "-":
		return seq.Minus
	default:
		return seq.None
	}
}

// parseFeatureAttributes handles both GTF ("key \"value\"; ...") and GFF3
// ("key=value;...") attribute columns.
func parseFeatureAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "="); idx != -1 && !strings.Contains(part[:idx], " ") {
			attrs[part[:idx]] = strings.TrimSpace(part[idx+1:])
			continue
		}
		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}
		key := part[:idx]
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")
		attrs[key] = value
	}
	return attrs
}
