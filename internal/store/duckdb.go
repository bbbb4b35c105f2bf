package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/biogo/biogo/seq"

	"github.com/biocore/locuspick/internal/tx"
)

// DuckDBStore caches ORF, BLAST-hit, and junction lookups in DuckDB,
// opened either on-disk or in-memory, with its schema created on first
// use.
type DuckDBStore struct {
	db       *sql.DB
	maxRetry int
	backoff  time.Duration
}

// Open opens or creates a DuckDB database at path (empty for in-memory).
func Open(path string) (*DuckDBStore, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("store: open duckdb: %w", err)
	}

	s := &DuckDBStore{db: db, maxRetry: 3, backoff: 50 * time.Millisecond}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *DuckDBStore) Close() error { return s.db.Close() }

// DB returns the underlying *sql.DB for direct access (snapshot loading,
// administrative queries).
func (s *DuckDBStore) DB() *sql.DB { return s.db }

func (s *DuckDBStore) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orfs (
			transcript_id VARCHAR,
			cds_start BIGINT,
			cds_end BIGINT,
			strand VARCHAR,
			has_start_codon BOOLEAN,
			has_stop_codon BOOLEAN
		)`,
		`CREATE TABLE IF NOT EXISTS blast_hits (
			transcript_id VARCHAR,
			evalue DOUBLE,
			bitscore DOUBLE,
			query_start BIGINT,
			query_end BIGINT,
			hit_start BIGINT,
			hit_end BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS junctions (
			chrom VARCHAR,
			start BIGINT,
			"end" BIGINT,
			verified BOOLEAN
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// withRetry runs op up to s.maxRetry+1 times with linear backoff, wrapping
// the final failure in an ExternalStoreError.
func (s *DuckDBStore) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetry; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < s.maxRetry {
			select {
			case <-ctx.Done():
				return &ExternalStoreError{Op: op, Err: ctx.Err()}
			case <-time.After(s.backoff * time.Duration(attempt+1)):
			}
		}
	}
	return &ExternalStoreError{Op: op, Err: err}
}

// OrfsFor implements ExternalStore.
func (s *DuckDBStore) OrfsFor(ctx context.Context, transcriptID string) ([]tx.ORFRecord, error) {
	var records []tx.ORFRecord
	err := s.withRetry(ctx, "orfs_for", func() error {
		records = nil
		rows, err := s.db.QueryContext(ctx, `SELECT cds_start, cds_end, strand, has_start_codon, has_stop_codon
			FROM orfs WHERE transcript_id = ?`, transcriptID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rec tx.ORFRecord
			var strand string
			if err := rows.Scan(&rec.CDSStart, &rec.CDSEnd, &strand, &rec.HasStartCodon, &rec.HasStopCodon); err != nil {
				return err
			}
			rec.Strand = parseStrand(strand)
			records = append(records, rec)
		}
		return rows.Err()
	})
	return records, err
}

// BlastHitsFor implements ExternalStore.
func (s *DuckDBStore) BlastHitsFor(ctx context.Context, transcriptID string) ([]BlastHit, error) {
	var hits []BlastHit
	err := s.withRetry(ctx, "blast_hits_for", func() error {
		hits = nil
		rows, err := s.db.QueryContext(ctx, `SELECT evalue, bitscore, query_start, query_end, hit_start, hit_end
			FROM blast_hits WHERE transcript_id = ?`, transcriptID)
		if err != nil {
			return err
		}
		defer rows.Close()
		byScore := make(map[float64]*BlastHit)
		var order []float64
		for rows.Next() {
			var evalue, bitscore float64
			var hsp HSP
			if err := rows.Scan(&evalue, &bitscore, &hsp.QueryStart, &hsp.QueryEnd, &hsp.HitStart, &hsp.HitEnd); err != nil {
				return err
			}
			h, ok := byScore[bitscore]
			if !ok {
				h = &BlastHit{Evalue: evalue, Bitscore: bitscore}
				byScore[bitscore] = h
				order = append(order, bitscore)
			}
			h.HSPList = append(h.HSPList, hsp)
		}
		for _, score := range order {
			hits = append(hits, *byScore[score])
		}
		return rows.Err()
	})
	return hits, err
}

// JunctionsFor implements ExternalStore.
func (s *DuckDBStore) JunctionsFor(ctx context.Context, chrom string, start, end int64) ([]Junction, error) {
	var junctions []Junction
	err := s.withRetry(ctx, "junctions_for", func() error {
		junctions = nil
		rows, err := s.db.QueryContext(ctx, `SELECT start, "end", verified FROM junctions
			WHERE chrom = ? AND start <= ? AND "end" >= ?`, chrom, end, start)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var j Junction
			if err := rows.Scan(&j.Start, &j.End, &j.Verified); err != nil {
				return err
			}
			junctions = append(junctions, j)
		}
		return rows.Err()
	})
	return junctions, err
}

func parseStrand(s string) seq.Strand {
	switch s {
	case "+":
		return seq.Plus
	case "-":
		return seq.Minus
	default:
		return seq.None
	}
}
