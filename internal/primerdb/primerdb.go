// Package primerdb keeps a local sqlite catalog of designed primer
// sets, one row per primer, so past runs can be listed, searched, and
// retired without rerunning the design
package primerdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hainesm6-learning/mascpcr/config"
	"github.com/hainesm6-learning/mascpcr/internal/design"
)

// primer roles within a set
const (
	RoleDiscriminatory = "discriminatory"
	RoleWildtype       = "wildtype"
	RoleCommon         = "common"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	created_at   TEXT NOT NULL,
	genome       TEXT NOT NULL,
	reference    TEXT NOT NULL,
	region_start INTEGER NOT NULL,
	region_end   INTEGER NOT NULL,
	params       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS primers (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	bin          INTEGER NOT NULL,
	role         TEXT NOT NULL,
	seq          TEXT NOT NULL,
	start        INTEGER NOT NULL,
	length       INTEGER NOT NULL,
	strand       TEXT NOT NULL,
	tm           REAL NOT NULL,
	product_size INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS primers_run ON primers(run_id);
CREATE INDEX IF NOT EXISTS primers_seq ON primers(seq);
`

// DB is an open primer catalog
type DB struct {
	sql *sql.DB
}

// Open opens the catalog at path, creating the file and schema on
// first use
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create catalog dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open primer catalog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init primer catalog: %w", err)
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	return d.sql.Close()
}

// Run is one catalog entry for a design run
type Run struct {
	// ID of the run
	ID string

	// CreatedAt in UTC
	CreatedAt time.Time

	// Genome, Reference sequence IDs
	Genome    string
	Reference string

	// Start, End of the designed region
	Start, End int

	// Params is the JSON snapshot of the design settings
	Params string

	// Primers recorded for the run
	Primers int
}

// Primer is one catalog row
type Primer struct {
	RunID       string
	Bin         int
	Role        string
	Seq         string
	Start       int
	Length      int
	Strand      string
	Tm          float64
	ProductSize int
}

// runParams is the settings snapshot stored with each run
type runParams struct {
	TmMin           float64 `json:"tmMin"`
	TmMax           float64 `json:"tmMax"`
	MinSize         int     `json:"minSize"`
	MaxSize         int     `json:"maxSize"`
	MinMismatches   int     `json:"minMismatches"`
	SpuriousTmClip  float64 `json:"spuriousTmClip"`
	MismatchWeights []int   `json:"mismatchWeights"`
	ProductSizes    []int   `json:"productSizes"`
	SizeTolerance   int     `json:"sizeTolerance"`
	EdgeOffset      int     `json:"edgeOffset"`
	Lenient         bool    `json:"lenient"`
	Offtarget       bool    `json:"offtarget"`
}

// RecordRun inserts the run and every primer of every set
func (d *DB) RecordRun(ctx context.Context, res *design.Result, in design.Input, conf *config.Config) error {
	params, err := json.Marshal(runParams{
		TmMin:           conf.Primer.TmMin,
		TmMax:           conf.Primer.TmMax,
		MinSize:         conf.Primer.MinSize,
		MaxSize:         conf.Primer.MaxSize,
		MinMismatches:   conf.Primer.MinMismatches,
		SpuriousTmClip:  conf.Primer.SpuriousTmClip,
		MismatchWeights: conf.Primer.MismatchWeights,
		ProductSizes:    conf.Bins.ProductSizes,
		SizeTolerance:   conf.Bins.SizeTolerance,
		EdgeOffset:      conf.Bins.EdgeOffset,
		Lenient:         conf.Primer.Lenient,
		Offtarget:       conf.Offtarget.Enabled,
	})
	if err != nil {
		return err
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, genome, reference, region_start, region_end, params)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, time.Now().UTC().Format(time.RFC3339),
		in.Recoded.ID, in.Reference.ID, in.Start, in.End, string(params))
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO primers (run_id, bin, role, seq, start, length, strand, tm, product_size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, pair := range res.Pairs {
		for _, p := range []struct {
			role string
			c    design.Candidate
		}{
			{RoleDiscriminatory, pair.Discriminatory},
			{RoleWildtype, pair.Wildtype},
			{RoleCommon, pair.Common},
		} {
			_, err := stmt.ExecContext(ctx, res.RunID, pair.Bin, p.role, p.c.Seq,
				p.c.Start, p.c.Length, p.c.Strand.String(), p.c.Tm, pair.ProductSize)
			if err != nil {
				return fmt.Errorf("failed to record primer: %w", err)
			}
		}
	}

	return tx.Commit()
}

// ListRuns returns every cataloged run, newest first
func (d *DB) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT r.id, r.created_at, r.genome, r.reference, r.region_start, r.region_end, r.params,
		        COUNT(p.rowid)
		 FROM runs r LEFT JOIN primers p ON p.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Genome, &r.Reference, &r.Start, &r.End, &r.Params, &r.Primers); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("bad created_at for run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Primers returns the primers of one run, by bin and role
func (d *DB) Primers(ctx context.Context, runID string) ([]Primer, error) {
	return d.queryPrimers(ctx,
		`SELECT run_id, bin, role, seq, start, length, strand, tm, product_size
		 FROM primers WHERE run_id = ?
		 ORDER BY bin, CASE role WHEN 'discriminatory' THEN 0 WHEN 'wildtype' THEN 1 ELSE 2 END`,
		runID)
}

// FindPrimers returns every cataloged primer whose sequence contains
// needle
func (d *DB) FindPrimers(ctx context.Context, needle string) ([]Primer, error) {
	return d.queryPrimers(ctx,
		`SELECT run_id, bin, role, seq, start, length, strand, tm, product_size
		 FROM primers WHERE seq LIKE '%' || ? || '%'
		 ORDER BY run_id, bin, role`,
		needle)
}

func (d *DB) queryPrimers(ctx context.Context, query string, args ...interface{}) ([]Primer, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var primers []Primer
	for rows.Next() {
		var p Primer
		if err := rows.Scan(&p.RunID, &p.Bin, &p.Role, &p.Seq, &p.Start, &p.Length, &p.Strand, &p.Tm, &p.ProductSize); err != nil {
			return nil, err
		}
		primers = append(primers, p)
	}
	return primers, rows.Err()
}

// DeleteRun removes a run and its primers
func (d *DB) DeleteRun(ctx context.Context, runID string) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM primers WHERE run_id = ?`, runID); err != nil {
		return err
	}
	deleted, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return err
	}
	if n, err := deleted.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("no run %s in the catalog", runID)
	}

	return tx.Commit()
}
