package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/numberenum/internal/ir"
)

// Run is one generate invocation.
type Run struct {
	ID               string `json:"id"`
	SpecsDir         string `json:"specs_dir"`
	WidthPolicy      string `json:"width_policy"`
	GeneratorVersion string `json:"generator_version"`
	Seq              int64  `json:"seq"`
}

// Generation is one emitted capability.
type Generation struct {
	RunID           string `json:"run_id"`
	TypeName        string `json:"type_name"`
	DeclarationHash string `json:"declaration_hash"`
	CapabilityID    string `json:"capability_id"`
	PackageName     string `json:"package_name"`
	OutputPath      string `json:"output_path"`
	Seq             int64  `json:"seq"`
}

// BeginRun records a new run and returns it with its id and seq assigned.
func (s *Store) BeginRun(ctx context.Context, specsDir, widthPolicy string) (Run, error) {
	run := Run{
		ID:               s.ids.Generate(),
		SpecsDir:         specsDir,
		WidthPolicy:      widthPolicy,
		GeneratorVersion: ir.GeneratorVersion,
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, specs_dir, width_policy, generator_version, seq)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, run.SpecsDir, run.WidthPolicy, run.GeneratorVersion, run.Seq)
		return err
	})
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// RecordGeneration appends g to the ledger, assigning its seq.
// The run referenced by g.RunID must exist.
func (s *Store) RecordGeneration(ctx context.Context, g Generation) (Generation, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM generations`).Scan(&g.Seq); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO generations (run_id, type_name, declaration_hash, capability_id, package_name, output_path, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, g.RunID, g.TypeName, g.DeclarationHash, g.CapabilityID, g.PackageName, g.OutputPath, g.Seq)
		return err
	})
	if err != nil {
		return Generation{}, fmt.Errorf("record generation %s: %w", g.TypeName, err)
	}
	return g, nil
}

// LastGeneration returns the most recent generation of typeName.
// The bool is false when the type was never generated.
func (s *Store) LastGeneration(ctx context.Context, typeName string) (Generation, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, type_name, declaration_hash, capability_id, package_name, output_path, seq
		FROM generations
		WHERE type_name = ?
		ORDER BY seq DESC
		LIMIT 1
	`, typeName)

	var g Generation
	err := row.Scan(&g.RunID, &g.TypeName, &g.DeclarationHash, &g.CapabilityID, &g.PackageName, &g.OutputPath, &g.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Generation{}, false, nil
	}
	if err != nil {
		return Generation{}, false, fmt.Errorf("last generation %s: %w", typeName, err)
	}
	return g, true, nil
}

// ListGenerations returns the generations of typeName in seq order, or
// every generation when typeName is empty.
func (s *Store) ListGenerations(ctx context.Context, typeName string) ([]Generation, error) {
	query := `
		SELECT run_id, type_name, declaration_hash, capability_id, package_name, output_path, seq
		FROM generations`
	var args []any
	if typeName != "" {
		query += ` WHERE type_name = ?`
		args = append(args, typeName)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(&g.RunID, &g.TypeName, &g.DeclarationHash, &g.CapabilityID, &g.PackageName, &g.OutputPath, &g.Seq); err != nil {
			return nil, fmt.Errorf("list generations: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return out, nil
}

// UpToDate reports whether the last recorded generation of c was written
// to outputPath in package packageName with the same capability id, and the
// file is still there.
func (s *Store) UpToDate(ctx context.Context, c *ir.Capability, packageName, outputPath string) (bool, error) {
	last, ok, err := s.LastGeneration(ctx, c.TypeName)
	if err != nil || !ok {
		return false, err
	}
	if last.CapabilityID != c.ID || last.PackageName != packageName || last.OutputPath != outputPath {
		return false, nil
	}
	if _, err := os.Stat(outputPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", outputPath, err)
	}
	return true, nil
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
