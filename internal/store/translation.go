package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Translation statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Translation is one recorded compiler run.
type Translation struct {
	ID           string `json:"id"`
	ScriptName   string `json:"script_name"`
	ScriptPath   string `json:"script_path"`
	Language     string `json:"language"`
	IRHash       string `json:"ir_hash,omitempty"`
	OptionsHash  string `json:"options_hash"`
	ModuleHash   string `json:"module_hash,omitempty"`
	ModuleJSON   string `json:"module_json,omitempty"`
	Status       string `json:"status"`
	ErrorStage   string `json:"error_stage,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Seq          int64  `json:"seq"`
}

// WriteTranslation inserts a translation record.
// Uses ON CONFLICT DO NOTHING for idempotency: a successful translation with
// the same IR, options and module hashes as an existing one is ignored and
// inserted is false.
func (s *Store) WriteTranslation(ctx context.Context, t Translation) (inserted bool, err error) {
	if t.Status != StatusOK && t.Status != StatusError {
		return false, fmt.Errorf("write translation: invalid status %q", t.Status)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO translations
		(id, script_name, script_path, language, ir_hash, options_hash,
		 module_hash, module_json, status, error_stage, error_message, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		t.ID,
		t.ScriptName,
		t.ScriptPath,
		t.Language,
		t.IRHash,
		t.OptionsHash,
		t.ModuleHash,
		t.ModuleJSON,
		t.Status,
		t.ErrorStage,
		t.ErrorMessage,
		t.Seq,
	)
	if err != nil {
		return false, fmt.Errorf("write translation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write translation: %w", err)
	}
	return n == 1, nil
}

const translationColumns = `id, script_name, script_path, language, ir_hash, options_hash,
	module_hash, module_json, status, error_stage, error_message, seq`

type scanner interface {
	Scan(dest ...any) error
}

func scanTranslation(row scanner) (Translation, error) {
	var t Translation
	err := row.Scan(
		&t.ID,
		&t.ScriptName,
		&t.ScriptPath,
		&t.Language,
		&t.IRHash,
		&t.OptionsHash,
		&t.ModuleHash,
		&t.ModuleJSON,
		&t.Status,
		&t.ErrorStage,
		&t.ErrorMessage,
		&t.Seq,
	)
	return t, err
}

// GetTranslation returns the record with the given id. The boolean is false
// when no such record exists.
func (s *Store) GetTranslation(ctx context.Context, id string) (Translation, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+translationColumns+`
		FROM translations
		WHERE id = ?
	`, id)
	t, err := scanTranslation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Translation{}, false, nil
	}
	if err != nil {
		return Translation{}, false, fmt.Errorf("get translation %s: %w", id, err)
	}
	return t, true, nil
}

// LookupTranslation returns the most recent successful translation of an IR
// tree under the given options.
func (s *Store) LookupTranslation(ctx context.Context, irHash, optionsHash string) (Translation, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+translationColumns+`
		FROM translations
		WHERE ir_hash = ? AND options_hash = ? AND status = 'ok'
		ORDER BY seq DESC, id ASC COLLATE BINARY
		LIMIT 1
	`, irHash, optionsHash)
	t, err := scanTranslation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Translation{}, false, nil
	}
	if err != nil {
		return Translation{}, false, fmt.Errorf("lookup translation: %w", err)
	}
	return t, true, nil
}

// ListTranslations returns up to limit records, newest first. A limit of zero
// or less returns every record.
func (s *Store) ListTranslations(ctx context.Context, limit int) ([]Translation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+translationColumns+`
		FROM translations
		ORDER BY seq DESC, id ASC COLLATE BINARY
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	var out []Translation
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, fmt.Errorf("list translations: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return out, nil
}

// MaxSeq returns the highest recorded seq, or 0 for an empty log.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM translations`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq, nil
}
