// Package diagnostics implements the error taxonomy (§7) as a closed set
// of typed errors, deduplicated by (kind, primary location) and backed
// by a session-scoped SQLite table so a compiler run's callers (the CLI,
// tests) get a query surface over what went wrong without reinventing
// an index.
//
// Grounded on original_source/src/semantics/error.rs for the taxonomy
// shape and funvibe-funxy's internal/analyzer/analyzer.go `addError`
// dedup-by-position pattern.
package diagnostics

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/corelang/hirc/internal/source"
)

// Kind is the closed set of error kinds from §7.
type Kind string

const (
	UndefinedName         Kind = "undefined_name"
	NoFunction            Kind = "no_function"
	TypeMismatch          Kind = "type_mismatch"
	AssignmentToImmutable Kind = "assignment_to_immutable"
	NotConvertible        Kind = "not_convertible"
	NotImplemented        Kind = "not_implemented"
	CantDeduceReturnType  Kind = "cant_deduce_return_type"
	ReturnTypeMismatch    Kind = "return_type_mismatch"
	EmptyBlock            Kind = "empty_block"
	UnknownType           Kind = "unknown_type"
	InvalidBuiltin        Kind = "invalid_builtin"
	CyclicType            Kind = "cyclic_type"
)

// Diagnostic is one collected error, ready for rendering.
type Diagnostic struct {
	Kind    Kind
	Message string
	Loc     source.Location
}

// Store collects a compiler session's diagnostics. It is backed by an
// in-memory SQLite table (one per session, discarded with it — this is
// not the incremental-recompilation cache the specification excludes,
// just a query surface over a single run's output) and deduplicates by
// (kind, file path, start offset): re-reporting the same error from a
// second pass over the same node is a no-op, matching the teacher's
// errorSet-by-position idiom.
type Store struct {
	db *sql.DB
}

// NewStore opens a fresh `:memory:` SQLite database and creates the
// diagnostics table.
func NewStore() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("diagnostics: opening store: %w", err)
	}
	const schema = `
		CREATE TABLE diagnostics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			message TEXT NOT NULL,
			file TEXT NOT NULL,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			UNIQUE(kind, file, start_offset)
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("diagnostics: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close discards the session's diagnostics.
func (s *Store) Close() error {
	return s.db.Close()
}

// Report records a diagnostic, silently ignoring a duplicate (same
// kind at the same primary location).
func (s *Store) Report(d Diagnostic) error {
	file := ""
	if d.Loc.File != nil {
		file = d.Loc.File.Path
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO diagnostics (kind, message, file, start_offset, end_offset) VALUES (?, ?, ?, ?, ?)`,
		string(d.Kind), d.Message, file, d.Loc.Start, d.Loc.End,
	)
	if err != nil {
		return fmt.Errorf("diagnostics: reporting %s: %w", d.Kind, err)
	}
	return nil
}

// All returns every distinct diagnostic collected so far, ordered by
// file then position.
func (s *Store) All() ([]Diagnostic, error) {
	rows, err := s.db.Query(`SELECT kind, message, file, start_offset, end_offset FROM diagnostics ORDER BY file, start_offset`)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: querying all: %w", err)
	}
	defer rows.Close()
	return scanDiagnostics(rows)
}

// OfKind returns every diagnostic of a specific kind, the "all errors of
// kind X" query surface SPEC_FULL.md's ambient stack promises.
func (s *Store) OfKind(kind Kind) ([]Diagnostic, error) {
	rows, err := s.db.Query(`SELECT kind, message, file, start_offset, end_offset FROM diagnostics WHERE kind = ? ORDER BY file, start_offset`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("diagnostics: querying kind %s: %w", kind, err)
	}
	defer rows.Close()
	return scanDiagnostics(rows)
}

// InFile returns every diagnostic reported against a given file path.
func (s *Store) InFile(path string) ([]Diagnostic, error) {
	rows, err := s.db.Query(`SELECT kind, message, file, start_offset, end_offset FROM diagnostics WHERE file = ? ORDER BY start_offset`, path)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: querying file %s: %w", path, err)
	}
	defer rows.Close()
	return scanDiagnostics(rows)
}

// Count returns how many distinct diagnostics have been collected.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM diagnostics`).Scan(&n); err != nil {
		return 0, fmt.Errorf("diagnostics: counting: %w", err)
	}
	return n, nil
}

func scanDiagnostics(rows *sql.Rows) ([]Diagnostic, error) {
	var out []Diagnostic
	for rows.Next() {
		var kind, message, file string
		var start, end int
		if err := rows.Scan(&kind, &message, &file, &start, &end); err != nil {
			return nil, fmt.Errorf("diagnostics: scanning row: %w", err)
		}
		loc := source.Location{Start: start, End: end}
		if file != "" {
			loc.File = source.NewFile(file, "")
		}
		out = append(out, Diagnostic{Kind: Kind(kind), Message: message, Loc: loc})
	}
	return out, rows.Err()
}
