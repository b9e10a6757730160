// Package sqlite stores family records in a SQLite database.
//
// The schema has three tables, optionally sharing a name prefix so several
// families can live in one file:
//
//	persons               (id, seq, name, sex, parent)
//	partnerships          (seq, id, partner, name, sex, since, till)
//	partnership_children  (partnership, pos, child)
//
// Row order is preserved through explicit sequence columns, since the layout
// depends on the input order of persons and relationships.
//
// The driver is modernc.org/sqlite, so no cgo is required.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/family"
)

// Open opens a SQLite database at path. ":memory:" opens an in-memory
// database.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// An in-memory database exists per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return db, nil
}

// Store reads and writes one family's records.
type Store struct {
	db     *sql.DB
	prefix string
}

// New returns a Store whose tables are named with prefix. The prefix must be
// a plain identifier or empty.
func New(db *sql.DB, prefix string) (*Store, error) {
	if prefix != "" {
		if err := errors.ValidateIdentifier(prefix); err != nil {
			return nil, err
		}
		prefix += "_"
	}
	return &Store{db: db, prefix: prefix}, nil
}

func (s *Store) table(name string) string { return s.prefix + name }

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id     INTEGER PRIMARY KEY,
			seq    INTEGER NOT NULL,
			name   TEXT NOT NULL,
			sex    TEXT NOT NULL CHECK(sex IN ('f','m')),
			parent INTEGER
		)`, s.table("persons")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			seq     INTEGER PRIMARY KEY AUTOINCREMENT,
			id      INTEGER NOT NULL,
			partner INTEGER NOT NULL,
			name    TEXT NOT NULL,
			sex     TEXT NOT NULL CHECK(sex IN ('f','m')),
			since   TEXT NOT NULL,
			till    TEXT
		)`, s.table("partnerships")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			partnership INTEGER NOT NULL REFERENCES %s(seq) ON DELETE CASCADE,
			pos         INTEGER NOT NULL,
			child       INTEGER NOT NULL,
			PRIMARY KEY (partnership, pos)
		)`, s.table("partnership_children"), s.table("partnerships")),
	}

	for i, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Load reads every record in insertion order.
func (s *Store) Load(ctx context.Context) (family.Records, error) {
	var recs family.Records

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, name, sex, parent FROM %s ORDER BY seq`, s.table("persons")))
	if err != nil {
		return recs, fmt.Errorf("querying persons: %w", err)
	}
	for rows.Next() {
		var (
			p      family.Person
			sex    string
			parent sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &sex, &parent); err != nil {
			rows.Close()
			return recs, fmt.Errorf("scanning person: %w", err)
		}
		if p.Sex, err = family.ParseSex(sex); err != nil {
			rows.Close()
			return recs, errors.Wrap(errors.ErrCodeMalformedInput, err, "person %d", p.ID)
		}
		if parent.Valid {
			p.Parent = family.ParentOf(int(parent.Int64))
		}
		recs.Persons = append(recs.Persons, p)
	}
	if err := closeRows(rows); err != nil {
		return recs, fmt.Errorf("reading persons: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT seq, id, partner, name, sex, since, till FROM %s ORDER BY seq`, s.table("partnerships")))
	if err != nil {
		return recs, fmt.Errorf("querying partnerships: %w", err)
	}
	bySeq := make(map[int64]int)
	for rows.Next() {
		var (
			seq   int64
			r     family.Partnership
			sex   string
			till  sql.NullString
		)
		if err := rows.Scan(&seq, &r.ID, &r.Partner, &r.Name, &sex, &r.Since, &till); err != nil {
			rows.Close()
			return recs, fmt.Errorf("scanning partnership: %w", err)
		}
		if r.Sex, err = family.ParseSex(sex); err != nil {
			rows.Close()
			return recs, errors.Wrap(errors.ErrCodeMalformedInput, err, "relationship %d", r.ID)
		}
		r.Till = till.String
		bySeq[seq] = len(recs.Relationships)
		recs.Relationships = append(recs.Relationships, r)
	}
	if err := closeRows(rows); err != nil {
		return recs, fmt.Errorf("reading partnerships: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT partnership, child FROM %s ORDER BY partnership, pos`, s.table("partnership_children")))
	if err != nil {
		return recs, fmt.Errorf("querying partnership children: %w", err)
	}
	for rows.Next() {
		var seq int64
		var child int
		if err := rows.Scan(&seq, &child); err != nil {
			rows.Close()
			return recs, fmt.Errorf("scanning partnership child: %w", err)
		}
		if i, ok := bySeq[seq]; ok {
			recs.Relationships[i].Children = append(recs.Relationships[i].Children, child)
		}
	}
	if err := closeRows(rows); err != nil {
		return recs, fmt.Errorf("reading partnership children: %w", err)
	}

	if recs.Empty() {
		return recs, errors.New(errors.ErrCodeNotFound, "no persons in %s", s.table("persons"))
	}
	return recs, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

// Save replaces the stored records with recs in one transaction.
func (s *Store) Save(ctx context.Context, recs family.Records) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, t := range []string{"partnership_children", "partnerships", "persons"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table(t))); err != nil {
			return fmt.Errorf("clearing %s: %w", s.table(t), err)
		}
	}

	for seq, p := range recs.Persons {
		var parent any
		if p.Parent != nil {
			parent = *p.Parent
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(
			`INSERT INTO %s (id, seq, name, sex, parent) VALUES (?, ?, ?, ?, ?)`, s.table("persons")),
			p.ID, seq, p.Name, string(p.Sex), parent); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedInput, err, "inserting person %d", p.ID)
		}
	}

	for _, r := range recs.Relationships {
		var till any
		if r.Till != "" {
			till = r.Till
		}
		res, err := tx.ExecContext(ctx, fmt.Sprintf(
			`INSERT INTO %s (id, partner, name, sex, since, till) VALUES (?, ?, ?, ?, ?, ?)`, s.table("partnerships")),
			r.ID, r.Partner, r.Name, string(r.Sex), r.Since, till)
		if err != nil {
			return errors.Wrap(errors.ErrCodeMalformedInput, err, "inserting relationship %d", r.ID)
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("relationship %d seq: %w", r.ID, err)
		}
		for pos, child := range r.Children {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(
				`INSERT INTO %s (partnership, pos, child) VALUES (?, ?, ?)`, s.table("partnership_children")),
				seq, pos, child); err != nil {
				return fmt.Errorf("inserting child %d of relationship %d: %w", child, r.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	committed = true
	return nil
}
