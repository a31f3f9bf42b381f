package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/nodemap/internal/document"
)

// Entry describes one saved revision of a map.
type Entry struct {
	Name     string `json:"name"`
	Revision string `json:"revision"`
	Digest   string `json:"digest"`
	Nodes    int    `json:"nodes"`
	Links    int    `json:"links"`
	Seq      int64  `json:"seq"`
}

const entryColumns = "name, revision, digest, node_count, link_count, seq"

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &Error{Code: ErrCodeInvalidName}
	}
	return name, nil
}

// Save stores doc as the latest revision of name. It reports whether a new
// revision was written; an unchanged document returns the existing entry.
func (l *Library) Save(ctx context.Context, name string, doc document.Document) (Entry, bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Entry{}, false, err
	}
	data, err := document.Encode(doc)
	if err != nil {
		return Entry{}, false, fmt.Errorf("save %q: %w", name, err)
	}
	digest, err := document.Digest(doc)
	if err != nil {
		return Entry{}, false, fmt.Errorf("save %q: %w", name, err)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, false, fmt.Errorf("save %q: begin: %w", name, err)
	}
	defer tx.Rollback()

	latest, err := scanEntry(tx.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM maps WHERE name = ?", name))
	switch {
	case err == nil && latest.Digest == digest:
		return latest, false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return Entry{}, false, fmt.Errorf("save %q: read latest: %w", name, err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM revisions").Scan(&seq); err != nil {
		return Entry{}, false, fmt.Errorf("save %q: next seq: %w", name, err)
	}

	e := Entry{
		Name:     name,
		Revision: l.ids.Generate(),
		Digest:   digest,
		Nodes:    len(doc.Nodes),
		Links:    len(doc.Links),
		Seq:      seq,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO revisions (revision, name, digest, document, node_count, link_count, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.Revision, e.Name, e.Digest, string(data), e.Nodes, e.Links, e.Seq)
	if err != nil {
		return Entry{}, false, fmt.Errorf("save %q: insert revision: %w", name, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO maps (name, revision, digest, document, node_count, link_count, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			revision = excluded.revision,
			digest = excluded.digest,
			document = excluded.document,
			node_count = excluded.node_count,
			link_count = excluded.link_count,
			seq = excluded.seq
	`, e.Name, e.Revision, e.Digest, string(data), e.Nodes, e.Links, e.Seq)
	if err != nil {
		return Entry{}, false, fmt.Errorf("save %q: upsert map: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, false, fmt.Errorf("save %q: commit: %w", name, err)
	}
	return e, true, nil
}

// Load returns the latest revision of name.
func (l *Library) Load(ctx context.Context, name string) (document.Document, Entry, error) {
	name, err := normalizeName(name)
	if err != nil {
		return document.Document{}, Entry{}, err
	}
	return l.loadOne(ctx, name,
		"SELECT "+entryColumns+", document FROM maps WHERE name = ?", name)
}

// LoadRevision returns a specific revision.
func (l *Library) LoadRevision(ctx context.Context, revision string) (document.Document, Entry, error) {
	return l.loadOne(ctx, revision,
		"SELECT "+entryColumns+", document FROM revisions WHERE revision = ?", revision)
}

func (l *Library) loadOne(ctx context.Context, key, query string, args ...any) (document.Document, Entry, error) {
	var (
		e   Entry
		raw string
	)
	err := l.db.QueryRowContext(ctx, query, args...).
		Scan(&e.Name, &e.Revision, &e.Digest, &e.Nodes, &e.Links, &e.Seq, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return document.Document{}, Entry{}, &Error{Code: ErrCodeNotFound, Name: key}
	}
	if err != nil {
		return document.Document{}, Entry{}, fmt.Errorf("load %q: %w", key, err)
	}

	doc, err := document.Decode([]byte(raw))
	if err != nil {
		return document.Document{}, Entry{}, fmt.Errorf("load %q: %w", key, err)
	}
	return doc, e, nil
}

// List returns the latest entry of every map, ordered by name.
func (l *Library) List(ctx context.Context) ([]Entry, error) {
	return l.queryEntries(ctx, "SELECT "+entryColumns+" FROM maps ORDER BY name")
}

// History returns every revision of name, oldest first.
func (l *Library) History(ctx context.Context, name string) ([]Entry, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	entries, err := l.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM revisions WHERE name = ? ORDER BY seq", name)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &Error{Code: ErrCodeNotFound, Name: name}
	}
	return entries, nil
}

// Delete removes a map and its history.
func (l *Library) Delete(ctx context.Context, name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete %q: begin: %w", name, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM maps WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if n == 0 {
		return &Error{Code: ErrCodeNotFound, Name: name}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM revisions WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete %q: history: %w", name, err)
	}
	return tx.Commit()
}

func (l *Library) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	err := s.Scan(&e.Name, &e.Revision, &e.Digest, &e.Nodes, &e.Links, &e.Seq)
	return e, err
}
