// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

var schema = []string{`
CREATE TABLE fastq_data (
	header TEXT,
	sequence TEXT,
	quality TEXT,
	length INTEGER,
	GC REAL,
	GC_int INTEGER,
	nTN INTEGER,
	nCTN INTEGER,
	TNF TEXT,
	CTNF TEXT,
	average_quality REAL,
	variants TEXT
)`, `
CREATE TABLE query (
	query TEXT,
	queried_file TEXT
)`,
}

// SQLite is a Store backed by an SQLite database. All writes are made in
// a single transaction that is committed when the store is closed.
type SQLite struct {
	db *sql.DB
	tx *sql.Tx

	insert *sql.Stmt
	query  *sql.Stmt
}

// CreateSQLite creates a new SQLite store at path.
func CreateSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	for _, table := range schema {
		_, err = db.Exec(table)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("could not create tables in %s: %w", path, err)
		}
	}
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not begin transaction on %s: %w", path, err)
	}
	s := &SQLite{db: db, tx: tx}
	s.insert, err = tx.Prepare(`INSERT INTO fastq_data
	(header, sequence, quality, length, GC, GC_int, nTN, nCTN, TNF, CTNF, average_quality, variants)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, fmt.Errorf("could not prepare record insert: %w", err)
	}
	s.query, err = tx.Prepare(`INSERT INTO query (query, queried_file) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, fmt.Errorf("could not prepare query insert: %w", err)
	}
	return s, nil
}

// Query inserts the run provenance into the query table.
func (s *SQLite) Query(lines []string, source string) error {
	for i, l := range lines {
		file := ""
		if i == 0 {
			file = source
		}
		_, err := s.query.Exec(l, file)
		if err != nil {
			return fmt.Errorf("could not insert query: %w", err)
		}
	}
	return nil
}

// Insert inserts r into the fastq_data table.
func (s *SQLite) Insert(r Row) error {
	variants, err := json.Marshal(r.Variants)
	if err != nil {
		return fmt.Errorf("could not marshal variants for record %d: %w", r.Index, err)
	}
	var avq sql.NullFloat64
	if r.AverageQuality != nil {
		avq = sql.NullFloat64{Float64: *r.AverageQuality, Valid: true}
	}
	_, err = s.insert.Exec(
		r.Header, r.Sequence, r.Quality, r.Length,
		r.GC, r.GCInt,
		r.NTN, r.NCTN, string(r.TNF), string(r.CTNF),
		avq, string(variants),
	)
	if err != nil {
		return fmt.Errorf("could not insert record %d: %w", r.Index, err)
	}
	return nil
}

// Close commits the transaction and closes the database.
func (s *SQLite) Close() error {
	s.insert.Close()
	s.query.Close()
	err := s.tx.Commit()
	if err != nil {
		s.db.Close()
		return fmt.Errorf("could not commit: %w", err)
	}
	return s.db.Close()
}
