// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"encoding/json"
	"fmt"
	"io"

	"modernc.org/kv"
)

// KV is a Store backed by a modernc.org/kv database ordered by
// ByTableOrdinal. Query lines and rows are stored as JSON values.
// All writes are made in a single transaction that is committed when
// the store is closed.
type KV struct {
	db *kv.DB
	nq int64
}

// QueryEntry is a stored query line.
type QueryEntry struct {
	Query       string `json:"query"`
	QueriedFile string `json:"queried_file"`
}

// CreateKV creates a new kv store at path.
func CreateKV(path string) (*KV, error) {
	db, err := kv.Create(path, &kv.Options{Compare: ByTableOrdinal})
	if err != nil {
		return nil, fmt.Errorf("could not create %s: %w", path, err)
	}
	err = db.BeginTransaction()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not begin transaction on %s: %w", path, err)
	}
	return &KV{db: db}, nil
}

// Query stores the run provenance in the query table.
func (s *KV) Query(lines []string, source string) error {
	for i, l := range lines {
		e := QueryEntry{Query: l}
		if i == 0 {
			e.QueriedFile = source
		}
		v, err := json.Marshal(e)
		if err != nil {
			return err
		}
		err = s.db.Set(MarshalKey(Key{Table: QueryTable, Ordinal: s.nq}), v)
		if err != nil {
			return fmt.Errorf("could not store query: %w", err)
		}
		s.nq++
	}
	return nil
}

// Insert stores r in the record table keyed by its input ordinal.
func (s *KV) Insert(r Row) error {
	v, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("could not marshal record %d: %w", r.Index, err)
	}
	err = s.db.Set(MarshalKey(Key{Table: RecordTable, Ordinal: int64(r.Index)}), v)
	if err != nil {
		return fmt.Errorf("could not store record %d: %w", r.Index, err)
	}
	return nil
}

// Close commits the transaction and closes the database.
func (s *KV) Close() error {
	err := s.db.Commit()
	if err != nil {
		s.db.Close()
		return fmt.Errorf("could not commit: %w", err)
	}
	return s.db.Close()
}

// Walk opens the kv store at path and calls fn for each entry in
// key order.
func Walk(path string, fn func(Key, []byte) error) error {
	db, err := kv.Open(path, &kv.Options{Compare: ByTableOrdinal})
	if err != nil {
		return err
	}
	defer db.Close()

	it, err := db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	for {
		k, v, err := it.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		key, err := UnmarshalKey(k)
		if err != nil {
			return err
		}
		err = fn(key, v)
		if err != nil {
			return err
		}
	}
}
