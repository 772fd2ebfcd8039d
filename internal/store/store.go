// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store persists filtered records and the motif definition that
// selected them to SQLite or modernc.org/kv databases.
package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// Store is a persistent record store.
type Store interface {
	// Query records the provenance of a run. Each
	// line is stored as a separate query entry, with
	// source recorded against the first.
	Query(lines []string, source string) error

	// Insert stores a record row.
	Insert(Row) error

	// Close commits all stored data and closes the store.
	Close() error
}

// DefaultName returns the default database file name for a run started at t.
func DefaultName(t time.Time) string {
	return t.Format("fastq_20060102_150405.db")
}

// Tables of a kv store.
const (
	QueryTable  = 'q'
	RecordTable = 'r'
)

// Key is a kv store key.
type Key struct {
	Table   byte
	Ordinal int64
}

var order = binary.BigEndian

// MarshalKey returns the byte encoding of k.
func MarshalKey(k Key) []byte {
	var buf [9]byte
	buf[0] = k.Table
	order.PutUint64(buf[1:], uint64(k.Ordinal))
	return buf[:]
}

// UnmarshalKey returns the key encoded in data.
func UnmarshalKey(data []byte) (Key, error) {
	if len(data) != 9 {
		return Key{}, fmt.Errorf("invalid key length: %d", len(data))
	}
	return Key{Table: data[0], Ordinal: int64(order.Uint64(data[1:]))}, nil
}

// ByTableOrdinal is a kv compare function, ordering by table and
// then by ordinal position within the table.
func ByTableOrdinal(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}

	kx, errx := UnmarshalKey(x)
	ky, erry := UnmarshalKey(y)
	if errx != nil || erry != nil {
		return bytes.Compare(x, y)
	}

	// Separate tables, queries first.
	switch {
	case kx.Table < ky.Table:
		return -1
	case kx.Table > ky.Table:
		return 1
	}

	// Retain input order.
	switch {
	case kx.Ordinal < ky.Ordinal:
		return -1
	case kx.Ordinal > ky.Ordinal:
		return 1
	}

	panic("unreachable")
}
