// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists the events of committed operations in sqlite.
package eventdb

import (
	"context"
	"database/sql"
	"encoding/json"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/events"
	"github.com/vechain/stakepool/types"
)

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps ":memory:" dbs shared across queries
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// LastOpSeq returns the greatest stored operation sequence, 0 if empty.
func (db *EventDB) LastOpSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(opSeq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

// Count returns the count of stored events.
func (db *EventDB) Count(ctx context.Context) (uint64, error) {
	var n uint64
	if err := db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// NewBatch starts a batch for the operation opSeq executed at time.
func (db *EventDB) NewBatch(opSeq uint64, time uint64) *Batch {
	return &Batch{
		db:    db.db,
		opSeq: opSeq,
		time:  time,
	}
}

func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	const sel = "SELECT seq, opSeq, eventIndex, time, contract, name, subject0, subject1, args FROM event"
	if filter == nil {
		return db.queryEvents(ctx, sel+" ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var args []any
	stmt := sel + " WHERE 1"
	if filter.Contract != nil {
		args = append(args, filter.Contract.Bytes())
		stmt += " AND contract = ? "
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ? "
	}
	if filter.Subject != nil {
		args = append(args, filter.Subject.Bytes(), filter.Subject.Bytes())
		stmt += " AND ( subject0 = ? OR subject1 = ? ) "
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}
	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq      uint64
			opSeq    uint64
			index    uint32
			time     uint64
			contract []byte
			name     string
			subjects [MaxSubjects][]byte
			data     string
		)
		if err := rows.Scan(
			&seq,
			&opSeq,
			&index,
			&time,
			&contract,
			&name,
			&subjects[0],
			&subjects[1],
			&data,
		); err != nil {
			return nil, err
		}
		ev := &Event{
			Seq:      seq,
			OpSeq:    opSeq,
			Index:    index,
			Time:     time,
			Contract: types.BytesToAddress(contract),
			Name:     name,
		}
		for _, s := range subjects {
			if len(s) > 0 {
				ev.Subjects = append(ev.Subjects, types.BytesToAddress(s))
			}
		}
		if err := json.Unmarshal([]byte(data), &ev.Args); err != nil {
			return nil, errors.Wrapf(err, "decode args of event %d", seq)
		}
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func subjectValue(subjects []types.Address, i int) []byte {
	if i >= len(subjects) {
		return nil
	}
	return subjects[i].Bytes()
}

// Batch collects the events of one operation and writes them in one sql transaction.
type Batch struct {
	db     *sql.DB
	opSeq  uint64
	time   uint64
	events []*Event
}

// Add appends records in emission order.
func (b *Batch) Add(records ...*events.Record) *Batch {
	for _, rec := range records {
		b.events = append(b.events, newEvent(b.opSeq, uint32(len(b.events)), b.time, rec))
	}
	return b
}

func (b *Batch) Len() int {
	return len(b.events)
}

func (b *Batch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (b *Batch) Commit() error {
	if len(b.events) == 0 {
		return nil
	}
	return b.execInTx(func(tx *sql.Tx) error {
		for _, ev := range b.events {
			data, err := json.Marshal(ev.Args)
			if err != nil {
				return err
			}
			if _, err := tx.Exec("INSERT INTO event(opSeq, eventIndex, time, contract, name, subject0, subject1, args) VALUES ( ?, ?, ?, ?, ?, ?, ?, ?);",
				ev.OpSeq,
				ev.Index,
				ev.Time,
				ev.Contract.Bytes(),
				ev.Name,
				subjectValue(ev.Subjects, 0),
				subjectValue(ev.Subjects, 1),
				string(data),
			); err != nil {
				return err
			}
		}
		return nil
	})
}
