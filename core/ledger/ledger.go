// Package ledger backs the contract with an append-mostly key-value store on
// LevelDB. The current value of a key lives under the state: namespace; every
// committed version (including tombstones) is retained under hist: and is
// never compacted. "Current" is a projection, history is the record.
package ledger

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	statePrefix = "state:"
	histPrefix  = "hist:"
	seqPrefix   = "seq:"
)

// VersionEntry is one committed version of a key, oldest-first in History.
// A tombstone entry has IsDelete set and an empty Value.
type VersionEntry struct {
	TxID      string `json:"txId"`
	Timestamp string `json:"timestamp"`
	IsDelete  bool   `json:"isDelete"`
	Value     string `json:"value"`
}

// KV is one (key, current value) pair from a range scan.
type KV struct {
	Key   string
	Value []byte
}

type Ledger struct {
	db *leveldb.DB
	mu sync.Mutex // serializes commits so state+history+seq land atomically
}

// Open opens (or creates) the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Get returns the current value for key, or nil if no current value exists.
func (l *Ledger) Get(key string) ([]byte, error) {
	val, err := l.db.Get([]byte(statePrefix+key), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger get %s: %w", key, err)
	}
	return val, nil
}

// Put commits value as the new current value for key and appends a version
// entry to the key's history. The commit is a single atomic batch.
func (l *Ledger) Put(key string, value []byte) error {
	return l.commit(key, string(value), false, func(batch *leveldb.Batch) {
		batch.Put([]byte(statePrefix+key), value)
	})
}

// Delete removes the current value for key and appends a tombstone to its
// history. Prior versions stay readable forever.
func (l *Ledger) Delete(key string) error {
	return l.commit(key, "", true, func(batch *leveldb.Batch) {
		batch.Delete([]byte(statePrefix + key))
	})
}

func (l *Ledger) commit(key, value string, isDelete bool, mutate func(*leveldb.Batch)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq, err := l.nextSeq(key)
	if err != nil {
		return err
	}
	entry := VersionEntry{
		TxID:      uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		IsDelete:  isDelete,
		Value:     value,
	}
	entryBytes, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("ledger commit %s: %w", key, err)
	}

	batch := new(leveldb.Batch)
	mutate(batch)
	batch.Put(histKey(key, seq), entryBytes)
	batch.Put([]byte(seqPrefix+key), []byte(strconv.FormatUint(seq+1, 10)))
	if err := l.db.Write(batch, nil); err != nil {
		return fmt.Errorf("ledger commit %s: %w", key, err)
	}
	return nil
}

func (l *Ledger) nextSeq(key string) (uint64, error) {
	raw, err := l.db.Get([]byte(seqPrefix+key), nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ledger seq %s: %w", key, err)
	}
	seq, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ledger seq %s: %w", key, err)
	}
	return seq, nil
}

// histKeyPrefix length-prefixes the key so a key containing the separator
// cannot shadow another key's history namespace.
func histKeyPrefix(key string) []byte {
	return []byte(fmt.Sprintf("%s%d:%s#", histPrefix, len(key), key))
}

func histKey(key string, seq uint64) []byte {
	// Fixed-width sequence keeps lexicographic order = commit order.
	return []byte(fmt.Sprintf("%s%016d", histKeyPrefix(key), seq))
}

// RangeScan returns all current (key, value) pairs with start <= key < end in
// ascending key order. Empty start and end scan the whole namespace.
func (l *Ledger) RangeScan(start, end string) ([]KV, error) {
	rng := util.BytesPrefix([]byte(statePrefix))
	if start != "" {
		rng.Start = []byte(statePrefix + start)
	}
	if end != "" {
		rng.Limit = []byte(statePrefix + end)
	}
	iter := l.db.NewIterator(rng, nil)
	defer iter.Release()

	var out []KV
	for iter.Next() {
		key := string(iter.Key())[len(statePrefix):]
		val := append([]byte{}, iter.Value()...)
		out = append(out, KV{Key: key, Value: val})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("ledger scan: %w", err)
	}
	return out, nil
}

// History returns every version ever committed for key, oldest first,
// including tombstones. The sequence is never truncated.
func (l *Ledger) History(key string) ([]VersionEntry, error) {
	iter := l.db.NewIterator(util.BytesPrefix(histKeyPrefix(key)), nil)
	defer iter.Release()

	var out []VersionEntry
	for iter.Next() {
		var entry VersionEntry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return nil, fmt.Errorf("ledger history %s: %w", key, err)
		}
		out = append(out, entry)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("ledger history %s: %w", key, err)
	}
	return out, nil
}
