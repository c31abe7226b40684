// Package savedb implements a world.Provider backed by a goleveldb database.
// It persists the processed-chunk ledger and the entity manifest of every
// biome, so a restarted server does not repeat population work inside the
// horizon it had already revealed.
package savedb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/util"
	"github.com/windward-gs/windward/server/world"
)

// DB is a goleveldb-backed world.Provider.
type DB struct {
	ldb *leveldb.DB
}

// Open opens (or creates) the database at the directory passed.
func Open(dir string) (*DB, error) {
	ldb, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open save database: %w", err)
	}
	return &DB{ldb: ldb}, nil
}

func ledgerPrefix(biomeID string) []byte {
	return []byte("l/" + biomeID + "/")
}

func entityPrefix(biomeID string) []byte {
	return []byte("e/" + biomeID + "/")
}

// LoadLedger returns the persisted processed-chunk markers of the biome with
// the ID passed.
func (db *DB) LoadLedger(biomeID string) ([]world.LedgerEntry, error) {
	var entries []world.LedgerEntry
	iter := db.ldb.NewIterator(util.BytesPrefix(ledgerPrefix(biomeID)), nil)
	defer iter.Release()
	for iter.Next() {
		k, v := iter.Key(), iter.Value()
		if len(k) < 8 || len(v) < 8 {
			continue
		}
		packed := binary.BigEndian.Uint64(k[len(k)-8:])
		entries = append(entries, world.LedgerEntry{
			X:    int32(packed >> 32),
			Z:    int32(uint32(packed)),
			Tick: int64(binary.BigEndian.Uint64(v)),
		})
	}
	return entries, iter.Error()
}

// StoreLedger replaces the persisted processed-chunk markers of the biome
// with the ID passed. The old markers are dropped and the new set written in
// a single batch.
func (db *DB) StoreLedger(biomeID string, entries []world.LedgerEntry) error {
	prefix := ledgerPrefix(biomeID)
	batch := new(leveldb.Batch)
	if err := db.deletePrefix(batch, prefix); err != nil {
		return err
	}
	for _, e := range entries {
		k := make([]byte, len(prefix)+8)
		copy(k, prefix)
		binary.BigEndian.PutUint64(k[len(prefix):], uint64(e.X)<<32|uint64(uint32(e.Z)))
		v := make([]byte, 8)
		binary.BigEndian.PutUint64(v, uint64(e.Tick))
		batch.Put(k, v)
	}
	return db.ldb.Write(batch, nil)
}

// LoadEntities returns the persisted entity records of the biome with the ID
// passed.
func (db *DB) LoadEntities(biomeID string) ([]world.EntityRecord, error) {
	var records []world.EntityRecord
	iter := db.ldb.NewIterator(util.BytesPrefix(entityPrefix(biomeID)), nil)
	defer iter.Release()
	for iter.Next() {
		var rec world.EntityRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("decode entity record of %v: %w", biomeID, err)
		}
		records = append(records, rec)
	}
	return records, iter.Error()
}

// StoreEntities replaces the persisted entity records of the biome with the
// ID passed.
func (db *DB) StoreEntities(biomeID string, records []world.EntityRecord) error {
	prefix := entityPrefix(biomeID)
	batch := new(leveldb.Batch)
	if err := db.deletePrefix(batch, prefix); err != nil {
		return err
	}
	for i, rec := range records {
		v, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode entity record of %v: %w", biomeID, err)
		}
		k := make([]byte, len(prefix)+4)
		copy(k, prefix)
		binary.BigEndian.PutUint32(k[len(prefix):], uint32(i))
		batch.Put(k, v)
	}
	return db.ldb.Write(batch, nil)
}

// deletePrefix stages the deletion of every key under the prefix passed.
func (db *DB) deletePrefix(batch *leveldb.Batch, prefix []byte) error {
	iter := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		k := make([]byte, len(iter.Key()))
		copy(k, iter.Key())
		batch.Delete(k)
	}
	return iter.Error()
}

// Close flushes and closes the underlying database.
func (db *DB) Close() error {
	return db.ldb.Close()
}
