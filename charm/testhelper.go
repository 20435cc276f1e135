// ABOUTME: Detached slot client for tests
// ABOUTME: An in-memory badger database stands in for charm's KV

package charm

import (
	"testing"

	"github.com/dgraph-io/badger/v3"
)

// memKV is a kvStore over an in-memory badger database. Sync is a no-op
// because there is no server to talk to.
type memKV struct {
	db *badger.DB
}

func (m *memKV) Get(key []byte) (value []byte, err error) {
	err = m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

func (m *memKV) Set(key, value []byte) error {
	return m.db.Update(func(txn *badger.Txn) error { return txn.Set(key, value) })
}

func (m *memKV) Delete(key []byte) error {
	return m.db.Update(func(txn *badger.Txn) error { return txn.Delete(key) })
}

func (m *memKV) Keys() ([][]byte, error) {
	var keys [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func (m *memKV) Reset() error { return m.db.DropAll() }

func (m *memKV) Sync() error { return nil }

// NewTestClient returns a detached Client over a fresh in-memory database
// that is closed when the test ends.
func NewTestClient(t testing.TB) *Client {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("close in-memory badger: %v", err)
		}
	})

	cfg := DefaultConfig()
	cfg.Host = "localhost"
	return &Client{kv: &memKV{db: db}, config: cfg, detached: true}
}
