package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var campaignBucket = []byte("campaigns")

// Bolt persists documents in a single-bucket bbolt database, for
// deployments that want one durable file instead of a directory tree.
// bbolt transactions give whole-document atomicity for free.
type Bolt struct {
	db *bolt.DB
}

func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(campaignBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bolt store: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(ctx context.Context, id string) ([]byte, error) {
	var doc []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(campaignBucket).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		doc = make([]byte, len(v))
		copy(doc, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *Bolt) Put(ctx context.Context, id string, doc []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(campaignBucket).Put([]byte(id), doc)
	})
}

func (b *Bolt) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(campaignBucket).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return ids, nil
}

func (b *Bolt) Close() error { return b.db.Close() }
