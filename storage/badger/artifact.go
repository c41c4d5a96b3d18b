package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/particula/storage"
)

// ArtifactStore implements storage.ArtifactStore for BadgerDB.
// It is a snapshot sink: a generator run can write its artifacts here
// instead of to a directory.
type ArtifactStore struct {
	backend *Backend
}

var _ storage.ArtifactStore = (*ArtifactStore)(nil)

// NewArtifactStore creates a new ArtifactStore.
func NewArtifactStore(backend *Backend) *ArtifactStore {
	return &ArtifactStore{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (s *ArtifactStore) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (s *ArtifactStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.backend.WithTransaction(ctx, fn)
}

// WriteArtifact stores data under name, replacing any previous value.
func (s *ArtifactStore) WriteArtifact(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeArtifactKey(name), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ReadArtifact returns the artifact stored under name.
func (s *ArtifactStore) ReadArtifact(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	var data []byte
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeArtifactKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ListArtifacts returns every artifact name in ascending order.
func (s *ArtifactStore) ListArtifacts(ctx context.Context) ([]string, error) {
	var names []string
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(artifactPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			names = append(names, strings.TrimPrefix(string(iter.Item().Key()), artifactPrefix))
		}
		return nil
	}, false)
	return names, err
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", storage.ErrInvalidArtifactName, name)
	}
	return nil
}
