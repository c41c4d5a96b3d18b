package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/particula/core"
	"github.com/poiesic/particula/storage"
)

// EntityRepository implements storage.EntityRepository for BadgerDB.
// Values are mus-encoded entities; keys sort in ascending ID order.
type EntityRepository struct {
	backend *Backend
}

var _ storage.EntityRepository = (*EntityRepository)(nil)

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(backend *Backend) *EntityRepository {
	return &EntityRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *EntityRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *EntityRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// putBatchSize bounds the entities written per transaction.
const putBatchSize = 256

// PutEntities stores entities, replacing any stored under the same ID.
// Large batches are split across transactions.
func (r *EntityRepository) PutEntities(ctx context.Context, entities ...*core.Entity) error {
	for start := 0; start < len(entities); start += putBatchSize {
		batch := entities[start:min(start+putBatchSize, len(entities))]
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, e := range batch {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := tx.Set(makeEntityKey(e.ID), storage.MarshalEntity(e)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetEntity retrieves a single entity by ID.
func (r *EntityRepository) GetEntity(ctx context.Context, id core.ID) (*core.Entity, error) {
	var entity *core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		entity, err = readEntity(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, storage.ErrNotFound
	}
	return entity, nil
}

// GetEntities retrieves multiple entities by their IDs, skipping missing ones.
func (r *EntityRepository) GetEntities(ctx context.Context, ids ...core.ID) ([]*core.Entity, error) {
	entities := make([]*core.Entity, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			entity, err := readEntity(tx, id)
			if err != nil {
				return err
			}
			if entity != nil {
				entities = append(entities, entity)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// ListIDs returns every stored ID in ascending order.
func (r *EntityRepository) ListIDs(ctx context.Context) ([]core.ID, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(entityPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if id, ok := parseEntityKey(iter.Item().Key()); ok {
				ids = append(ids, id)
			}
		}
		return nil
	}, false)
	return ids, err
}

// Count returns the number of stored entities.
func (r *EntityRepository) Count(ctx context.Context) (int, error) {
	ids, err := r.ListIDs(ctx)
	return len(ids), err
}

// readEntity returns nil, nil when the key is absent.
func readEntity(tx *badger.Txn, id core.ID) (*core.Entity, error) {
	item, err := tx.Get(makeEntityKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entity *core.Entity
	err = item.Value(func(val []byte) error {
		entity, err = storage.UnmarshalEntity(val)
		return err
	})
	return entity, err
}
