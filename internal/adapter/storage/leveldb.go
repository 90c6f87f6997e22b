package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/syndtr/goleveldb/leveldb"
	lvlstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

var _ port.RecentSearchesStorage = (*LevelDB)(nil)

// A LevelDB keeps recent searches in a local LevelDB database under a
// single key.
type LevelDB struct {
	db  *leveldb.DB
	key []byte
}

func NewLevelDB(path, key string) (*LevelDB, error) {
	const op = "NewLevelDB"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	slog.Info("leveldb is opened", "op", op, "path", path)
	return newLevelDB(db, key), nil
}

// NewLevelDBWithStorage opens the database on top of an existing storage,
// such as [lvlstorage.NewMemStorage].
func NewLevelDBWithStorage(stor lvlstorage.Storage, key string) (*LevelDB, error) {
	const op = "NewLevelDBWithStorage"

	db, err := leveldb.Open(stor, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newLevelDB(db, key), nil
}

func newLevelDB(db *leveldb.DB, key string) *LevelDB {
	if key == "" {
		key = DefaultRecentKey
	}
	return &LevelDB{db: db, key: []byte(key)}
}

func (s *LevelDB) LoadRecent(ctx context.Context) ([]string, error) {
	const op = "LevelDB.LoadRecent"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b, err := s.db.Get(s.key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	terms, err := decodeTerms(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return terms, nil
}

func (s *LevelDB) SaveRecent(ctx context.Context, terms []string) error {
	const op = "LevelDB.SaveRecent"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	b, err := encodeTerms(terms)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.db.Put(s.key, b, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *LevelDB) Close() {
	const op = "LevelDB.Close"
	log := slog.With("op", op)

	log.Info("closing leveldb...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("leveldb is closed")
}
