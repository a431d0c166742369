package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// BadgerStore persists embedded chunks on disk. Each chunk lives at
// chunk/<meetingID>/<index>, and a Replace runs as a single transaction:
// old keys are dropped and new ones written together, so the swap commits
// or rolls back as a unit.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(path string, logger *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	if logger != nil {
		logger.Info("opened vector index", zap.String("path", path))
	}
	return &BadgerStore{db: db}, nil
}

func meetingPrefix(meetingID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("chunk/%s/", meetingID))
}

func chunkKey(meetingID uuid.UUID, index int) []byte {
	return []byte(fmt.Sprintf("chunk/%s/%08d", meetingID, index))
}

func (s *BadgerStore) Replace(_ context.Context, meetingID uuid.UUID, chunks []*entities.Chunk) error {
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return apperrors.ErrInvalidChunking
		}
	}
	return s.db.Update(func(txn *badger.Txn) error {
		prefix := meetingPrefix(meetingID)
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for _, c := range chunks {
			value, err := json.Marshal(c)
			if err != nil {
				return err
			}
			if err := txn.Set(chunkKey(meetingID, c.Index), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) Search(ctx context.Context, meetingID uuid.UUID, query []float32, topK int, threshold float64) ([]entities.ScoredChunk, error) {
	chunks, err := s.Chunks(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	return rankChunks(chunks, query, topK, threshold), nil
}

func (s *BadgerStore) Delete(_ context.Context, meetingID uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		prefix := meetingPrefix(meetingID)
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) Chunks(_ context.Context, meetingID uuid.UUID) ([]*entities.Chunk, error) {
	var chunks []*entities.Chunk
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := meetingPrefix(meetingID)
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var c entities.Chunk
				if err := json.Unmarshal(value, &c); err != nil {
					return err
				}
				chunks = append(chunks, &c)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, apperrors.ErrMeetingNotFound
	}
	return chunks, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
