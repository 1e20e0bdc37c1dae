// Package history owns the in-memory valuation history and mirrors it to a
// KeyValueStore under a single key. Loading and saving are explicit calls.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"valuation/internal/core"
	applog "valuation/internal/log"
	"valuation/internal/storage"
)

// DefaultKey is the key the browser version of the form used.
const DefaultKey = "historicoValuation"

// Store is the application's history state. Mutations are serialized and
// written through to the backing store before they become visible.
type Store struct {
	mu      sync.RWMutex
	kv      storage.KeyValueStore
	key     string
	records core.History
	logger  *applog.Logger
}

func NewStore(kv storage.KeyValueStore, key string, logger *applog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Store{
		kv:      kv,
		key:     key,
		records: core.History{},
		logger:  logger.WithComponent(applog.ComponentHistory),
	}
}

// Load replaces the in-memory history with the persisted one. A missing key
// or content that does not decode yields an empty history; the problem is
// logged, never returned. Only a failing backend read is an error.
func (s *Store) Load(ctx context.Context) error {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	records := core.History{}
	if ok {
		decoded, err := core.UnmarshalHistory(data)
		if err != nil {
			s.logger.WarnContext(ctx, "Discarding unreadable history",
				applog.FieldOperation, applog.OpLoad,
				applog.FieldStoreKey, s.key,
				applog.FieldError, err.Error())
		} else {
			records = decoded
		}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "History loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldStoreKey, s.key,
		applog.FieldRecords, len(records))
	return nil
}

// Save writes the full current history.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()
	return s.write(ctx, records)
}

// Records returns a copy of the current history.
func (s *Store) Records() core.History {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records.Clone()
}

// Record adds a valuation, evicting the one of the same month, and persists
// the result. On a failed write the in-memory history is unchanged.
func (s *Store) Record(ctx context.Context, date core.Date, value decimal.Decimal) (core.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := core.RecordValuation(s.records, date, value)
	if err := s.write(ctx, next); err != nil {
		return s.records.Clone(), err
	}
	s.records = next
	return next.Clone(), nil
}

// Clear discards every record and persists the empty history. It returns
// the number of records dropped and the confirmation message.
func (s *Store) Clear(ctx context.Context) (int, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, msg := core.ClearHistory()
	if err := s.write(ctx, next); err != nil {
		return 0, "", err
	}
	dropped := len(s.records)
	s.records = next
	return dropped, msg, nil
}

// pinger is implemented by stores holding a connection, such as SQLite.
type pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks that the backing store is reachable and answers reads.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.kv.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("ping store: %w", err)
		}
	}
	if _, _, err := s.kv.Get(ctx, s.key); err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, records core.History) error {
	data, err := core.MarshalHistory(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	s.logger.DebugContext(ctx, "History saved",
		applog.FieldOperation, applog.OpSave,
		applog.FieldStoreKey, s.key,
		applog.FieldRecords, len(records))
	return nil
}
