// Package storage provides the durable event sinks the engine appends to:
// a Pebble-backed store for real deployments and a JSON-lines file sink for
// lightweight setups.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/engine"
)

// PebbleSink stores order events in Pebble keyed by (symbol, seq).
type PebbleSink struct {
	db *pebble.DB
}

func NewPebbleSink(path string) (*PebbleSink, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleSink{db: db}, nil
}

func (s *PebbleSink) Close() error { return s.db.Close() }

// Append persists one event. Writes are NoSync: the engine's durability
// contract is at-least-once best effort, and syncing per event would gate
// matching throughput on fsync.
func (s *PebbleSink) Append(ev engine.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := s.db.Set(eventKey(ev.Symbol, ev.Seq), data, pebble.NoSync); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Events returns a symbol's full event sequence in commit order.
func (s *PebbleSink) Events(symbol string) ([]engine.Event, error) {
	prefix := eventPrefix(symbol)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var events []engine.Event
	for iter.First(); iter.Valid(); iter.Next() {
		var ev engine.Event
		if err := json.Unmarshal(iter.Value(), &ev); err != nil {
			continue // skip invalid entries
		}
		events = append(events, ev)
	}
	return events, iter.Error()
}

// RecentFills returns up to limit of the symbol's most recent trades,
// newest first, one maker-side record per trade. Backs Match queries that
// reach past the engine's in-memory ring.
func (s *PebbleSink) RecentFills(symbol string, limit int) ([]engine.Event, error) {
	prefix := eventPrefix(symbol)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var fills []engine.Event
	for iter.Last(); iter.Valid() && len(fills) < limit; iter.Prev() {
		var ev engine.Event
		if err := json.Unmarshal(iter.Value(), &ev); err != nil {
			continue
		}
		if ev.Kind.IsFill() && ev.OrderID == ev.MakerID {
			fills = append(fills, ev)
		}
	}
	return fills, iter.Error()
}

var _ engine.EventSink = (*PebbleSink)(nil)
