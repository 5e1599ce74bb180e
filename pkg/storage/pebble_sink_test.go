package storage

import (
	"path/filepath"
	"testing"

	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/book"
	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/engine"
)

func fillEvent(symbol string, seq uint64, price int64) engine.Event {
	return engine.Event{
		Seq:     seq,
		Kind:    engine.FullyFilled,
		Symbol:  symbol,
		OrderID: book.OrderID(seq),
		MakerID: book.OrderID(seq),
		TakerID: book.OrderID(seq + 1000),
		User:    "maker",
		Side:    book.Sell,
		Price:   price,
		Qty:     1,
		Buyer:   "taker",
		Seller:  "maker",
	}
}

func newSink(t *testing.T) *PebbleSink {
	t.Helper()
	s, err := NewPebbleSink(filepath.Join(t.TempDir(), "events"))
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPebbleSinkRoundTrip(t *testing.T) {
	s := newSink(t)

	appended := []engine.Event{
		{Seq: 1, Kind: engine.Accepted, Symbol: "ACME", OrderID: 1, User: "a", Side: book.Buy, Price: 10, Qty: 5, Resting: 5},
		fillEvent("ACME", 2, 10),
		{Seq: 3, Kind: engine.Cancelled, Symbol: "ACME", OrderID: 1, User: "a", Side: book.Buy, Price: 10, Qty: 2, Resting: 3},
		{Seq: 1, Kind: engine.Accepted, Symbol: "ZINC", OrderID: 9, User: "z", Side: book.Sell, Price: 7, Qty: 1, Resting: 1},
	}
	for _, ev := range appended {
		if err := s.Append(ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := s.Events("ACME")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("ACME events = %d, want 3", len(events))
	}
	for i, ev := range events {
		if ev.Seq != uint64(i+1) {
			t.Fatalf("event %d has seq %d, want commit order", i, ev.Seq)
		}
		if ev.Symbol != "ACME" {
			t.Fatalf("event %d leaked from symbol %s", i, ev.Symbol)
		}
	}
	if events[0].Kind != engine.Accepted || events[0].Qty != 5 {
		t.Fatalf("first event round-tripped wrong: %+v", events[0])
	}

	if events, _ := s.Events("NOPE"); len(events) != 0 {
		t.Fatalf("unknown symbol events = %d, want 0", len(events))
	}
}

func TestPebbleSinkSeqOrderBeyondNineDigits(t *testing.T) {
	s := newSink(t)

	// Zero-padded keys must keep numeric order across digit-count changes.
	for _, seq := range []uint64{9, 10, 11, 100} {
		if err := s.Append(fillEvent("ACME", seq, int64(seq))); err != nil {
			t.Fatalf("append seq %d: %v", seq, err)
		}
	}
	events, err := s.Events("ACME")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	want := []uint64{9, 10, 11, 100}
	for i, ev := range events {
		if ev.Seq != want[i] {
			t.Fatalf("scan order = event %d seq %d, want %d", i, ev.Seq, want[i])
		}
	}
}

func TestPebbleSinkRecentFills(t *testing.T) {
	s := newSink(t)

	s.Append(engine.Event{Seq: 1, Kind: engine.Accepted, Symbol: "ACME", OrderID: 1, Side: book.Sell, Price: 9, Qty: 3, Resting: 3})
	for seq := uint64(2); seq <= 6; seq++ {
		s.Append(fillEvent("ACME", seq, int64(100+seq)))
	}
	// Taker-side fill records must not be double counted.
	taker := fillEvent("ACME", 7, 200)
	taker.OrderID = taker.TakerID
	s.Append(taker)

	fills, err := s.RecentFills("ACME", 3)
	if err != nil {
		t.Fatalf("recent fills: %v", err)
	}
	if len(fills) != 3 {
		t.Fatalf("recent fills = %d, want 3", len(fills))
	}
	// Newest first, maker-side records only.
	for i, wantSeq := range []uint64{6, 5, 4} {
		if fills[i].Seq != wantSeq {
			t.Fatalf("fills[%d].Seq = %d, want %d", i, fills[i].Seq, wantSeq)
		}
	}
}
