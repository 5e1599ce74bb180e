package engine_test

import (
	"fmt"
	"testing"

	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/book"
	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/engine"
)

// BenchmarkEngineAdd measures Add against a book pre-filled with realistic
// depth, alternating crossing buys and sells at the midpoint.
func BenchmarkEngineAdd(b *testing.B) {
	e := engine.New(engine.Config{})
	defer e.Close()

	for i := 0; i < 100; i++ {
		bidReq := engine.AddRequest{
			User: fmt.Sprintf("bidder-%d", i), Symbol: "ACME",
			Side: book.Buy, Price: int64(1000 - i), Qty: 100,
		}
		askReq := engine.AddRequest{
			User: fmt.Sprintf("asker-%d", i), Symbol: "ACME",
			Side: book.Sell, Price: int64(1100 + i), Qty: 100,
		}
		if _, err := e.Add(bidReq); err != nil {
			b.Fatal(err)
		}
		if _, err := e.Add(askReq); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := book.Buy
		if i%2 == 0 {
			side = book.Sell
		}
		req := engine.AddRequest{
			User: fmt.Sprintf("taker-%d", i), Symbol: "ACME",
			Side: side, Price: 1050, Qty: 10,
		}
		if _, err := e.Add(req); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEngineList measures snapshot construction over a deep book.
func BenchmarkEngineList(b *testing.B) {
	e := engine.New(engine.Config{})
	defer e.Close()

	for i := 0; i < 500; i++ {
		req := engine.AddRequest{
			User: fmt.Sprintf("u%d", i), Symbol: "ACME",
			Side: book.Buy, Price: int64(1 + i), Qty: 10,
		}
		if _, err := e.Add(req); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if got := e.List(engine.ListFilter{}); len(got) == 0 {
			b.Fatal("empty snapshot")
		}
	}
}
