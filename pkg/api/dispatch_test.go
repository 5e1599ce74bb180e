package api

import (
	"encoding/json"
	"testing"

	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/engine"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.New(engine.Config{})
	t.Cleanup(e.Close)
	return e
}

func decodeEnvelope(t *testing.T, raw string) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return env
}

func TestDispatchAddDelListMatch(t *testing.T) {
	e := testEngine(t)

	res, err := dispatch(e, decodeEnvelope(t,
		`{"Add": {"user": "alice", "side": "sell", "stock": "ACME", "price": 100, "quantity": 5}}`))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if add := res.(AddResponse); add.Resting != 5 || add.Filled != 0 {
		t.Fatalf("Add response = %+v", add)
	}

	res, err = dispatch(e, decodeEnvelope(t,
		`{"Add": {"user": "bob", "side": "buy", "stock": "ACME", "price": 100, "quantity": 3}}`))
	if err != nil {
		t.Fatalf("crossing Add: %v", err)
	}
	if add := res.(AddResponse); add.Filled != 3 || add.AvgPrice != 100 {
		t.Fatalf("crossing Add response = %+v", add)
	}

	res, err = dispatch(e, decodeEnvelope(t, `{"List": {"stock": "ACME"}}`))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	orders := res.([]OrderInfo)
	if len(orders) != 1 || orders[0].User != "alice" || orders[0].Qty != 2 {
		t.Fatalf("List response = %+v, want alice's remaining 2", orders)
	}

	res, err = dispatch(e, decodeEnvelope(t, `{"Match": {"buyer": "bob"}}`))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	trades := res.([]TradeInfo)
	if len(trades) != 1 || trades[0].Seller != "alice" || trades[0].Qty != 3 {
		t.Fatalf("Match response = %+v", trades)
	}

	res, err = dispatch(e, decodeEnvelope(t,
		`{"Del": {"user": "alice", "side": "sell", "stock": "ACME", "price": 100, "quantity": 9}}`))
	if err != nil {
		t.Fatalf("Del: %v", err)
	}
	if del := res.(DelResponse); del.Cancelled != 2 {
		t.Fatalf("Del response = %+v, want the 2 that rested", del)
	}
}

func TestDispatchErrors(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		name string
		raw  string
	}{
		{"no tag", `{}`},
		{"bad side", `{"Add": {"user": "a", "side": "hold", "stock": "ACME", "price": 1, "quantity": 1}}`},
		{"bad list side", `{"List": {"side": "sideways"}}`},
		{"zero price", `{"Add": {"user": "a", "side": "buy", "stock": "ACME", "price": 0, "quantity": 1}}`},
		{"empty user", `{"Add": {"side": "buy", "stock": "ACME", "price": 1, "quantity": 1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dispatch(e, decodeEnvelope(t, tt.raw)); err == nil {
				t.Fatalf("dispatch(%s) succeeded, want error", tt.raw)
			}
		})
	}
}

func TestListWildcards(t *testing.T) {
	e := testEngine(t)

	for _, raw := range []string{
		`{"Add": {"user": "a", "side": "buy", "stock": "ACME", "price": 10, "quantity": 1}}`,
		`{"Add": {"user": "b", "side": "sell", "stock": "ZINC", "price": 20, "quantity": 2}}`,
	} {
		if _, err := dispatch(e, decodeEnvelope(t, raw)); err != nil {
			t.Fatalf("seed %s: %v", raw, err)
		}
	}

	res, err := dispatch(e, decodeEnvelope(t, `{"List": {}}`))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if orders := res.([]OrderInfo); len(orders) != 2 {
		t.Fatalf("wildcard List = %+v, want both orders", orders)
	}

	res, err = dispatch(e, decodeEnvelope(t, `{"List": {"side": "sell"}}`))
	if err != nil {
		t.Fatalf("List sell: %v", err)
	}
	if orders := res.([]OrderInfo); len(orders) != 1 || orders[0].Stock != "ZINC" {
		t.Fatalf("side-filtered List = %+v", orders)
	}
}
