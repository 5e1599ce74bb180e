package storage

import "fmt"

// Event key schema for Pebble:
//
//   ev:<symbol>:<seq> → Event (JSON)
//
// Seq is zero-padded to 20 digits so a prefix scan yields events in
// commit order and a reverse scan yields most-recent-first.

const prefixEvent = "ev:"

func eventKey(symbol string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", prefixEvent, symbol, seq))
}

func eventPrefix(symbol string) []byte {
	return []byte(fmt.Sprintf("%s%s:", prefixEvent, symbol))
}

// keyUpperBound returns the exclusive upper bound for a prefix scan.
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
