// Package book holds one symbol's resting liquidity: two maps of price
// levels (bids, asks) with heaps tracking the best price on each side.
//
// Book does no locking of its own. The matching engine serializes all access
// per symbol, and its coalesce-match-insert transaction has to span several
// Book calls, so the exclusive section lives one layer up.
package book

import (
	"container/heap"
	"sort"
)

type Book struct {
	symbol string

	bids map[int64]*PriceLevel
	asks map[int64]*PriceLevel

	bidHeap *priceHeap
	askHeap *priceHeap
}

func New(symbol string) *Book {
	return &Book{
		symbol:  symbol,
		bids:    make(map[int64]*PriceLevel),
		asks:    make(map[int64]*PriceLevel),
		bidHeap: newPriceHeap(true),
		askHeap: newPriceHeap(false),
	}
}

func (b *Book) Symbol() string { return b.symbol }

func (b *Book) side(s Side) (map[int64]*PriceLevel, *priceHeap) {
	if s == Buy {
		return b.bids, b.bidHeap
	}
	return b.asks, b.askHeap
}

// BestBid returns the highest resting buy price.
func (b *Book) BestBid() (int64, bool) { return b.bidHeap.Peek() }

// BestAsk returns the lowest resting sell price.
func (b *Book) BestAsk() (int64, bool) { return b.askHeap.Peek() }

// BestOpposing returns the best resting price on the side an order of the
// given side would match against.
func (b *Book) BestOpposing(s Side) (int64, bool) {
	if s == Buy {
		return b.BestAsk()
	}
	return b.BestBid()
}

// Insert appends o at the tail of its (side, price) level, creating the
// level if absent.
func (b *Book) Insert(o *Order) {
	levels, h := b.side(o.Side)
	lv, ok := levels[o.Price]
	if !ok {
		lv = newLevel(o.Price)
		levels[o.Price] = lv
		heap.Push(h, o.Price)
	}
	lv.Append(o)
}

// Find returns the level at (side, price), if one exists.
func (b *Book) Find(s Side, price int64) (*PriceLevel, bool) {
	levels, _ := b.side(s)
	lv, ok := levels[price]
	return lv, ok
}

// RemoveEmptyLevel purges the level at (side, price) once its queue is
// empty, so best-price peeks never see stale levels. No-op if the level is
// absent or still holds orders.
func (b *Book) RemoveEmptyLevel(s Side, price int64) {
	levels, h := b.side(s)
	lv, ok := levels[price]
	if !ok || !lv.Empty() {
		return
	}
	delete(levels, price)
	if i := h.indexOf(price); i >= 0 {
		heap.Remove(h, i)
	}
}

// Levels returns the side's non-empty levels sorted best-to-worst: bids
// high to low, asks low to high.
func (b *Book) Levels(s Side) []*PriceLevel {
	levels, _ := b.side(s)
	out := make([]*PriceLevel, 0, len(levels))
	for _, lv := range levels {
		out = append(out, lv)
	}
	sort.Slice(out, func(i, j int) bool {
		if s == Buy {
			return out[i].Price > out[j].Price
		}
		return out[i].Price < out[j].Price
	})
	return out
}

// SideQty sums the resting quantity across all levels on one side.
func (b *Book) SideQty(s Side) int64 {
	levels, _ := b.side(s)
	var total int64
	for _, lv := range levels {
		total += lv.TotalQty()
	}
	return total
}

// Empty reports whether no orders rest on either side.
func (b *Book) Empty() bool {
	return len(b.bids) == 0 && len(b.asks) == 0
}
