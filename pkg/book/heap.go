package book

// priceHeap tracks the prices of non-empty levels on one side so the best
// price is an O(1) peek. Bids use a max-heap, asks a min-heap.
// Use container/heap to manipulate it (Init, Push, Pop, Remove).
type priceHeap struct {
	prices []int64
	max    bool
}

func newPriceHeap(max bool) *priceHeap { return &priceHeap{max: max} }

func (h *priceHeap) Len() int { return len(h.prices) }

func (h *priceHeap) Less(i, j int) bool {
	if h.max {
		return h.prices[i] > h.prices[j]
	}
	return h.prices[i] < h.prices[j]
}

func (h *priceHeap) Swap(i, j int) { h.prices[i], h.prices[j] = h.prices[j], h.prices[i] }

func (h *priceHeap) Push(x any) { h.prices = append(h.prices, x.(int64)) }

func (h *priceHeap) Pop() any {
	old := h.prices
	n := len(old)
	x := old[n-1]
	h.prices = old[:n-1]
	return x
}

// Peek returns the best price without removing it.
func (h *priceHeap) Peek() (int64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}

// indexOf returns the heap position of price, or -1. O(N), but only called
// when a level empties, which is rare relative to peeks.
func (h *priceHeap) indexOf(price int64) int {
	for i, p := range h.prices {
		if p == price {
			return i
		}
	}
	return -1
}
