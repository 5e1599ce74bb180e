package engine

import "github.com/bttger/bloomberg-exchange-hackatum2022/pkg/book"

// Requests are the closed set of operations the engine accepts. The
// transport collaborator validates wire input into these; the engine
// re-checks the numeric constraints before touching book state.

type AddRequest struct {
	User   string
	Symbol string
	Side   book.Side
	Price  int64
	Qty    int64
}

type AddResult struct {
	OrderID   book.OrderID
	Filled    int64
	AvgPrice  int64 // quantity-weighted over this Add's fills, 0 if no fill
	Resting   int64 // quantity left on the book under OrderID
	Coalesced bool
}

type CancelRequest struct {
	User   string
	Symbol string
	Side   book.Side
	Price  int64
	Qty    int64
}

type CancelResult struct {
	// Cancelled is the quantity actually removed, which may be less than
	// requested or zero. Over-cancel is not an error.
	Cancelled int64
}

// ListFilter narrows a List snapshot. Nil fields are wildcards; set fields
// are conjunctive.
type ListFilter struct {
	User   *string
	Side   *book.Side
	Symbol *string
}

// MatchFilter narrows a Match query over the fill history. User matches
// either side of a trade; Buyer and Seller match their respective sides.
type MatchFilter struct {
	User   *string
	Buyer  *string
	Seller *string
	Symbol *string
}
