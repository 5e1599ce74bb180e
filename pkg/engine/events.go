package engine

import "github.com/bttger/bloomberg-exchange-hackatum2022/pkg/book"

type EventKind int8

const (
	Accepted EventKind = iota + 1
	PartiallyFilled
	FullyFilled
	Cancelled
	Coalesced
)

func (k EventKind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case PartiallyFilled:
		return "partially_filled"
	case FullyFilled:
		return "fully_filled"
	case Cancelled:
		return "cancelled"
	case Coalesced:
		return "coalesced"
	default:
		return "unknown"
	}
}

// IsFill reports whether the event records a trade.
func (k EventKind) IsFill() bool { return k == PartiallyFilled || k == FullyFilled }

// Event is one committed book mutation. Seq is strictly increasing per
// symbol and follows the order in which mutations won the symbol's
// exclusive section, so replaying a symbol's events in Seq order rebuilds
// its book exactly.
//
// Every fill produces two events, one per affected order: the resting
// (maker) side and the incoming (taker) side, each kinded by its own
// remaining quantity. Both carry the counterparty fields; Price is always
// the resting order's price.
type Event struct {
	Seq    uint64    `json:"seq"`
	Kind   EventKind `json:"kind"`
	Symbol string    `json:"symbol"`
	Time   int64     `json:"time"` // unix nanos

	OrderID book.OrderID `json:"orderId"`
	User    string       `json:"user"`
	Side    book.Side    `json:"side"`
	Price   int64        `json:"price"`
	Qty     int64        `json:"qty"`     // quantity this event moved
	Resting int64        `json:"resting"` // order's resting quantity afterwards

	// Counterparty fields, set on fills only.
	TakerID book.OrderID `json:"takerId,omitempty"`
	MakerID book.OrderID `json:"makerId,omitempty"`
	Buyer   string       `json:"buyer,omitempty"`
	Seller  string       `json:"seller,omitempty"`
}

// EventSink is the durable append-only store for committed events. Append
// is called once per event, outside any symbol's exclusive section, and is
// best effort: a failure is logged, never surfaced to the caller whose
// mutation produced the event.
type EventSink interface {
	Append(Event) error
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Append(Event) error { return nil }
