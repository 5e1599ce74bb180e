package engine

import "github.com/bttger/bloomberg-exchange-hackatum2022/pkg/book"

// Replay folds one symbol's committed event sequence, in Seq order, into a
// fresh book. Events for other symbols are skipped. Taker-side fill events
// are no-ops: the incoming order is not resident while it matches, only its
// residual Accepted event places anything on the book.
func Replay(symbol string, events []Event) *book.Book {
	b := book.New(symbol)
	for _, ev := range events {
		if ev.Symbol != symbol {
			continue
		}
		switch ev.Kind {
		case Accepted:
			b.Insert(&book.Order{
				ID:     ev.OrderID,
				User:   ev.User,
				Symbol: ev.Symbol,
				Side:   ev.Side,
				Price:  ev.Price,
				Qty:    ev.Resting,
				Time:   ev.Time,
			})
		case Coalesced:
			if lv, ok := b.Find(ev.Side, ev.Price); ok {
				if o := lv.FindUser(ev.User); o != nil {
					o.Qty = ev.Resting
				}
			}
		case PartiallyFilled, FullyFilled:
			if ev.OrderID != ev.MakerID {
				continue
			}
			applyReduction(b, ev)
		case Cancelled:
			applyReduction(b, ev)
		}
	}
	return b
}

// applyReduction sets the affected resting order's quantity to the event's
// resulting value, removing the order and its level when it reaches zero.
func applyReduction(b *book.Book, ev Event) {
	lv, ok := b.Find(ev.Side, ev.Price)
	if !ok {
		return
	}
	for _, o := range lv.Orders {
		if o.ID != ev.OrderID {
			continue
		}
		o.Qty = ev.Resting
		if o.Qty == 0 {
			lv.Remove(o.ID)
			b.RemoveEmptyLevel(ev.Side, ev.Price)
		}
		return
	}
}
