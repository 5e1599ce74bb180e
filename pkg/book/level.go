package book

// PriceLevel queues all resting orders of one (symbol, side, price), oldest
// first. Orders is FIFO: matching and user-targeted cancels always walk it
// front to back, so time priority falls out of the slice order.
type PriceLevel struct {
	Price  int64
	Orders []*Order
}

func newLevel(price int64) *PriceLevel {
	return &PriceLevel{Price: price}
}

// Append adds an order at the tail (lowest priority).
func (l *PriceLevel) Append(o *Order) {
	l.Orders = append(l.Orders, o)
}

// Head returns the oldest order, or nil if the level is empty.
func (l *PriceLevel) Head() *Order {
	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// PopHead removes the oldest order.
func (l *PriceLevel) PopHead() {
	if len(l.Orders) > 0 {
		l.Orders = l.Orders[1:]
	}
}

func (l *PriceLevel) Empty() bool { return len(l.Orders) == 0 }

// FindUser returns the oldest resting order placed by user, or nil. Used by
// the coalesce check: one user holds at most one order per level, so the
// first hit is the only hit.
func (l *PriceLevel) FindUser(user string) *Order {
	for _, o := range l.Orders {
		if o.User == user {
			return o
		}
	}
	return nil
}

// Remove deletes the order with the given id, preserving FIFO order of the
// rest. Returns false if the id is not resident.
func (l *PriceLevel) Remove(id OrderID) bool {
	for i, o := range l.Orders {
		if o.ID == id {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			return true
		}
	}
	return false
}

// TotalQty sums the resting quantity at this level.
func (l *PriceLevel) TotalQty() int64 {
	var total int64
	for _, o := range l.Orders {
		total += o.Qty
	}
	return total
}
