// Package engine implements the matching engine: price-time priority
// matching with same-user same-price coalescing, tuple-form cancels, and
// snapshot queries, sharded per symbol.
package engine

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/book"
	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/util"
)

// DefaultRecentFills is the per-symbol fill ring capacity when the config
// leaves it unset.
const DefaultRecentFills = 1024

type Config struct {
	Sink        EventSink
	Logger      *zap.SugaredLogger
	Clock       util.Clock
	RecentFills int
	// OnFill, if set, observes every fill event after it has been handed to
	// the sink. Called off the critical section; used by the API layer to
	// broadcast trades.
	OnFill func(Event)
}

// bookState is one symbol's shard: the book, its event sequence and its
// fill ring, all guarded by mu. Add/Cancel hold the write lock for the
// whole coalesce-match-insert transaction; List/Match hold the read lock
// while building their snapshot.
type bookState struct {
	mu   sync.RWMutex
	book *book.Book
	seq  uint64
	ring *fillRing
}

type Engine struct {
	log      *zap.SugaredLogger
	sink     EventSink
	clock    util.Clock
	ringSize int
	onFill   func(Event)

	mu    sync.RWMutex
	books map[string]*bookState

	nextID atomic.Uint64

	// Committed events queue up here, in symbol-lock acquisition order, and
	// a single forwarder goroutine drains them to the sink so no caller
	// ever blocks on persistence inside the exclusive section.
	pendMu  sync.Mutex
	idle    *sync.Cond
	pending []Event
	busy    bool
	notify  chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	closed  sync.Once
}

func New(cfg Config) *Engine {
	e := &Engine{
		log:      cfg.Logger,
		sink:     cfg.Sink,
		clock:    cfg.Clock,
		ringSize: cfg.RecentFills,
		onFill:   cfg.OnFill,
		books:    make(map[string]*bookState),
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	if e.log == nil {
		e.log = zap.NewNop().Sugar()
	}
	if e.sink == nil {
		e.sink = NopSink{}
	}
	if e.clock == nil {
		e.clock = util.RealClock{}
	}
	if e.ringSize <= 0 {
		e.ringSize = DefaultRecentFills
	}
	e.idle = sync.NewCond(&e.pendMu)
	e.wg.Add(1)
	go e.forward()
	return e
}

// Close drains pending events and stops the forwarder.
func (e *Engine) Close() {
	e.closed.Do(func() {
		close(e.done)
		e.wg.Wait()
	})
}

// state returns the shard for symbol, registering it if create is set.
func (e *Engine) state(symbol string, create bool) (*bookState, bool) {
	e.mu.RLock()
	bs, ok := e.books[symbol]
	e.mu.RUnlock()
	if ok || !create {
		return bs, ok
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if bs, ok := e.books[symbol]; ok {
		return bs, true
	}
	bs = &bookState{book: book.New(symbol), ring: newFillRing(e.ringSize)}
	e.books[symbol] = bs
	return bs, true
}

// symbols returns the registered symbols matching the optional filter, in
// lexical order so query output is deterministic.
func (e *Engine) symbols(filter *string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if filter != nil {
		if _, ok := e.books[*filter]; ok {
			return []string{*filter}
		}
		return nil
	}
	out := make([]string, 0, len(e.books))
	for sym := range e.books {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

func validate(user, symbol string, side book.Side, price, qty int64) error {
	switch {
	case user == "":
		return ErrEmptyUser
	case symbol == "":
		return ErrEmptySymbol
	case !side.Valid():
		return ErrInvalidSide
	case price <= 0:
		return ErrInvalidPrice
	case qty <= 0:
		return ErrInvalidQty
	}
	return nil
}

func crosses(side book.Side, price, opposing int64) bool {
	if side == book.Buy {
		return price >= opposing
	}
	return price <= opposing
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Add runs the coalesce check, crosses the incoming order against resting
// liquidity in price-time priority, and rests any residual. The whole
// sequence holds the symbol's exclusive section, so no reader observes a
// half-matched book. An order that fully matches away is a success, not an
// error.
func (e *Engine) Add(req AddRequest) (AddResult, error) {
	if err := validate(req.User, req.Symbol, req.Side, req.Price, req.Qty); err != nil {
		return AddResult{}, err
	}

	bs, _ := e.state(req.Symbol, true)
	bs.mu.Lock()
	defer bs.mu.Unlock()

	now := e.clock.Now().UnixNano()
	var events []Event

	// Coalesce: a same-user order already resting at this (side, price)
	// absorbs the incoming quantity. Price is unchanged, so the book cannot
	// newly cross and matching is skipped.
	if lv, ok := bs.book.Find(req.Side, req.Price); ok {
		if o := lv.FindUser(req.User); o != nil {
			o.Qty += req.Qty
			bs.seq++
			events = append(events, Event{
				Seq:     bs.seq,
				Kind:    Coalesced,
				Symbol:  req.Symbol,
				Time:    now,
				OrderID: o.ID,
				User:    o.User,
				Side:    o.Side,
				Price:   o.Price,
				Qty:     req.Qty,
				Resting: o.Qty,
			})
			e.enqueue(events)
			return AddResult{OrderID: o.ID, Resting: o.Qty, Coalesced: true}, nil
		}
	}

	id := book.OrderID(e.nextID.Add(1))
	incoming := &book.Order{
		ID:     id,
		User:   req.User,
		Symbol: req.Symbol,
		Side:   req.Side,
		Price:  req.Price,
		Qty:    req.Qty,
		Time:   now,
	}

	var filled, notional, lastPrice int64
	for incoming.Qty > 0 {
		best, ok := bs.book.BestOpposing(req.Side)
		if !ok || !crosses(req.Side, req.Price, best) {
			break
		}
		lv, _ := bs.book.Find(req.Side.Opposite(), best)
		maker := lv.Head()

		fill := min64(incoming.Qty, maker.Qty)
		incoming.Qty -= fill
		maker.Qty -= fill
		filled += fill
		notional += fill * best
		lastPrice = best

		buyer, seller := incoming.User, maker.User
		if req.Side == book.Sell {
			buyer, seller = maker.User, incoming.User
		}
		makerKind := PartiallyFilled
		if maker.Qty == 0 {
			makerKind = FullyFilled
		}
		takerKind := PartiallyFilled
		if incoming.Qty == 0 {
			takerKind = FullyFilled
		}

		bs.seq++
		makerEv := Event{
			Seq:     bs.seq,
			Kind:    makerKind,
			Symbol:  req.Symbol,
			Time:    now,
			OrderID: maker.ID,
			User:    maker.User,
			Side:    maker.Side,
			Price:   best,
			Qty:     fill,
			Resting: maker.Qty,
			TakerID: incoming.ID,
			MakerID: maker.ID,
			Buyer:   buyer,
			Seller:  seller,
		}
		bs.seq++
		takerEv := Event{
			Seq:     bs.seq,
			Kind:    takerKind,
			Symbol:  req.Symbol,
			Time:    now,
			OrderID: incoming.ID,
			User:    incoming.User,
			Side:    incoming.Side,
			Price:   best,
			Qty:     fill,
			Resting: incoming.Qty,
			TakerID: incoming.ID,
			MakerID: maker.ID,
			Buyer:   buyer,
			Seller:  seller,
		}
		events = append(events, makerEv, takerEv)
		// One retained record per trade: the maker-side event.
		bs.ring.push(makerEv)

		if maker.Qty == 0 {
			lv.PopHead()
			bs.book.RemoveEmptyLevel(maker.Side, best)
		}
	}

	if incoming.Qty > 0 {
		bs.book.Insert(incoming)
		bs.seq++
		events = append(events, Event{
			Seq:     bs.seq,
			Kind:    Accepted,
			Symbol:  req.Symbol,
			Time:    now,
			OrderID: incoming.ID,
			User:    incoming.User,
			Side:    incoming.Side,
			Price:   incoming.Price,
			Qty:     incoming.Qty,
			Resting: incoming.Qty,
		})
	}

	e.enqueue(events)
	return AddResult{
		OrderID:  id,
		Filled:   filled,
		AvgPrice: avgPrice(notional, filled, lastPrice),
		Resting:  incoming.Qty,
	}, nil
}

// avgPrice is the quantity-weighted mean fill price, rounded to the nearest
// tick with a half tie broken toward the last resting price touched.
func avgPrice(notional, filled, lastPrice int64) int64 {
	if filled == 0 {
		return 0
	}
	q := notional / filled
	r := notional % filled
	switch {
	case 2*r > filled:
		return q + 1
	case 2*r == filled && lastPrice > q:
		return q + 1
	default:
		return q
	}
}

// Cancel removes up to req.Qty from the user's resting orders at
// (side, price), oldest first. Quantity that is not there is not an error:
// the result reports what was actually removed.
func (e *Engine) Cancel(req CancelRequest) (CancelResult, error) {
	if err := validate(req.User, req.Symbol, req.Side, req.Price, req.Qty); err != nil {
		return CancelResult{}, err
	}

	bs, ok := e.state(req.Symbol, false)
	if !ok {
		return CancelResult{}, nil
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	lv, ok := bs.book.Find(req.Side, req.Price)
	if !ok {
		return CancelResult{}, nil
	}

	now := e.clock.Now().UnixNano()
	remaining := req.Qty
	var cancelled int64
	var events []Event

	// Walk a copy: removals below mutate the level's slice.
	orders := append([]*book.Order(nil), lv.Orders...)
	for _, o := range orders {
		if remaining == 0 {
			break
		}
		if o.User != req.User {
			continue
		}
		cut := min64(remaining, o.Qty)
		o.Qty -= cut
		remaining -= cut
		cancelled += cut
		bs.seq++
		events = append(events, Event{
			Seq:     bs.seq,
			Kind:    Cancelled,
			Symbol:  req.Symbol,
			Time:    now,
			OrderID: o.ID,
			User:    o.User,
			Side:    o.Side,
			Price:   o.Price,
			Qty:     cut,
			Resting: o.Qty,
		})
		if o.Qty == 0 {
			lv.Remove(o.ID)
		}
	}
	bs.book.RemoveEmptyLevel(req.Side, req.Price)

	e.enqueue(events)
	return CancelResult{Cancelled: cancelled}, nil
}

// List snapshots all resting orders matching the filter, ordered by symbol,
// then side (bids first), then price best-to-worst, then time priority. The
// snapshot is consistent per symbol: each symbol's book is read under its
// shared section.
func (e *Engine) List(f ListFilter) []book.Order {
	var out []book.Order
	for _, sym := range e.symbols(f.Symbol) {
		bs, ok := e.state(sym, false)
		if !ok {
			continue
		}
		bs.mu.RLock()
		for _, side := range []book.Side{book.Buy, book.Sell} {
			if f.Side != nil && *f.Side != side {
				continue
			}
			for _, lv := range bs.book.Levels(side) {
				for _, o := range lv.Orders {
					if f.User != nil && *f.User != o.User {
						continue
					}
					out = append(out, *o)
				}
			}
		}
		bs.mu.RUnlock()
	}
	return out
}

// Match returns the retained fill events matching the filter, one record
// per trade, in per-symbol sequence order. It reads the in-memory fill
// rings, so recent trades stay queryable even while the sink is degraded.
func (e *Engine) Match(f MatchFilter) []Event {
	var out []Event
	for _, sym := range e.symbols(f.Symbol) {
		bs, ok := e.state(sym, false)
		if !ok {
			continue
		}
		bs.mu.RLock()
		for _, ev := range bs.ring.events() {
			if f.User != nil && *f.User != ev.Buyer && *f.User != ev.Seller {
				continue
			}
			if f.Buyer != nil && *f.Buyer != ev.Buyer {
				continue
			}
			if f.Seller != nil && *f.Seller != ev.Seller {
				continue
			}
			out = append(out, ev)
		}
		bs.mu.RUnlock()
	}
	return out
}

// SideQty reports the total resting quantity on one side of a symbol's
// book. Zero for unknown symbols.
func (e *Engine) SideQty(symbol string, side book.Side) int64 {
	bs, ok := e.state(symbol, false)
	if !ok {
		return 0
	}
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.book.SideQty(side)
}

// BestPrices returns the best bid and ask for a symbol; ok flags are false
// for empty sides or unknown symbols.
func (e *Engine) BestPrices(symbol string) (bid int64, bidOK bool, ask int64, askOK bool) {
	bs, ok := e.state(symbol, false)
	if !ok {
		return 0, false, 0, false
	}
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	bid, bidOK = bs.book.BestBid()
	ask, askOK = bs.book.BestAsk()
	return bid, bidOK, ask, askOK
}

// enqueue hands committed events to the forwarder. Called while the
// symbol's lock is still held so the queue preserves per-symbol commit
// order; the queue itself is memory-only and never blocks on I/O.
func (e *Engine) enqueue(events []Event) {
	if len(events) == 0 {
		return
	}
	e.pendMu.Lock()
	e.pending = append(e.pending, events...)
	e.pendMu.Unlock()
	select {
	case e.notify <- struct{}{}:
	default:
	}
}

func (e *Engine) forward() {
	defer e.wg.Done()
	for {
		select {
		case <-e.notify:
			e.drain()
		case <-e.done:
			e.drain()
			return
		}
	}
}

func (e *Engine) drain() {
	for {
		e.pendMu.Lock()
		if len(e.pending) == 0 {
			e.busy = false
			e.idle.Broadcast()
			e.pendMu.Unlock()
			return
		}
		e.busy = true
		batch := e.pending
		e.pending = nil
		e.pendMu.Unlock()

		for _, ev := range batch {
			if err := e.sink.Append(ev); err != nil {
				// State already committed in memory; the caller was told
				// success. Report and move on.
				e.log.Warnw("event_append_failed",
					"symbol", ev.Symbol, "seq", ev.Seq, "kind", ev.Kind.String(), "err", err)
			}
			if e.onFill != nil && ev.Kind.IsFill() && ev.OrderID == ev.MakerID {
				e.onFill(ev)
			}
		}
	}
}

// Flush blocks until every event enqueued before the call has been handed
// to the sink. Test and shutdown helper.
func (e *Engine) Flush() {
	e.pendMu.Lock()
	for len(e.pending) > 0 || e.busy {
		e.idle.Wait()
	}
	e.pendMu.Unlock()
}
