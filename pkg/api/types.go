package api

import (
	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/book"
	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/engine"
)

// Wire types for the /api websocket. Requests are externally tagged
// envelopes, one tag per request kind:
//
//	{"Add":   {"user": "...", "side": "buy", "stock": "ACME", "price": 10, "quantity": 5}}
//	{"Del":   {"user": "...", "side": "buy", "stock": "ACME", "price": 10, "quantity": 5}}
//	{"List":  {"user": "...", "side": "...", "stock": "..."}}     // all fields optional
//	{"Match": {"user": "...", "buyer": "...", "seller": "...", "stock": "..."}}
//
// "stock" is the wire name for symbol.

type Envelope struct {
	Add   *AddMessage   `json:"Add,omitempty"`
	Del   *DelMessage   `json:"Del,omitempty"`
	List  *ListMessage  `json:"List,omitempty"`
	Match *MatchMessage `json:"Match,omitempty"`
}

type AddMessage struct {
	User     string `json:"user"`
	Side     string `json:"side"`
	Stock    string `json:"stock"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

type DelMessage struct {
	User     string `json:"user"`
	Side     string `json:"side"`
	Stock    string `json:"stock"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

type ListMessage struct {
	User  *string `json:"user,omitempty"`
	Side  *string `json:"side,omitempty"`
	Stock *string `json:"stock,omitempty"`
}

type MatchMessage struct {
	User   *string `json:"user,omitempty"`
	Buyer  *string `json:"buyer,omitempty"`
	Seller *string `json:"seller,omitempty"`
	Stock  *string `json:"stock,omitempty"`
}

type AddResponse struct {
	OrderID   uint64 `json:"orderId"`
	Filled    int64  `json:"filled"`
	AvgPrice  int64  `json:"avgPrice"`
	Resting   int64  `json:"resting"`
	Coalesced bool   `json:"coalesced"`
}

type DelResponse struct {
	Cancelled int64 `json:"cancelled"`
}

type OrderInfo struct {
	OrderID uint64 `json:"orderId"`
	User    string `json:"user"`
	Stock   string `json:"stock"`
	Side    string `json:"side"`
	Price   int64  `json:"price"`
	Qty     int64  `json:"quantity"`
	Time    int64  `json:"time"`
}

type TradeInfo struct {
	Seq    uint64 `json:"seq"`
	Stock  string `json:"stock"`
	Price  int64  `json:"price"`
	Qty    int64  `json:"quantity"`
	Buyer  string `json:"buyer"`
	Seller string `json:"seller"`
	Time   int64  `json:"time"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func orderInfo(o book.Order) OrderInfo {
	return OrderInfo{
		OrderID: uint64(o.ID),
		User:    o.User,
		Stock:   o.Symbol,
		Side:    o.Side.String(),
		Price:   o.Price,
		Qty:     o.Qty,
		Time:    o.Time,
	}
}

func tradeInfo(ev engine.Event) TradeInfo {
	return TradeInfo{
		Seq:    ev.Seq,
		Stock:  ev.Symbol,
		Price:  ev.Price,
		Qty:    ev.Qty,
		Buyer:  ev.Buyer,
		Seller: ev.Seller,
		Time:   ev.Time,
	}
}
