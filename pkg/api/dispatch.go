package api

import (
	"errors"

	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/book"
	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/engine"
)

var errUnknownRequest = errors.New("request must be one of Add, Del, List, Match")

// dispatch validates a decoded envelope into a typed engine request, runs
// it, and returns the JSON-marshalable response payload. Exactly one tag
// must be set.
func dispatch(eng *engine.Engine, env Envelope) (any, error) {
	switch {
	case env.Add != nil:
		side, ok := book.ParseSide(env.Add.Side)
		if !ok {
			return nil, engine.ErrInvalidSide
		}
		res, err := eng.Add(engine.AddRequest{
			User:   env.Add.User,
			Symbol: env.Add.Stock,
			Side:   side,
			Price:  env.Add.Price,
			Qty:    env.Add.Quantity,
		})
		if err != nil {
			return nil, err
		}
		return AddResponse{
			OrderID:   uint64(res.OrderID),
			Filled:    res.Filled,
			AvgPrice:  res.AvgPrice,
			Resting:   res.Resting,
			Coalesced: res.Coalesced,
		}, nil

	case env.Del != nil:
		side, ok := book.ParseSide(env.Del.Side)
		if !ok {
			return nil, engine.ErrInvalidSide
		}
		res, err := eng.Cancel(engine.CancelRequest{
			User:   env.Del.User,
			Symbol: env.Del.Stock,
			Side:   side,
			Price:  env.Del.Price,
			Qty:    env.Del.Quantity,
		})
		if err != nil {
			return nil, err
		}
		return DelResponse{Cancelled: res.Cancelled}, nil

	case env.List != nil:
		var filter engine.ListFilter
		filter.User = env.List.User
		filter.Symbol = env.List.Stock
		if env.List.Side != nil {
			side, ok := book.ParseSide(*env.List.Side)
			if !ok {
				return nil, engine.ErrInvalidSide
			}
			filter.Side = &side
		}
		orders := eng.List(filter)
		out := make([]OrderInfo, 0, len(orders))
		for _, o := range orders {
			out = append(out, orderInfo(o))
		}
		return out, nil

	case env.Match != nil:
		fills := eng.Match(engine.MatchFilter{
			User:   env.Match.User,
			Buyer:  env.Match.Buyer,
			Seller: env.Match.Seller,
			Symbol: env.Match.Stock,
		})
		out := make([]TradeInfo, 0, len(fills))
		for _, ev := range fills {
			out = append(out, tradeInfo(ev))
		}
		return out, nil

	default:
		return nil, errUnknownRequest
	}
}
