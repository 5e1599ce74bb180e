package book

// OrderID is assigned monotonically when an order is accepted and never
// reused within a process lifetime.
type OrderID uint64

type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side { return -s }

func (s Side) Valid() bool { return s == Buy || s == Sell }

// ParseSide maps the wire form ("buy"/"sell") to a Side.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "buy":
		return Buy, true
	case "sell":
		return Sell, true
	default:
		return 0, false
	}
}

// Order is a resting or incoming order. All fields except Qty are fixed at
// acceptance; Qty is mutated only by the engine while it holds the symbol's
// exclusive section (fills decrement, coalescing increments) and stays
// positive for as long as the order is resident in a level.
type Order struct {
	ID     OrderID
	User   string
	Symbol string
	Side   Side
	Price  int64 // integer ticks
	Qty    int64 // integer lots
	Time   int64 // acceptance time, unix nanos; tie-break within a level
}
