package models

type Quote struct {
	Timestamp uint64  `msgpack:"t" csv:"time"`
	Size      uint64  `msgpack:"s" csv:"size"`
	AskPrice  float32 `msgpack:"a" csv:"ask_price"`
	BidPrice  float32 `msgpack:"b" csv:"bid_price"`
}

func (q Quote) Time() uint64 {
	return q.Timestamp
}

func (q Quote) Epoch() uint64 {
	return EpochOf(q.Timestamp, EpochWidth)
}

// Spread is the ask minus the bid.
func (q Quote) Spread() float32 {
	return q.AskPrice - q.BidPrice
}
