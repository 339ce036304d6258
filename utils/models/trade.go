package models

type Trade struct {
	Timestamp uint64  `msgpack:"t" csv:"time"`
	Size      uint64  `msgpack:"s" csv:"size"`
	Price     float32 `msgpack:"p" csv:"price"`
}

func (t Trade) Time() uint64 {
	return t.Timestamp
}

func (t Trade) Epoch() uint64 {
	return EpochOf(t.Timestamp, EpochWidth)
}
