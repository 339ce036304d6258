package io

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshal is the single serialization used for records in data files and for
// index snapshots. Structs are encoded as arrays so the encoding does not carry
// field names.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer

	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)

	enc.Reset(&buf)
	enc.UseArrayEncodedStructs(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data produced by Marshal into v.
func Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}
