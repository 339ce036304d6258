package snapshot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/snappy"
)

// Compressor is applied to a snapshot after encoding and before writing, and
// symmetrically after reading and before decoding.
type Compressor interface {
	Name() string
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

// None stores snapshots as-is.
var None Compressor = noneCompressor{}

type noneCompressor struct{}

func (noneCompressor) Name() string                          { return "none" }
func (noneCompressor) Compress(src []byte) ([]byte, error)   { return src, nil }
func (noneCompressor) Decompress(src []byte) ([]byte, error) { return src, nil }

// Snappy compresses with the snappy block format.
var Snappy Compressor = snappyCompressor{}

type snappyCompressor struct{}

func (snappyCompressor) Name() string { return "snappy" }

func (snappyCompressor) Compress(src []byte) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

func (snappyCompressor) Decompress(src []byte) ([]byte, error) {
	return snappy.Decode(nil, src)
}

// Flate is a raw deflate compressor at the given level.
type Flate struct {
	Level int
}

func (f Flate) Name() string { return "flate" }

func (f Flate) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, f.Level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f Flate) Decompress(src []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()
	return io.ReadAll(r)
}

// CompressorByName resolves a config value. level only applies to flate.
func CompressorByName(name string, level int) (Compressor, error) {
	switch name {
	case "", "none":
		return None, nil
	case "flate":
		return Flate{Level: level}, nil
	case "snappy":
		return Snappy, nil
	default:
		return nil, fmt.Errorf("unknown snapshot compression %q", name)
	}
}
