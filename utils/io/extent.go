package io

import (
	"fmt"
)

/*
An Extent locates one record inside an epoch data file. It is stored packed into a
single uint64:

	 63          48 47                                            0
	+--------------+-----------------------------------------------+
	|  size (u16)  |                 offset (u48)                  |
	+--------------+-----------------------------------------------+

The packed form caps a data file at 2^48 bytes (256 TiB) and a record at 65535 bytes.
*/

const (
	extentOffsetBits = 48

	// MaxExtentOffset is the largest byte offset an extent can address.
	MaxExtentOffset uint64 = 1<<extentOffsetBits - 1
	// MaxExtentSize is the largest record, in bytes, an extent can describe.
	MaxExtentSize uint64 = 1<<16 - 1

	extentOffsetMask = MaxExtentOffset
	extentSizeMask   = MaxExtentSize << extentOffsetBits
)

type Extent struct {
	Offset uint64
	Size   uint16
}

// NewExtent validates offset and size against the packed format.
func NewExtent(offset, size uint64) (Extent, error) {
	if offset > MaxExtentOffset {
		return Extent{}, fmt.Errorf("extent offset %d exceeds %d", offset, MaxExtentOffset)
	}
	if size > MaxExtentSize {
		return Extent{}, fmt.Errorf("extent size %d exceeds %d", size, MaxExtentSize)
	}
	return Extent{Offset: offset, Size: uint16(size)}, nil
}

// Pack truncates Offset to 48 bits; use NewExtent to reject offsets that do not fit.
func (e Extent) Pack() uint64 {
	return uint64(e.Size)<<extentOffsetBits | e.Offset&extentOffsetMask
}

func UnpackExtent(v uint64) Extent {
	return Extent{
		Offset: v & extentOffsetMask,
		Size:   uint16((v & extentSizeMask) >> extentOffsetBits),
	}
}

// End is the offset of the first byte after the extent.
func (e Extent) End() uint64 {
	return e.Offset + uint64(e.Size)
}

func (e Extent) String() string {
	return fmt.Sprintf("[%d+%d]", e.Offset, e.Size)
}
