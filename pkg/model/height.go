package model

import (
	"encoding/binary"
	"strconv"

	"github.com/iotaledger/hive.go/ierrors"
)

const (
	// BlockHeightLength is the serialized length of a BlockHeight.
	BlockHeightLength   = 4
	// DaBlockHeightLength is the serialized length of a DaBlockHeight.
	DaBlockHeightLength = 8
)

// BlockHeight is the height of a block of this chain.
type BlockHeight uint32

func BlockHeightFromBytes(bytes []byte) (BlockHeight, int, error) {
	if len(bytes) < BlockHeightLength {
		return 0, 0, ierrors.Wrapf(ErrNotEnoughBytes, "expected %d bytes, got %d", BlockHeightLength, len(bytes))
	}

	return BlockHeight(binary.BigEndian.Uint32(bytes)), BlockHeightLength, nil
}

func (h BlockHeight) Bytes() []byte {
	return binary.BigEndian.AppendUint32(make([]byte, 0, BlockHeightLength), uint32(h))
}

func (h BlockHeight) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// DaBlockHeight is the height of a block on the data availability layer.
type DaBlockHeight uint64

func DaBlockHeightFromBytes(bytes []byte) (DaBlockHeight, int, error) {
	if len(bytes) < DaBlockHeightLength {
		return 0, 0, ierrors.Wrapf(ErrNotEnoughBytes, "expected %d bytes, got %d", DaBlockHeightLength, len(bytes))
	}

	return DaBlockHeight(binary.BigEndian.Uint64(bytes)), DaBlockHeightLength, nil
}

func (h DaBlockHeight) Bytes() []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, DaBlockHeightLength), uint64(h))
}

// Uint128 is an unsigned 128 bit integer.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

func (u Uint128) Bytes() []byte {
	b := make([]byte, 0, 16)
	b = binary.BigEndian.AppendUint64(b, u.Hi)

	return binary.BigEndian.AppendUint64(b, u.Lo)
}
