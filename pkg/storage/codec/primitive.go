package codec

import (
	"encoding/binary"

	"github.com/iotaledger/chainstore/pkg/model"
)

// Fixed is a codec for values with a statically known width.
type Fixed[T any] struct {
	name   string
	size   int
	encode func(T) []byte
	decode func([]byte) T
}

// NewFixed creates a codec that writes exactly size bytes and only accepts inputs of exactly that length.
func NewFixed[T any](name string, size int, encode func(T) []byte, decode func([]byte) T) *Fixed[T] {
	return &Fixed[T]{
		name:   name,
		size:   size,
		encode: encode,
		decode: decode,
	}
}

func (f *Fixed[T]) Size() int {
	return f.size
}

func (f *Fixed[T]) Encode(value T) ([]byte, error) {
	return f.encode(value), nil
}

func (f *Fixed[T]) Decode(bytes []byte) (value T, err error) {
	if len(bytes) != f.size {
		return value, decodeError(nil, "%s: expected %d bytes, got %d", f.name, f.size, len(bytes))
	}

	return f.decode(bytes), nil
}

var (
	Uint8 = NewFixed("uint8", 1, func(v uint8) []byte {
		return []byte{v}
	}, func(b []byte) uint8 {
		return b[0]
	})

	Uint16 = NewFixed("uint16", 2, func(v uint16) []byte {
		return binary.BigEndian.AppendUint16(nil, v)
	}, binary.BigEndian.Uint16)

	Uint32 = NewFixed("uint32", 4, func(v uint32) []byte {
		return binary.BigEndian.AppendUint32(nil, v)
	}, binary.BigEndian.Uint32)

	Uint64 = NewFixed("uint64", 8, func(v uint64) []byte {
		return binary.BigEndian.AppendUint64(nil, v)
	}, binary.BigEndian.Uint64)

	Uint128 = NewFixed("uint128", 16, model.Uint128.Bytes, func(b []byte) model.Uint128 {
		return model.Uint128{Hi: binary.BigEndian.Uint64(b[:8]), Lo: binary.BigEndian.Uint64(b[8:])}
	})

	BlockHeight = NewFixed("BlockHeight", model.BlockHeightLength, model.BlockHeight.Bytes, func(b []byte) model.BlockHeight {
		return model.BlockHeight(binary.BigEndian.Uint32(b))
	})

	DaBlockHeight = NewFixed("DaBlockHeight", model.DaBlockHeightLength, model.DaBlockHeight.Bytes, func(b []byte) model.DaBlockHeight {
		return model.DaBlockHeight(binary.BigEndian.Uint64(b))
	})

	UtxoID = NewFixed("UtxoID", model.UtxoIDLength, model.UtxoID.Bytes, func(b []byte) model.UtxoID {
		var txID model.TxID
		copy(txID[:], b[:model.Bytes32Length])

		return model.NewUtxoID(txID, b[model.Bytes32Length])
	})
)
