package codec

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/iotaledger/hive.go/lo"
)

var (
	encMode = lo.PanicOnErr(cbor.CoreDetEncOptions().EncMode())
	decMode = lo.PanicOnErr(cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode())
)

// Structured encodes composite values using deterministic CBOR.
type Structured[T any] struct {
	name string
}

func NewStructured[T any](name string) Structured[T] {
	return Structured[T]{name: name}
}

func (s Structured[T]) Encode(value T) ([]byte, error) {
	bytes, err := encMode.Marshal(value)
	if err != nil {
		return nil, codecError(ErrEncode, err, "%s", s.name)
	}

	return bytes, nil
}

// Decode rejects malformed framing, unknown fields and trailing bytes.
func (s Structured[T]) Decode(bytes []byte) (value T, err error) {
	if err = decMode.Unmarshal(bytes, &value); err != nil {
		return value, decodeError(err, "%s: failed to decode", s.name)
	}

	return value, nil
}
