package codec

import (
	"github.com/iotaledger/hive.go/ierrors"
)

var (
	// ErrDecode is returned when stored bytes do not match the shape expected by a codec.
	ErrDecode = ierrors.New("failed to decode value")
	ErrEncode = ierrors.New("failed to encode value")
)

// Codec converts values of type T to and from their persisted byte representation.
type Codec[T any] interface {
	// Encode returns the persisted form of the value. The returned slice may alias the value.
	Encode(value T) ([]byte, error)

	// Decode parses the persisted form. It fails with ErrDecode instead of truncating or defaulting.
	Decode(bytes []byte) (T, error)
}

func decodeError(err error, format string, args ...any) error {
	return codecError(ErrDecode, err, format, args...)
}

func codecError(sentinel error, err error, format string, args ...any) error {
	if err == nil {
		return ierrors.Wrapf(sentinel, format, args...)
	}

	return ierrors.Join(sentinel, ierrors.Wrapf(err, format, args...))
}
