package codec

// Raw stores byte blobs exactly as given, without any framing.
type Raw[T ~[]byte] struct{}

func NewRaw[T ~[]byte]() Raw[T] {
	return Raw[T]{}
}

func (Raw[T]) Encode(value T) ([]byte, error) {
	return []byte(value), nil
}

// Decode never fails. The result aliases the given bytes.
func (Raw[T]) Decode(bytes []byte) (T, error) {
	return T(bytes), nil
}
