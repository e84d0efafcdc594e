package codec

// Identifier is a codec for fixed-size identifiers that are stored as their plain bytes.
type Identifier[T any] struct {
	name      string
	size      int
	toBytes   func(T) []byte
	fromBytes func([]byte) (T, int, error)
}

func NewIdentifier[T any](name string, size int, toBytes func(T) []byte, fromBytes func([]byte) (T, int, error)) *Identifier[T] {
	return &Identifier[T]{
		name:      name,
		size:      size,
		toBytes:   toBytes,
		fromBytes: fromBytes,
	}
}

func (i *Identifier[T]) Size() int {
	return i.size
}

func (i *Identifier[T]) Encode(value T) ([]byte, error) {
	return i.toBytes(value), nil
}

func (i *Identifier[T]) Decode(bytes []byte) (value T, err error) {
	if len(bytes) != i.size {
		return value, decodeError(nil, "%s: expected %d bytes, got %d", i.name, i.size, len(bytes))
	}

	value, consumed, err := i.fromBytes(bytes)
	if err != nil {
		return value, decodeError(err, "%s: failed to parse", i.name)
	}
	if consumed != i.size {
		return value, decodeError(nil, "%s: consumed %d of %d bytes", i.name, consumed, i.size)
	}

	return value, nil
}
