package cache

import "github.com/golang/snappy"

// compress snappy-encodes a cache payload. Layer polygons are long runs of
// similar digits and shrink several-fold.
func compress(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// decompress reverses compress.
func decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}
