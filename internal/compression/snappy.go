package compression

import (
	"fmt"

	"github.com/golang/snappy"
)

// snappyCodec implements Codec with Snappy block encoding. Envelopes
// carry one message each, so the block format applies rather than the
// framed streaming format.
type snappyCodec struct{}

func (snappyCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return snappy.Encode(nil, data), nil
}

func (snappyCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		// An empty body is a legitimately empty payload, not corruption.
		return data, nil
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decode: %w", err)
	}
	return out, nil
}

func (snappyCodec) Algorithm() Algorithm {
	return Snappy
}
