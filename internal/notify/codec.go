package notify

import (
	"fmt"

	"github.com/fincast/fincast/internal/compression"
)

// Encode frames a payload with a one-byte compression header. Payloads
// longer than compressThreshold are Snappy-compressed; the rest pass
// through raw. A threshold of zero or below disables compression entirely.
func Encode(payload []byte, compressThreshold int) ([]byte, error) {
	algo := compression.None
	if compressThreshold > 0 && len(payload) > compressThreshold {
		algo = compression.Snappy
	}

	codec, err := compression.ForAlgorithm(algo)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	body, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	framed := make([]byte, 0, len(body)+1)
	framed = append(framed, byte(algo))
	framed = append(framed, body...)
	return framed, nil
}

// Decode strips the compression header and returns the original payload
func Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty payload envelope")
	}

	codec, err := compression.ForAlgorithm(compression.Algorithm(data[0]))
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	body, err := codec.Decompress(data[1:])
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return body, nil
}
