// Package compression implements the payload codecs behind the notify
// envelope's algorithm byte. The byte travels on the wire, so each
// codec's numeric identity is frozen once assigned.
package compression

import "fmt"

// Algorithm is the wire identifier of a payload codec.
type Algorithm uint8

const (
	// None sends payloads uncompressed.
	None Algorithm = 0

	// Snappy applies Snappy block compression.
	Snappy Algorithm = 1
)

// String spells the algorithm the way configuration files do.
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	}
	return fmt.Sprintf("algorithm(%d)", uint8(a))
}

// Codec compresses and decompresses message bodies.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Algorithm() Algorithm
}

// ForAlgorithm resolves the codec for a wire identifier. Decoders call
// it with the leading byte of a received envelope, so an unknown value
// is an error, never a fallback.
func ForAlgorithm(algo Algorithm) (Codec, error) {
	switch algo {
	case None:
		return passthrough{}, nil
	case Snappy:
		return snappyCodec{}, nil
	}
	return nil, fmt.Errorf("unknown compression algorithm %d", algo)
}

// passthrough is the None codec: bytes in, bytes out.
type passthrough struct{}

func (passthrough) Compress(data []byte) ([]byte, error)   { return data, nil }
func (passthrough) Decompress(data []byte) ([]byte, error) { return data, nil }
func (passthrough) Algorithm() Algorithm                   { return None }
