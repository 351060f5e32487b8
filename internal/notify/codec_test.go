package notify

import (
	"bytes"
	"testing"

	"github.com/fincast/fincast/internal/compression"
)

func TestEncodeDecode_RawRoundTrip(t *testing.T) {
	payload := []byte(`{"severity":"high","type":"cash_flow"}`)

	encoded, err := Encode(payload, 1024)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if encoded[0] != byte(compression.None) {
		t.Errorf("Expected raw header %d, got %d", compression.None, encoded[0])
	}
	if !bytes.Equal(encoded[1:], payload) {
		t.Error("Raw body should pass through unchanged")
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Errorf("Round trip mismatch: got %s, want %s", decoded, payload)
	}
}

func TestEncodeDecode_CompressedRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"period":"2025-07","value":18250.40},`), 200) // ~7KB

	encoded, err := Encode(payload, 1024)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if encoded[0] != byte(compression.Snappy) {
		t.Errorf("Expected snappy header %d, got %d", compression.Snappy, encoded[0])
	}
	if len(encoded) >= len(payload) {
		t.Errorf("Expected compressed envelope smaller than payload: %d >= %d", len(encoded), len(payload))
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Error("Compressed round trip mismatch")
	}
}

func TestEncode_ThresholdBoundary(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 100)

	// Exactly at the threshold stays raw; compression needs strictly more.
	atThreshold, err := Encode(payload, 100)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if atThreshold[0] != byte(compression.None) {
		t.Errorf("Payload at threshold should stay raw, got header %d", atThreshold[0])
	}

	aboveThreshold, err := Encode(payload, 99)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if aboveThreshold[0] != byte(compression.Snappy) {
		t.Errorf("Payload above threshold should compress, got header %d", aboveThreshold[0])
	}
}

func TestEncode_ZeroThresholdDisablesCompression(t *testing.T) {
	payload := bytes.Repeat([]byte("compressible "), 1000)

	for _, threshold := range []int{0, -1} {
		encoded, err := Encode(payload, threshold)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		if encoded[0] != byte(compression.None) {
			t.Errorf("Expected raw header with threshold %d, got %d", threshold, encoded[0])
		}
		if !bytes.Equal(encoded[1:], payload) {
			t.Error("Body should pass through unchanged")
		}
	}
}

func TestEncodeDecode_EmptyPayload(t *testing.T) {
	encoded, err := Encode(nil, 0)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if len(encoded) != 1 {
		t.Fatalf("Expected header-only envelope, got %d bytes", len(encoded))
	}
	if encoded[0] != byte(compression.None) {
		t.Errorf("Expected raw header, got %d", encoded[0])
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("Expected empty payload, got %d bytes", len(decoded))
	}
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(nil)
	if err == nil {
		t.Error("Expected error for empty envelope, got nil")
	}

	_, err = Decode([]byte{})
	if err == nil {
		t.Error("Expected error for zero-length envelope, got nil")
	}
}

func TestDecode_UnknownAlgorithm(t *testing.T) {
	_, err := Decode([]byte{0x07, 'd', 'a', 't', 'a'})
	if err == nil {
		t.Error("Expected error for unknown algorithm byte, got nil")
	}
}

func TestDecode_CorruptedBody(t *testing.T) {
	corrupted := []byte{byte(compression.Snappy), 0xFF, 0xFF, 0xFF, 0xFF}

	_, err := Decode(corrupted)
	if err == nil {
		t.Error("Expected error for corrupted compressed body, got nil")
	}
}

func BenchmarkEncode(b *testing.B) {
	b.Run("Raw", func(b *testing.B) {
		payload := []byte(`{"severity":"medium","type":"budget_overrun","value":12.5}`)
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = Encode(payload, 1024)
		}
	})

	b.Run("Compressed", func(b *testing.B) {
		payload := bytes.Repeat([]byte(`{"period":"2025-07","value":18250.40},`), 200)
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = Encode(payload, 1024)
		}
	})
}

func BenchmarkDecode(b *testing.B) {
	payload := bytes.Repeat([]byte(`{"period":"2025-07","value":18250.40},`), 200)
	encoded, _ := Encode(payload, 1024)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(encoded)
	}
}
