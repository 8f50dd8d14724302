package fingerprint

import (
	"math"
	"testing"
)

func TestSum_Deterministic(t *testing.T) {
	vec := []float32{0.1, -0.2, 0.3, 4.5}

	first := Sum(vec)
	second := Sum(vec)

	if first != second {
		t.Fatalf("fingerprint not deterministic: %s != %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}
}

func TestSum_OneBitChangeDiffers(t *testing.T) {
	vec := []float32{0.1, -0.2, 0.3, 4.5}
	base := Sum(vec)

	// Flip the lowest mantissa bit of one component.
	bits := math.Float32bits(vec[2]) ^ 1
	flipped := append([]float32(nil), vec...)
	flipped[2] = math.Float32frombits(bits)

	if got := Sum(flipped); got == base {
		t.Fatalf("expected different fingerprint after one-bit change, got %s twice", got)
	}
}

func TestBytes_RoundTrip(t *testing.T) {
	vec := []float32{1, 0, -2.5, float32(math.Pi)}

	decoded, ok := Vector(Bytes(vec))
	if !ok {
		t.Fatal("expected valid byte length")
	}
	if len(decoded) != len(vec) {
		t.Fatalf("expected %d components, got %d", len(vec), len(decoded))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("component %d: got %v, want %v", i, decoded[i], vec[i])
		}
	}
}

func TestVector_RejectsTruncatedData(t *testing.T) {
	if _, ok := Vector([]byte{1, 2, 3}); ok {
		t.Fatal("expected rejection of data not a multiple of 4 bytes")
	}
}
