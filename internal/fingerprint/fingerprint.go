// Package fingerprint derives short deterministic hashes from embedding
// vectors for exact-duplicate detection. Near-duplicate detection is the
// similarity engine's job: any difference in the embedding bytes, including
// floating-point noise from nondeterministic model inference, produces an
// unrelated fingerprint.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Sum returns the SHA-256 hex digest of the embedding's raw numeric byte
// representation: each component as a little-endian float32, no delimiter.
// Bit-identical embeddings produce identical fingerprints.
func Sum(embedding []float32) string {
	h := sha256.Sum256(Bytes(embedding))
	return hex.EncodeToString(h[:])
}

// Bytes encodes a vector as fixed-width little-endian float32 bytes.
func Bytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Vector decodes fixed-width little-endian float32 bytes back to a vector.
func Vector(data []byte) ([]float32, bool) {
	if len(data)%4 != 0 {
		return nil, false
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, true
}
