package gt1z

import (
	"bytes"
	"testing"
)

// FuzzRoundtrip checks that any byte payload, wrapped in a minimal GT1
// record, survives Compress followed by Decompress byte-for-byte
// (spec.md §8's universal round-trip property).
func FuzzRoundtrip(f *testing.F) {
	f.Add([]byte{0})
	f.Add([]byte{0, 0, 0, 0})
	f.Add([]byte("Hello, World!"))
	f.Add(bytes.Repeat([]byte{0xAA}, 100))
	f.Add(bytes.Repeat([]byte("The quick brown fox. "), 10))

	seq := make([]byte, 256)
	for i := range seq {
		seq[i] = byte(i)
	}
	f.Add(seq)

	f.Fuzz(func(t *testing.T, payload []byte) {
		if len(payload) == 0 || len(payload) > 256 {
			return // 0 is ambiguous with the "0 means 256" record-length rule
		}
		gt1 := buildGT1(0x0200, rec(0x0200, payload))

		out, _, err := Compress(gt1, Options{})
		if err != nil {
			t.Fatalf("Compress failed: %v", err)
		}
		back, _, err := Decompress(out, Options{})
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}
		if !bytes.Equal(gt1, back) {
			t.Errorf("round-trip mismatch: payload len=%d", len(payload))
		}
	})
}

// FuzzDecompress checks that the decoder never panics on arbitrary
// input, valid or not; returning an error is fine.
func FuzzDecompress(f *testing.F) {
	f.Add([]byte{0x00, 0xFF, 0x02, 0x00, 0x10, 0x42, 0x00, 0x02, 0x00}) // scenario 1, valid
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0xFF, 0xFF, 0xFF})
	f.Add([]byte{0x00, 0xFF})                   // truncated: missing segment header
	f.Add([]byte{0x00, 0xFF, 0x02, 0x00})       // truncated: missing token stream
	f.Add([]byte{0x00, 0xFF, 0x02, 0x00, 0x70}) // extended-literal header with no count byte
	f.Add([]byte{0x01, 0x02, 0x03, 0x04})       // bad magic

	f.Fuzz(func(t *testing.T, input []byte) {
		_, _, _ = Decompress(input, Options{})
	})
}
