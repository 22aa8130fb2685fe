package wire

import (
	"math"
	"testing"
)

func mustDecode(t *testing.T, b []byte) Frame {
	t.Helper()
	f, err := DecodeFrame(b)
	if err != nil {
		t.Fatalf("DecodeFrame error: %v", err)
	}
	return f
}

func mustEncode(t *testing.T, f Frame) []byte {
	t.Helper()
	b, err := EncodeFrame(f)
	if err != nil {
		t.Fatalf("EncodeFrame error: %v", err)
	}
	return b
}

func TestFrameRoundtrip(t *testing.T) {
	cases := []Frame{
		{EntityID: "scan", Format: 1, Count: 0, PointSize: 1, Points: nil},
		{EntityID: "lidar/points", Format: 2, Count: 2, PointSize: 3.5,
			Points: []float32{1, 2, 3, 0.5, 0.25, 0.1, 1, -4, -5, -6, 0, 0, 0, 1}},
		{EntityID: "x", Format: 1, Count: 1, PointSize: float32(math.Pi),
			Points: []float32{-0, math.MaxFloat32, -math.MaxFloat32, 1e-20}},
	}
	for _, tc := range cases {
		got := mustDecode(t, mustEncode(t, tc))
		if got.EntityID != tc.EntityID || got.Format != tc.Format ||
			got.Count != tc.Count || got.PointSize != tc.PointSize {
			t.Fatalf("header mismatch: got %+v want %+v", got, tc)
		}
		if len(got.Points) != len(tc.Points) {
			t.Fatalf("payload length mismatch: got %d want %d", len(got.Points), len(tc.Points))
		}
		for i := range tc.Points {
			if math.Float32bits(got.Points[i]) != math.Float32bits(tc.Points[i]) {
				t.Fatalf("payload[%d] mismatch: got %v want %v", i, got.Points[i], tc.Points[i])
			}
		}
	}
}

func TestFrameRejectsEmptyID(t *testing.T) {
	if _, err := EncodeFrame(Frame{Format: 1, Count: 1}); err == nil {
		t.Fatalf("expected error on empty entity id")
	}
}

func TestFrameRejectsTrailingBytes(t *testing.T) {
	enc := mustEncode(t, Frame{EntityID: "e", Format: 1, Count: 1, PointSize: 1, Points: []float32{1, 2, 3, 4}})
	enc = append(enc, 0xDE, 0xAD)
	if _, err := DecodeFrame(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestFrameCorruptHeadersAndLengths(t *testing.T) {
	enc := mustEncode(t, Frame{EntityID: "e", Format: 1, Count: 1, PointSize: 1, Points: []float32{1, 2, 3, 4}})

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, err := DecodeFrame(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, err := DecodeFrame(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	truncated := enc[:len(enc)-3]
	if _, err := DecodeFrame(truncated); err == nil {
		t.Fatalf("expected error on truncation")
	}

	// declared point count larger than remaining bytes
	overCount := append([]byte(nil), enc...)
	// n field sits right after magic+ver+format+idLen+id+count+pointSize
	nOff := 4 + 1 + 1 + 2 + 1 + 4 + 4
	overCount[nOff+3] = 0xFF
	if _, err := DecodeFrame(overCount); err == nil {
		t.Fatalf("expected error on oversized point count")
	}
}
