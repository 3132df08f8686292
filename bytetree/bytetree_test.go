package bytetree

import (
	"math/rand"
	"testing"
)

func randomTree(r *rand.Rand, depth int) Tree {
	if depth <= 0 || r.Intn(3) == 0 {
		n := 1 + r.Intn(12)
		b := make([]byte, n)
		r.Read(b)
		return NewLeaf(b)
	}
	k := 1 + r.Intn(4)
	children := make([]Tree, k)
	for i := range children {
		children[i] = randomTree(r, depth-1)
	}
	return NewNode(children...)
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		want := randomTree(r, 4)
		encoded := want.Encode()
		got, err := DecodeExact(encoded)
		if err != nil {
			t.Fatalf("case %d: decode failed: %s", i, err)
		}
		if !Equal(want, got) {
			t.Fatalf("case %d: round trip mismatch", i)
		}
	}
}

func TestLeafFraming(t *testing.T) {
	l := NewLeaf([]byte("abc"))
	enc := l.Encode()
	want := []byte{0x01, 0x00, 0x00, 0x00, 0x03, 'a', 'b', 'c'}
	if len(enc) != len(want) {
		t.Fatalf("got %d bytes, want %d", len(enc), len(want))
	}
	for i := range want {
		if enc[i] != want[i] {
			t.Fatalf("byte %d: got 0x%02x want 0x%02x", i, enc[i], want[i])
		}
	}
}

func TestNodeFraming(t *testing.T) {
	n := NewNode(NewLeaf([]byte{1}), NewLeaf([]byte{2, 3}))
	enc := n.Encode()
	want := []byte{
		0x00, 0x00, 0x00, 0x00, 0x02,
		0x01, 0x00, 0x00, 0x00, 0x01, 1,
		0x01, 0x00, 0x00, 0x00, 0x02, 2, 3,
	}
	if len(enc) != len(want) {
		t.Fatalf("got %d bytes, want %d", len(enc), len(want))
	}
	for i := range want {
		if enc[i] != want[i] {
			t.Fatalf("byte %d: got 0x%02x want 0x%02x", i, enc[i], want[i])
		}
	}
}

func TestDecodeRejectsBadTag(t *testing.T) {
	_, _, err := Decode([]byte{0x02, 0x00, 0x00, 0x00, 0x01, 0xff})
	if err == nil {
		t.Fatal("expected error for invalid tag byte")
	}
}

func TestDecodeRejectsZeroLength(t *testing.T) {
	_, _, err := Decode([]byte{0x01, 0x00, 0x00, 0x00, 0x00})
	if err == nil {
		t.Fatal("expected error for zero-length leaf")
	}
}

func TestDecodeRejectsTruncatedStream(t *testing.T) {
	_, _, err := Decode([]byte{0x01, 0x00, 0x00, 0x00, 0x05, 1, 2})
	if err == nil {
		t.Fatal("expected error for truncated leaf payload")
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	_, _, err := Decode([]byte{0x01, 0x00})
	if err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestDecodeExactRejectsTrailingBytes(t *testing.T) {
	l := NewLeaf([]byte("x"))
	enc := append(l.Encode(), 0xff)
	if _, err := DecodeExact(enc); err == nil {
		t.Fatal("expected error for trailing bytes")
	}
}

func TestAsByteTree(t *testing.T) {
	tr, err := AsByteTree([]byte("hi"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !Equal(tr, NewLeaf([]byte("hi"))) {
		t.Fatal("AsByteTree did not wrap []byte as a Leaf")
	}

	n := NewNode(NewLeaf([]byte{1}))
	tr2, err := AsByteTree(n)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !Equal(tr2, n) {
		t.Fatal("AsByteTree did not pass a Tree through unchanged")
	}

	if _, err := AsByteTree(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
