// Package bytetree implements the canonical recursive leaf/node encoding
// used as the hash input for Fiat-Shamir challenge derivation throughout the
// verifier. The wire framing is fixed: every value that can be hashed has
// exactly one byte sequence.
package bytetree

import (
	"encoding/binary"
	"fmt"
)

const (
	tagNode byte = 0x00
	tagLeaf byte = 0x01
)

// Tree is either a Leaf or a Node. Both satisfy this interface so proof
// boundaries can accept either uniformly via AsByteTree.
type Tree interface {
	Encode() []byte
	isTree()
}

// Leaf wraps a raw byte string.
type Leaf struct {
	Bytes []byte
}

func (Leaf) isTree() {}

// Node wraps an ordered sequence of children.
type Node struct {
	Children []Tree
}

func (Node) isTree() {}

// NewLeaf builds a Leaf, copying the input so later mutation of the caller's
// slice can't change an already-built tree.
func NewLeaf(b []byte) Leaf {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Leaf{Bytes: cp}
}

// NewNode builds a Node from its children in order.
func NewNode(children ...Tree) Node {
	return Node{Children: children}
}

// AsByteTree treats a byte slice as a Leaf and a Tree as itself, so proof
// code can accept either shape without a type switch at every call site.
func AsByteTree(x interface{}) (Tree, error) {
	switch v := x.(type) {
	case Tree:
		return v, nil
	case []byte:
		return NewLeaf(v), nil
	default:
		return nil, fmt.Errorf("bytetree: %T is neither a Tree nor a []byte", x)
	}
}

// Encode returns the leaf's wire framing: tag 0x01, u32 big-endian length,
// then the raw bytes.
func (l Leaf) Encode() []byte {
	out := make([]byte, 0, 5+len(l.Bytes))
	out = append(out, tagLeaf)
	out = appendU32(out, uint32(len(l.Bytes)))
	out = append(out, l.Bytes...)
	return out
}

// Encode returns the node's wire framing: tag 0x00, u32 big-endian child
// count, then each child's encoding in order.
func (n Node) Encode() []byte {
	out := []byte{tagNode}
	out = appendU32(out, uint32(len(n.Children)))
	for _, c := range n.Children {
		out = append(out, c.Encode()...)
	}
	return out
}

func appendU32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

// Decode reads exactly one Tree from the front of b, returning it and the
// number of bytes consumed. A tag other than 0x00/0x01, a non-positive
// declared length, or a stream that runs out before the declared length is
// satisfied is fatal: Decode never allocates or reads past the declared
// length.
func Decode(b []byte) (Tree, int, error) {
	if len(b) < 5 {
		return nil, 0, fmt.Errorf("bytetree: truncated stream, need at least 5 header bytes, got %d", len(b))
	}
	tag := b[0]
	n := int32(binary.BigEndian.Uint32(b[1:5]))
	if n <= 0 {
		return nil, 0, fmt.Errorf("bytetree: non-positive declared length/count %d", n)
	}
	switch tag {
	case tagLeaf:
		length := int(n)
		if len(b)-5 < length {
			return nil, 0, fmt.Errorf("bytetree: truncated leaf, declared %d bytes, have %d", length, len(b)-5)
		}
		payload := make([]byte, length)
		copy(payload, b[5:5+length])
		return Leaf{Bytes: payload}, 5 + length, nil
	case tagNode:
		count := int(n)
		children := make([]Tree, 0, count)
		pos := 5
		for i := 0; i < count; i++ {
			child, used, err := Decode(b[pos:])
			if err != nil {
				return nil, 0, fmt.Errorf("bytetree: decoding child %d: %w", i, err)
			}
			children = append(children, child)
			pos += used
		}
		return Node{Children: children}, pos, nil
	default:
		return nil, 0, fmt.Errorf("bytetree: invalid tag byte 0x%02x", tag)
	}
}

// DecodeExact decodes exactly one Tree and requires that it consumes the
// entire input; any leftover bytes are fatal.
func DecodeExact(b []byte) (Tree, error) {
	t, used, err := Decode(b)
	if err != nil {
		return nil, err
	}
	if used != len(b) {
		return nil, fmt.Errorf("bytetree: %d trailing bytes after decoded tree", len(b)-used)
	}
	return t, nil
}

// Equal reports structural and byte-for-byte equality.
func Equal(a, b Tree) bool {
	al, aok := a.(Leaf)
	bl, bok := b.(Leaf)
	if aok && bok {
		if len(al.Bytes) != len(bl.Bytes) {
			return false
		}
		for i := range al.Bytes {
			if al.Bytes[i] != bl.Bytes[i] {
				return false
			}
		}
		return true
	}
	an, aok := a.(Node)
	bn, bok := b.(Node)
	if aok && bok {
		if len(an.Children) != len(bn.Children) {
			return false
		}
		for i := range an.Children {
			if !Equal(an.Children[i], bn.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}
