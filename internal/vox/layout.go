package vox

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-restruct/restruct"
)

// Binary layouts of the chunks. Integers are little endian, lists and strings are prefixed by their
// int32 length.

type fileHeader struct {
	Magic   [4]byte
	Version int32
}

type chunkHeader struct {
	ID       [4]byte
	Content  int32
	Children int32
}

type sizeChunk struct {
	X, Y, Z int32
}

type xyziVoxel struct {
	X, Y, Z, Color uint8
}

type xyziChunk struct {
	Voxels counted[xyziVoxel]
}

type rgbaChunk struct {
	Entries [256][4]uint8
}

type matlChunk struct {
	ID         int32
	Properties dict
}

// followed by one float32 per bit set in Mask
type mattChunk struct {
	ID     int32
	Type   int32
	Weight float32
	Mask   int32
}

type transformChunk struct {
	ID         int32
	Attributes dict
	Child      int32
	Reserved   int32
	Layer      int32
	Frames     counted[dict]
}

type groupChunk struct {
	ID         int32
	Attributes dict
	Children   counted[int32]
}

type shapeModel struct {
	ModelID    int32
	Attributes dict
}

type shapeChunk struct {
	ID         int32
	Attributes dict
	Models     counted[shapeModel]
}

type layerChunk struct {
	ID         int32
	Attributes dict
	Reserved   int32
}

type cameraChunk struct {
	ID         int32
	Attributes dict
}

type renderChunk struct {
	Attributes dict
}

type noteChunk struct {
	Names counted[vstring]
}

// length prefix of strings and lists
const prefixSize = 4

func readPrefix(buf []byte, order binary.ByteOrder) (int, []byte, error) {
	if len(buf) < prefixSize {
		return 0, nil, errShort(prefixSize, len(buf))
	}
	n := int(int32(order.Uint32(buf)))
	buf = buf[prefixSize:]
	if n < 0 {
		return 0, nil, fmt.Errorf("negative length %d: %w", n, ErrMalformed)
	}
	return n, buf, nil
}

type vstring string

func (s *vstring) Unpack(buf []byte, order binary.ByteOrder) ([]byte, error) {
	n, buf, err := readPrefix(buf, order)
	if err != nil {
		return nil, err
	}
	if n > len(buf) {
		return nil, errShort(n, len(buf))
	}
	*s = vstring(buf[:n])
	return buf[n:], nil
}

func (s vstring) SizeOf() int {
	return prefixSize + len(s)
}

// counted is a list of elements each decoded with restruct. The declared length is checked against the
// remaining bytes before anything is allocated, as every element takes at least one byte.
type counted[T any] []T

func (c *counted[T]) Unpack(buf []byte, order binary.ByteOrder) ([]byte, error) {
	n, buf, err := readPrefix(buf, order)
	if err != nil {
		return nil, err
	}
	if n > len(buf) {
		return nil, fmt.Errorf("%d entries in %d bytes: %w", n, len(buf), ErrMalformed)
	}

	list := make(counted[T], n)
	for i := range list {
		if err := restruct.Unpack(buf, order, &list[i]); err != nil {
			return nil, err
		}
		size, err := restruct.SizeOf(&list[i])
		if err != nil {
			return nil, err
		}
		buf = buf[size:]
	}
	*c = list
	return buf, nil
}

func (c counted[T]) SizeOf() int {
	size := prefixSize
	for i := range c {
		n, err := restruct.SizeOf(&c[i])
		if err != nil {
			panic(err)
		}
		size += n
	}
	return size
}

// dict is a list of key and value strings. A repeated key keeps its last value.
type dict struct {
	Pairs counted[dictPair]
}

type dictPair struct {
	Key   vstring
	Value vstring
}

func (d dict) Dict() Dict {
	out := make(Dict, len(d.Pairs))
	for _, p := range d.Pairs {
		out[string(p.Key)] = string(p.Value)
	}
	return out
}

func errShort(want, have int) error {
	return fmt.Errorf("%d bytes needed, %d left: %w", want, have, io.ErrUnexpectedEOF)
}
