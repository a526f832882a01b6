// Package voxtest assembles .vox streams for tests.
package voxtest

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"
)

// Builder collects chunks and renders them as the children of a MAIN chunk
type Builder struct {
	chunks bytes.Buffer
}

type content struct {
	bytes.Buffer
}

func (c *content) int32(v int32) *content {
	_ = binary.Write(&c.Buffer, binary.LittleEndian, v)
	return c
}

func (c *content) float32(v float32) *content {
	return c.int32(int32(math.Float32bits(v)))
}

func (c *content) string(s string) *content {
	c.int32(int32(len(s)))
	c.WriteString(s)
	return c
}

func (c *content) dict(d map[string]string) *content {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	c.int32(int32(len(keys)))
	for _, k := range keys {
		c.string(k).string(d[k])
	}
	return c
}

// Chunk appends a chunk with raw content
func (b *Builder) Chunk(id string, raw []byte) *Builder {
	b.chunks.WriteString(id)
	_ = binary.Write(&b.chunks, binary.LittleEndian, int32(len(raw)))
	_ = binary.Write(&b.chunks, binary.LittleEndian, int32(0))
	b.chunks.Write(raw)
	return b
}

// Model appends a SIZE and an XYZI chunk. Every voxel is given as {x, y, z, color}.
func (b *Builder) Model(sx, sy, sz int, voxels [][4]uint8) *Builder {
	size := &content{}
	size.int32(int32(sx)).int32(int32(sy)).int32(int32(sz))
	b.Chunk("SIZE", size.Bytes())

	xyzi := &content{}
	xyzi.int32(int32(len(voxels)))
	for _, v := range voxels {
		xyzi.Write(v[:])
	}
	return b.Chunk("XYZI", xyzi.Bytes())
}

// Palette appends an RGBA chunk, entry i colors index i+1
func (b *Builder) Palette(entries [256][4]uint8) *Builder {
	raw := make([]byte, 0, 1024)
	for _, e := range entries {
		raw = append(raw, e[:]...)
	}
	return b.Chunk("RGBA", raw)
}

func (b *Builder) Material(id int, props map[string]string) *Builder {
	c := &content{}
	c.int32(int32(id)).dict(props)
	return b.Chunk("MATL", c.Bytes())
}

// LegacyMaterial appends a MATT chunk
func (b *Builder) LegacyMaterial(id, materialType int, weight float32, mask int, values ...float32) *Builder {
	c := &content{}
	c.int32(int32(id)).int32(int32(materialType)).float32(weight).int32(int32(mask))
	for _, v := range values {
		c.float32(v)
	}
	return b.Chunk("MATT", c.Bytes())
}

// Transform appends an nTRN chunk with a single frame
func (b *Builder) Transform(id, child, layer int, attributes, frame map[string]string) *Builder {
	c := &content{}
	c.int32(int32(id)).dict(attributes).int32(int32(child)).int32(-1).int32(int32(layer))
	c.int32(1).dict(frame)
	return b.Chunk("nTRN", c.Bytes())
}

// Group appends an nGRP chunk
func (b *Builder) Group(id int, children ...int) *Builder {
	c := &content{}
	c.int32(int32(id)).dict(nil).int32(int32(len(children)))
	for _, child := range children {
		c.int32(int32(child))
	}
	return b.Chunk("nGRP", c.Bytes())
}

// Shape appends an nSHP chunk referencing one model
func (b *Builder) Shape(id, model int) *Builder {
	c := &content{}
	c.int32(int32(id)).dict(nil).int32(1).int32(int32(model)).dict(nil)
	return b.Chunk("nSHP", c.Bytes())
}

// Layer appends a LAYR chunk
func (b *Builder) Layer(id int, attributes map[string]string) *Builder {
	c := &content{}
	c.int32(int32(id)).dict(attributes).int32(-1)
	return b.Chunk("LAYR", c.Bytes())
}

// Camera appends an rCAM chunk
func (b *Builder) Camera(id int, attributes map[string]string) *Builder {
	c := &content{}
	c.int32(int32(id)).dict(attributes)
	return b.Chunk("rCAM", c.Bytes())
}

// Note appends a NOTE chunk with color names
func (b *Builder) Note(names ...string) *Builder {
	c := &content{}
	c.int32(int32(len(names)))
	for _, n := range names {
		c.string(n)
	}
	return b.Chunk("NOTE", c.Bytes())
}

// Bytes renders the file
func (b *Builder) Bytes() []byte {
	var out bytes.Buffer
	out.WriteString("VOX ")
	_ = binary.Write(&out, binary.LittleEndian, int32(150))
	out.WriteString("MAIN")
	_ = binary.Write(&out, binary.LittleEndian, int32(0))
	_ = binary.Write(&out, binary.LittleEndian, int32(b.chunks.Len()))
	out.Write(b.chunks.Bytes())
	return out.Bytes()
}
