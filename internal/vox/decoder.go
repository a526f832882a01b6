package vox

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/ecopia-map/voxmesher/internal/data"
	"github.com/go-restruct/restruct"
)

// ErrInvalidMagic is returned when the input does not start with the "VOX " identifier
var ErrInvalidMagic = errors.New("vox: not a VOX file")

// ErrMalformed is wrapped by the errors caused by inconsistent chunk content
var ErrMalformed = errors.New("vox: malformed chunk")

const magic = "VOX "

// Reads and decodes the .vox file at the given path
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Decode reads a whole .vox stream. Chunks are read in sequence, the children of MAIN are simply the
// chunks following its header. Unknown chunks are skipped.
func Decode(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	raw := make([]byte, 8)
	if _, err := io.ReadFull(br, raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrInvalidMagic
		}
		return nil, err
	}
	var header fileHeader
	if err := unpack(raw, &header); err != nil {
		return nil, err
	}
	if string(header.Magic[:]) != magic {
		return nil, ErrInvalidMagic
	}
	file := newFile(int(header.Version))

	for {
		id, content, err := readChunk(br)
		if err == io.EOF {
			return file, nil
		}
		if err != nil {
			return nil, err
		}
		if err := decodeChunk(file, id, content); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", id, err)
		}
	}
}

// Reads the header and the content of the next chunk. Returns io.EOF when the stream ends between chunks.
func readChunk(r io.Reader) (string, []byte, error) {
	raw := make([]byte, 12)
	n, err := io.ReadFull(r, raw)
	if n == 0 && err == io.EOF {
		return "", nil, io.EOF
	}
	if err != nil {
		return "", nil, fmt.Errorf("chunk header: %w", io.ErrUnexpectedEOF)
	}
	var header chunkHeader
	if err := unpack(raw, &header); err != nil {
		return "", nil, err
	}
	id := string(header.ID[:])
	if header.Content < 0 {
		return "", nil, fmt.Errorf("chunk %s: negative content length %d: %w", id, header.Content, ErrMalformed)
	}

	content, err := io.ReadAll(io.LimitReader(r, int64(header.Content)))
	if err != nil {
		return "", nil, fmt.Errorf("chunk %s: %w", id, err)
	}
	if len(content) != int(header.Content) {
		return "", nil, fmt.Errorf("chunk %s: %w", id, io.ErrUnexpectedEOF)
	}
	return id, content, nil
}

// Decodes content into the layout v. Reading past the end of content reports io.ErrUnexpectedEOF.
func unpack(content []byte, v interface{}) error {
	// restruct slices up to the capacity, which must not reach past the content
	err := restruct.Unpack(content[:len(content):len(content)], binary.LittleEndian, v)
	var overrun runtime.Error
	if errors.As(err, &overrun) {
		return fmt.Errorf("%v: %w", overrun, io.ErrUnexpectedEOF)
	}
	return err
}

func decodeChunk(file *File, id string, content []byte) error {
	switch id {
	case "SIZE":
		var c sizeChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		size := [3]int{int(c.X), int(c.Y), int(c.Z)}
		if size[0] < 0 || size[1] < 0 || size[2] < 0 {
			return fmt.Errorf("negative size %v: %w", size, ErrMalformed)
		}
		file.Shapes = append(file.Shapes, Shape{Size: size, Voxels: make([]data.Voxel, 0)})
	case "XYZI":
		if len(file.Shapes) == 0 {
			return fmt.Errorf("voxels without SIZE chunk: %w", ErrMalformed)
		}
		var c xyziChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		shape := &file.Shapes[len(file.Shapes)-1]
		for _, v := range c.Voxels {
			shape.Voxels = append(shape.Voxels, data.NewVoxel(int(v.X), int(v.Y), int(v.Z), v.Color))
		}
	case "RGBA":
		var c rgbaChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		var entries [256]data.Color
		for i, e := range c.Entries {
			entries[i] = data.Color{R: e[0], G: e[1], B: e[2], A: e[3]}
		}
		file.Palette = paletteFromRGBA(entries)
		file.CustomPalette = true
	case "MATL":
		var c matlChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		m, err := NewMaterial(int(c.ID), c.Properties.Dict())
		if err != nil {
			return err
		}
		file.Materials[m.ID] = m
	case "MATT":
		return decodeLegacyMaterial(file, content)
	case "nTRN":
		var c transformChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		node := &Node{
			ID:         int(c.ID),
			Type:       TransformNode,
			Attributes: c.Attributes.Dict(),
			Children:   []int{int(c.Child)},
			LayerID:    int(c.Layer),
		}
		for _, frame := range c.Frames {
			node.Frames = append(node.Frames, frame.Dict())
		}
		file.Nodes[node.ID] = node
	case "nGRP":
		var c groupChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		node := &Node{ID: int(c.ID), Type: GroupNode, Attributes: c.Attributes.Dict(), LayerID: -1}
		for _, child := range c.Children {
			node.Children = append(node.Children, int(child))
		}
		file.Nodes[node.ID] = node
	case "nSHP":
		var c shapeChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		node := &Node{ID: int(c.ID), Type: ShapeNode, Attributes: c.Attributes.Dict(), LayerID: -1}
		for _, m := range c.Models {
			node.Models = append(node.Models, ShapeRef{ModelID: int(m.ModelID), Attributes: m.Attributes.Dict()})
		}
		file.Nodes[node.ID] = node
	case "LAYR":
		var c layerChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		file.Layers[int(c.ID)] = c.Attributes.Dict()
	case "rCAM":
		var c cameraChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		file.Cameras[int(c.ID)] = c.Attributes.Dict()
	case "rOBJ":
		var c renderChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		file.RenderAttributes = append(file.RenderAttributes, c.Attributes.Dict())
	case "NOTE":
		var c noteChunk
		if err := unpack(content, &c); err != nil {
			return err
		}
		for _, name := range c.Names {
			file.ColorNames = append(file.ColorNames, string(name))
		}
	case "PACK", "IMAP":
		// model count and editor palette order, neither changes the scene
	}
	return nil
}

func decodeLegacyMaterial(file *File, content []byte) error {
	var c mattChunk
	if err := unpack(content, &c); err != nil {
		return err
	}
	headerSize, err := restruct.SizeOf(&c)
	if err != nil {
		return err
	}

	values := make([]float32, legacyValueCount(int(c.Mask)))
	rest := content[headerSize:]
	for i := range values {
		if len(rest) < 4 {
			return errShort(4, len(rest))
		}
		if err := unpack(rest[:4], &values[i]); err != nil {
			return err
		}
		rest = rest[4:]
	}

	m, err := NewMaterial(int(c.ID), legacyProperties(int(c.Type), c.Weight, int(c.Mask), values))
	if err != nil {
		return err
	}
	file.Materials[m.ID] = m
	return nil
}
