package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	gomath "math"

	"go.uber.org/multierr"
)

// AttribName identifies a vertex attribute in the buffer layout.
type AttribName uint32

const (
	AttribPosition AttribName = iota
	AttribNormal
	AttribTexCoord
	AttribBarycentric
	AttribMaterial
)

// String returns the attribute name as bound by shaders.
func (a AttribName) String() string {
	switch a {
	case AttribPosition:
		return "position"
	case AttribNormal:
		return "normal"
	case AttribTexCoord:
		return "texcoord"
	case AttribBarycentric:
		return "barycentric"
	case AttribMaterial:
		return "material"
	default:
		return fmt.Sprintf("Attrib(%d)", uint32(a))
	}
}

// AttribType is the scalar type of an attribute component.
type AttribType uint32

const (
	Float32 AttribType = iota
	Uint32
)

// Attribute describes one attribute inside an interleaved vertex.
type Attribute struct {
	Name       AttribName
	Type       AttribType
	Components int
	Offset     int // bytes from the start of the vertex
}

// Layout is the fixed interleaved vertex layout: position, normal,
// texcoord, then the optional barycentric and material attributes.
type Layout struct {
	Attributes []Attribute
	Stride     int // bytes per vertex
}

// NewLayout returns the layout for the requested optional attributes.
func NewLayout(barycentric, material bool) Layout {
	var l Layout
	add := func(name AttribName, typ AttribType, n int) {
		l.Attributes = append(l.Attributes, Attribute{Name: name, Type: typ, Components: n, Offset: l.Stride})
		l.Stride += n * 4
	}
	add(AttribPosition, Float32, 3)
	add(AttribNormal, Float32, 3)
	add(AttribTexCoord, Float32, 2)
	if barycentric {
		add(AttribBarycentric, Float32, 3)
	}
	if material {
		add(AttribMaterial, Uint32, 1)
	}
	return l
}

// Has reports whether the layout carries the named attribute.
func (l Layout) Has(name AttribName) bool {
	for _, a := range l.Attributes {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Interleave flattens the vertices into 32-bit words following the layout.
// The material id is stored as its raw bits, so bind it as an integer
// attribute.
func (b *Buffers) Interleave() []uint32 {
	words := b.Layout.Stride / 4
	out := make([]uint32, 0, len(b.Vertices)*words)
	for i := range b.Vertices {
		out = appendVertex(out, &b.Vertices[i], b.Layout)
	}
	return out
}

func appendVertex(out []uint32, v *Vertex, l Layout) []uint32 {
	floats := func(f ...float32) {
		for _, x := range f {
			out = append(out, gomath.Float32bits(x))
		}
	}
	for _, a := range l.Attributes {
		switch a.Name {
		case AttribPosition:
			floats(v.Position[:]...)
		case AttribNormal:
			floats(v.Normal[:]...)
		case AttribTexCoord:
			floats(v.TexCoord[:]...)
		case AttribBarycentric:
			floats(v.Barycentric[:]...)
		case AttribMaterial:
			out = append(out, v.MaterialID)
		}
	}
	return out
}

// blobMagic starts every buffer blob written by WriteTo.
var blobMagic = [4]byte{'O', 'B', 'J', 'B'}

const blobVersion = 1

// blobHeader is the fixed-size header of a buffer blob.
type blobHeader struct {
	Magic       [4]byte
	Version     uint32
	Mode        uint32
	AttribCount uint32
	Stride      uint32
	VertCount   uint32
	IndCount    uint32
	GroupCount  uint32
	BoundsMin   [3]float32
	BoundsMax   [3]float32
}

type blobAttrib struct {
	Name, Type, Components, Offset uint32
}

type blobGroup struct {
	MaterialID, Start, Count uint32
}

// WriteTo writes the buffers as a little-endian blob: header, attribute
// table, draw groups, interleaved vertex words, then uint16 indices.
func (b *Buffers) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	hdr := blobHeader{
		Magic:       blobMagic,
		Version:     blobVersion,
		Mode:        uint32(b.Mode),
		AttribCount: uint32(len(b.Layout.Attributes)),
		Stride:      uint32(b.Layout.Stride),
		VertCount:   uint32(len(b.Vertices)),
		IndCount:    uint32(len(b.Indices)),
		GroupCount:  uint32(len(b.Groups)),
		BoundsMin:   b.Bounds.Min,
		BoundsMax:   b.Bounds.Max,
	}
	err := binary.Write(&buf, binary.LittleEndian, &hdr)

	for _, a := range b.Layout.Attributes {
		err = multierr.Append(err, binary.Write(&buf, binary.LittleEndian, blobAttrib{
			Name:       uint32(a.Name),
			Type:       uint32(a.Type),
			Components: uint32(a.Components),
			Offset:     uint32(a.Offset),
		}))
	}
	for _, g := range b.Groups {
		err = multierr.Append(err, binary.Write(&buf, binary.LittleEndian, blobGroup{
			MaterialID: g.MaterialID,
			Start:      uint32(g.Start),
			Count:      uint32(g.Count),
		}))
	}

	err = multierr.Append(err, binary.Write(&buf, binary.LittleEndian, b.Interleave()))
	if len(b.Indices) > 0 {
		err = multierr.Append(err, binary.Write(&buf, binary.LittleEndian, b.Indices))
	}
	if err != nil {
		return 0, fmt.Errorf("encoding buffers: %w", err)
	}

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("writing buffers: %w", err)
	}
	return int64(n), nil
}
