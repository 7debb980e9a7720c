// Package model turns a parsed OBJ mesh into GPU-ready vertex and index buffers.
//
// The pipeline is triangulate, resolve, emit. Everything runs synchronously
// on immutable input; the result depends only on the mesh and EmitOptions.
package model

import (
	"fmt"
	"strings"

	"github.com/Faultbox/objmesh/pkg/obj"
)

// Vertex is a fully resolved vertex. Field order matches the buffer layout:
// position, normal, texcoord, barycentric, material id.
type Vertex struct {
	Position    [3]float32
	Normal      [3]float32
	TexCoord    [2]float32
	Barycentric [3]float32
	MaterialID  uint32
}

// Triangle references three corners of a source face. Corners are resolved
// against the store only when buffers are emitted.
type Triangle struct {
	Corners [3]obj.Corner
	Face    int // index into Mesh.Faces
}

// Mode selects the buffer layout produced by Emit.
type Mode int

const (
	// Indexed deduplicates vertices and emits a uint16 index buffer.
	Indexed Mode = iota
	// Expanded emits one vertex per triangle corner and no index buffer.
	Expanded
)

// String returns the mode name used in config files.
func (m Mode) String() string {
	switch m {
	case Indexed:
		return "indexed"
	case Expanded:
		return "expanded"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a config name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "indexed":
		return Indexed, nil
	case "expanded":
		return Expanded, nil
	default:
		return Indexed, fmt.Errorf("unknown emit mode %q", s)
	}
}

// EmitOptions contains options for buffer emission.
type EmitOptions struct {
	// Mode selects indexed or expanded output.
	Mode Mode
	// Barycentric fills per-corner barycentric weights. Expanded mode only.
	Barycentric bool
	// MaterialID is assigned to vertices whose group has no entry in Materials.
	MaterialID uint32
	// Materials maps usemtl names to material ids.
	Materials map[string]uint32
	// MaterialAttribute adds the material id to the buffer layout.
	MaterialAttribute bool
	// Workers bounds parallel vertex resolution. Values below 2 resolve
	// sequentially.
	Workers int
}

// materialFor returns the id supplied for a usemtl name.
func (o EmitOptions) materialFor(name string) uint32 {
	if id, ok := o.Materials[name]; ok {
		return id
	}
	return o.MaterialID
}

// DrawGroup is a contiguous range of the emitted buffers sharing one
// material. Start and Count are in corners: index positions in Indexed
// mode, vertex positions in Expanded mode.
type DrawGroup struct {
	Material   string
	MaterialID uint32
	Start      int
	Count      int
}

// Bounds holds the axis-aligned bounding box of the emitted positions.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Buffers holds the emitted vertex data ready for upload.
type Buffers struct {
	Mode     Mode
	Layout   Layout
	Vertices []Vertex
	Indices  []uint16 // nil in Expanded mode
	Groups   []DrawGroup
	Bounds   Bounds
}

// TriangleCount returns the number of emitted triangles.
func (b *Buffers) TriangleCount() int {
	if b.Mode == Indexed {
		return len(b.Indices) / 3
	}
	return len(b.Vertices) / 3
}
