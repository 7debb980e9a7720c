package obj

import (
	"fmt"

	"github.com/Faultbox/objmesh/pkg/math"
)

// IndexTriple is a face corner as produced by an external OBJ loader.
// Indices are 0-based; a negative TexCoord or Normal means absent.
type IndexTriple struct {
	Position int
	TexCoord int
	Normal   int
}

// FromArrays builds a Mesh from another loader's flattened output. Faces go
// through the same arity and reference checks as parsed text; the first
// failure is returned. All faces land in a single unnamed group.
func FromArrays(positions, normals [][3]float32, texCoords [][2]float32, faces [][]IndexTriple) (*Mesh, error) {
	m := &Mesh{}
	for _, p := range positions {
		m.store.addPosition(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
	}
	for _, n := range normals {
		m.store.addNormal(math.Vec3{X: n[0], Y: n[1], Z: n[2]})
	}
	for _, t := range texCoords {
		m.store.addTexCoord(math.Vec2{X: t[0], Y: t[1]})
	}

	m.faces = make([]Face, 0, len(faces))
	for i, triples := range faces {
		if err := checkArity(len(triples)); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		corners := make([]Corner, len(triples))
		for j, t := range triples {
			c := Corner{
				Position:    t.Position,
				TexCoord:    max(t.TexCoord, 0),
				Normal:      max(t.Normal, 0),
				HasTexCoord: t.TexCoord >= 0,
				HasNormal:   t.Normal >= 0,
			}
			if err := checkCorner(&m.store, c); err != nil {
				return nil, fmt.Errorf("face %d corner %d: %w", i, j, err)
			}
			corners[j] = c
		}
		m.faces = append(m.faces, Face{Corners: corners})
	}

	if len(m.faces) > 0 {
		m.groups = []Group{{FirstFace: 0, FaceCount: len(m.faces)}}
	}
	return m, nil
}
