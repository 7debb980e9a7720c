package model

import (
	"fmt"

	"github.com/Faultbox/objmesh/pkg/math"
	"github.com/Faultbox/objmesh/pkg/obj"
)

// Triangulate splits a face into triangles. A triangle is passed through;
// a quad (c0, c1, c2, c3) becomes (c0, c1, c2) and (c0, c1, c3), reusing the
// c0-c1 edge. Corner order within each triangle follows the source winding.
//
// The quad rule is only correct for convex, planar quads. Concave or
// non-planar quads are split the same way without any check.
func Triangulate(f obj.Face, face int) ([]Triangle, error) {
	c := f.Corners
	switch len(c) {
	case 3:
		return []Triangle{{Corners: [3]obj.Corner{c[0], c[1], c[2]}, Face: face}}, nil
	case 4:
		return []Triangle{
			{Corners: [3]obj.Corner{c[0], c[1], c[2]}, Face: face},
			{Corners: [3]obj.Corner{c[0], c[1], c[3]}, Face: face},
		}, nil
	default:
		return nil, fmt.Errorf("face %d: %w: %d corners", face, obj.ErrUnsupportedArity, len(c))
	}
}

// TriangulateMesh triangulates every face in source order.
func TriangulateMesh(m *obj.Mesh) ([]Triangle, error) {
	faces := m.Faces()
	tris := make([]Triangle, 0, m.TriangleCount())
	for i, f := range faces {
		t, err := Triangulate(f, i)
		if err != nil {
			return nil, err
		}
		tris = append(tris, t...)
	}
	return tris, nil
}

// CountDegenerate returns how many triangles have (near) zero area.
// Corners that fail to resolve are counted as degenerate.
func CountDegenerate(s *obj.Store, tris []Triangle) int {
	n := 0
	for _, t := range tris {
		var p [3]math.Vec3
		ok := true
		for i, c := range t.Corners {
			v, err := s.Position(c.Position)
			if err != nil {
				ok = false
				break
			}
			p[i] = v
		}
		if !ok || p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Length() < 1e-10 {
			n++
		}
	}
	return n
}

// CountUndefinedNormals returns how many triangle corners resolve to the
// undefined normal: either no normal index or an authored zero vector.
func CountUndefinedNormals(s *obj.Store, tris []Triangle) int {
	n := 0
	for _, t := range tris {
		for _, c := range t.Corners {
			if !c.HasNormal {
				n++
				continue
			}
			if v, err := s.Normal(c.Normal); err != nil || v.IsZero() {
				n++
			}
		}
	}
	return n
}
