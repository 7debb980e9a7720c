package model

import (
	"github.com/Faultbox/objmesh/pkg/obj"
)

// Attribute defaults for corners that omit an optional index. A zero normal
// means "undefined"; lighting code must not treat it as a direction.
var (
	defaultTexCoord = [2]float32{0, 0}
	defaultNormal   = [3]float32{0, 0, 0}
)

// barycentricBasis is the weight assigned to each corner slot of a triangle.
var barycentricBasis = [3][3]float32{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Resolver turns corner references into concrete vertices.
type Resolver struct {
	Store      *obj.Store
	MaterialID uint32
}

// Resolve looks up every attribute of c. The position must resolve; absent
// texcoord and normal indices fall back to (0, 0) and (0, 0, 0).
// Barycentric is left zero.
func (r Resolver) Resolve(c obj.Corner) (Vertex, error) {
	pos, err := r.Store.Position(c.Position)
	if err != nil {
		return Vertex{}, err
	}

	v := Vertex{
		Position:   pos.Array(),
		Normal:     defaultNormal,
		TexCoord:   defaultTexCoord,
		MaterialID: r.MaterialID,
	}

	if c.HasTexCoord {
		tc, err := r.Store.TexCoord(c.TexCoord)
		if err != nil {
			return Vertex{}, err
		}
		v.TexCoord = tc.Array()
	}

	if c.HasNormal {
		n, err := r.Store.Normal(c.Normal)
		if err != nil {
			return Vertex{}, err
		}
		v.Normal = n.Array()
	}

	return v, nil
}

// ResolveTriangle resolves the three corners of t. With barycentric set,
// corner i gets the i-th standard basis vector, so the same geometric vertex
// carries different weights in different triangles.
func (r Resolver) ResolveTriangle(t Triangle, barycentric bool) ([3]Vertex, error) {
	var out [3]Vertex
	for i, c := range t.Corners {
		v, err := r.Resolve(c)
		if err != nil {
			return out, err
		}
		if barycentric {
			v.Barycentric = barycentricBasis[i]
		}
		out[i] = v
	}
	return out, nil
}
