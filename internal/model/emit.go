package model

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/objmesh/pkg/math"
	"github.com/Faultbox/objmesh/pkg/obj"
)

// minChunk is the smallest number of triangles handed to one worker.
const minChunk = 1024

// Emit builds vertex buffers from m. Triangle order follows face order and
// corner order follows Triangulate in both modes.
func Emit(m *obj.Mesh, opts EmitOptions) (*Buffers, error) {
	return EmitWithLogger(m, opts, nil)
}

// EmitWithLogger is Emit with debug logging of the stage counts.
func EmitWithLogger(m *obj.Mesh, opts EmitOptions, log *zap.Logger) (*Buffers, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Mode == Indexed && opts.Barycentric {
		return nil, ErrBarycentricIndexed
	}

	tris, err := TriangulateMesh(m)
	if err != nil {
		return nil, err
	}

	resolved, err := resolveAll(m, tris, opts)
	if err != nil {
		return nil, err
	}

	b := &Buffers{
		Mode:   opts.Mode,
		Layout: NewLayout(opts.Barycentric, opts.MaterialAttribute),
		Groups: drawGroups(m, tris, opts),
	}

	switch opts.Mode {
	case Indexed:
		if err := b.fillIndexed(resolved); err != nil {
			return nil, err
		}
	case Expanded:
		b.fillExpanded(resolved)
	default:
		return nil, fmt.Errorf("unknown emit mode %v", opts.Mode)
	}
	b.Bounds = computeBounds(b.Vertices)

	log.Debug("emitted buffers",
		zap.Stringer("mode", opts.Mode),
		zap.Int("triangles", len(tris)),
		zap.Int("vertices", len(b.Vertices)),
		zap.Int("indices", len(b.Indices)),
		zap.Int("groups", len(b.Groups)),
	)
	return b, nil
}

// resolveAll resolves every triangle into a slot matching its position so
// parallel workers cannot reorder output.
func resolveAll(m *obj.Mesh, tris []Triangle, opts EmitOptions) ([][3]Vertex, error) {
	out := make([][3]Vertex, len(tris))
	faces := m.Faces()
	groups := m.Groups()

	resolveRange := func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			t := tris[i]
			r := Resolver{
				Store:      m.Store(),
				MaterialID: opts.materialFor(groupMaterial(groups, faces[t.Face].Group)),
			}
			v, err := r.ResolveTriangle(t, opts.Barycentric)
			if err != nil {
				return fmt.Errorf("face %d: %w", t.Face, err)
			}
			out[i] = v
		}
		return nil
	}

	if opts.Workers < 2 || len(tris) <= minChunk {
		if err := resolveRange(0, len(tris)); err != nil {
			return nil, err
		}
		return out, nil
	}

	chunk := max(minChunk, (len(tris)+opts.Workers-1)/opts.Workers)
	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for lo := 0; lo < len(tris); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(tris))
		g.Go(func() error {
			return resolveRange(lo, hi)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fillIndexed deduplicates vertices in first-seen order.
func (b *Buffers) fillIndexed(resolved [][3]Vertex) error {
	seen := make(map[Vertex]uint16)
	b.Indices = make([]uint16, 0, len(resolved)*3)

	for _, tri := range resolved {
		for _, v := range tri {
			idx, ok := seen[v]
			if !ok {
				if len(b.Vertices) >= MaxIndexedVertices {
					return fmt.Errorf("%w: more than %d distinct vertices", ErrCapacityExceeded, MaxIndexedVertices)
				}
				idx = uint16(len(b.Vertices))
				seen[v] = idx
				b.Vertices = append(b.Vertices, v)
			}
			b.Indices = append(b.Indices, idx)
		}
	}
	return nil
}

func (b *Buffers) fillExpanded(resolved [][3]Vertex) {
	b.Vertices = make([]Vertex, 0, len(resolved)*3)
	for _, tri := range resolved {
		b.Vertices = append(b.Vertices, tri[:]...)
	}
}

// drawGroups collapses consecutive triangles of one face group into corner
// ranges.
func drawGroups(m *obj.Mesh, tris []Triangle, opts EmitOptions) []DrawGroup {
	faces := m.Faces()
	groups := m.Groups()

	var out []DrawGroup
	last := -1
	for i, t := range tris {
		g := faces[t.Face].Group
		if g != last || len(out) == 0 {
			name := groupMaterial(groups, g)
			out = append(out, DrawGroup{
				Material:   name,
				MaterialID: opts.materialFor(name),
				Start:      i * 3,
			})
			last = g
		}
		out[len(out)-1].Count += 3
	}
	return out
}

func groupMaterial(groups []obj.Group, g int) string {
	if g < 0 || g >= len(groups) {
		return ""
	}
	return groups[g].Material
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	lo := toVec3(vertices[0].Position)
	hi := lo
	for _, v := range vertices[1:] {
		p := toVec3(v.Position)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return Bounds{Min: lo.Array(), Max: hi.Array()}
}

func toVec3(p [3]float32) math.Vec3 {
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}
