// Package obj parses Wavefront OBJ text into an immutable Mesh.
//
// Parsing is two-pass: v/vn/vt records are accumulated first and face
// references are validated only after the whole input has been read, so a
// face may refer to geometry declared later in the file.
package obj

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/pkg/encoding"
	"github.com/Faultbox/objmesh/pkg/math"
)

// Policy selects how malformed lines are handled.
type Policy int

const (
	// Strict aborts the load on the first bad line.
	Strict Policy = iota
	// Lenient drops bad lines and faces, logs a warning for each and
	// reports them through Mesh.Skipped. A dropped v/vn/vt line keeps its
	// index, so faces referring to it are dropped as dangling.
	Lenient
)

// String returns the policy name used in config files.
func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a config name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	default:
		return Strict, fmt.Errorf("unknown parse policy %q", s)
	}
}

// Options controls parsing.
type Options struct {
	Policy   Policy
	Encoding string      // source charset, empty for UTF-8
	Logger   *zap.Logger // nil disables logging
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Mesh is the parsed geometry and face list. It is never modified after
// Parse returns; slices handed out by its accessors must be treated as
// read-only.
type Mesh struct {
	store   Store
	faces   []Face
	groups  []Group
	skipped error
}

// Store returns the geometry store.
func (m *Mesh) Store() *Store { return &m.store }

// Faces returns the faces in source order.
func (m *Mesh) Faces() []Face { return m.faces }

// Groups returns the material groups in source order.
func (m *Mesh) Groups() []Group { return m.groups }

// Skipped returns the combined errors of lines dropped under the Lenient
// policy, or nil. Use multierr.Errors to enumerate them.
func (m *Mesh) Skipped() error { return m.skipped }

// TriangleCount returns the number of triangles the faces split into.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.faces {
		n += f.Arity() - 2
	}
	return n
}

// Parse parses OBJ text.
func Parse(text string, opts Options) (*Mesh, error) {
	return ParseReader(strings.NewReader(text), opts)
}

// ParseFile parses an OBJ file from disk.
func ParseFile(path string, opts Options) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mesh: %w", err)
	}
	defer f.Close()

	return ParseReader(f, opts)
}

// ParseReader parses OBJ text from r.
func ParseReader(r io.Reader, opts Options) (*Mesh, error) {
	src, err := encoding.NewReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	p := &parser{
		policy: opts.Policy,
		log:    opts.logger(),
		mesh:   &Mesh{},
	}

	sc := NewScanner(src)
	for sc.Scan() {
		rec := sc.Record()
		err := p.record(rec)
		if err != nil && p.policy == Lenient {
			p.mesh.store.reserve(rec.Tag)
		}
		if err := p.fail(err); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading mesh: %w", err)
	}

	if err := p.resolveFaces(); err != nil {
		return nil, err
	}

	p.log.Debug("parsed mesh",
		zap.Int("positions", p.mesh.store.NumPositions()),
		zap.Int("normals", p.mesh.store.NumNormals()),
		zap.Int("texcoords", p.mesh.store.NumTexCoords()),
		zap.Int("faces", len(p.mesh.faces)),
		zap.Int("groups", len(p.mesh.groups)),
		zap.Int("skipped", len(multierr.Errors(p.mesh.skipped))),
	)
	return p.mesh, nil
}

// pendingFace is a face whose indices have not been validated yet.
type pendingFace struct {
	rec      Record
	corners  []Corner // 1-based
	material string
	groupSeq int
}

type parser struct {
	policy Policy
	log    *zap.Logger
	mesh   *Mesh

	pending  []pendingFace
	material string
	groupSeq int
}

// fail applies the policy to err. It returns err under Strict and records
// it under Lenient.
func (p *parser) fail(err error) error {
	if err == nil {
		return nil
	}
	if p.policy == Strict {
		return err
	}
	p.log.Warn("skipping mesh line", zap.Error(err))
	p.mesh.skipped = multierr.Append(p.mesh.skipped, err)
	return nil
}

func (p *parser) record(rec Record) error {
	switch rec.Tag {
	case TagVertex:
		v, err := parseVec3(rec)
		if err != nil {
			return err
		}
		p.mesh.store.addPosition(v)

	case TagNormal:
		v, err := parseVec3(rec)
		if err != nil {
			return err
		}
		p.mesh.store.addNormal(v)

	case TagTexCoord:
		if len(rec.Args) < 2 {
			return malformed(rec, "vt needs 2 values, got %d", len(rec.Args))
		}
		u, err := parseFloat(rec, rec.Args[0])
		if err != nil {
			return err
		}
		v, err := parseFloat(rec, rec.Args[1])
		if err != nil {
			return err
		}
		p.mesh.store.addTexCoord(math.Vec2{X: u, Y: v})

	case TagFace:
		if err := checkArity(len(rec.Args)); err != nil {
			return &LineError{Line: rec.Line, Raw: rec.Raw, Err: err}
		}
		corners := make([]Corner, len(rec.Args))
		for i, tok := range rec.Args {
			c, err := parseCorner(tok)
			if errors.Is(err, ErrDanglingReference) {
				return &LineError{Line: rec.Line, Raw: rec.Raw, Err: err}
			}
			if err != nil {
				return malformed(rec, "%v", err)
			}
			corners[i] = c
		}
		p.pending = append(p.pending, pendingFace{
			rec:      rec,
			corners:  corners,
			material: p.material,
			groupSeq: p.groupSeq,
		})

	case TagMaterial:
		p.material = strings.Join(rec.Args, " ")
		p.groupSeq++
	}
	return nil
}

// resolveFaces validates pending faces against the complete store and
// builds the face and group lists.
func (p *parser) resolveFaces() error {
	m := p.mesh
	m.faces = make([]Face, 0, len(p.pending))
	lastSeq := -1

	for _, pf := range p.pending {
		corners := make([]Corner, len(pf.corners))
		var bad error
		for i, c := range pf.corners {
			corners[i] = c.zeroBased()
			if err := checkCorner(&m.store, corners[i]); err != nil {
				bad = &LineError{Line: pf.rec.Line, Raw: pf.rec.Raw, Err: err}
				break
			}
		}
		if bad != nil {
			if err := p.fail(bad); err != nil {
				return err
			}
			continue
		}

		if pf.groupSeq != lastSeq {
			m.groups = append(m.groups, Group{Material: pf.material, FirstFace: len(m.faces)})
			lastSeq = pf.groupSeq
		}
		g := len(m.groups) - 1
		m.groups[g].FaceCount++

		m.faces = append(m.faces, Face{Corners: corners, Line: pf.rec.Line, Group: g})
	}

	p.pending = nil
	return nil
}

func parseVec3(rec Record) (math.Vec3, error) {
	if len(rec.Args) < 3 {
		return math.Vec3{}, malformed(rec, "%s needs 3 values, got %d", rec.Tag, len(rec.Args))
	}
	var c [3]float32
	for i := range c {
		f, err := parseFloat(rec, rec.Args[i])
		if err != nil {
			return math.Vec3{}, err
		}
		c[i] = f
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func parseFloat(rec Record, tok string) (float32, error) {
	f, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, malformed(rec, "bad number %q", tok)
	}
	return float32(f), nil
}
