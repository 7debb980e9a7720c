package main

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objmesh/internal/model"
)

type dumpAttrib struct {
	Name       string `yaml:"name"`
	Components int    `yaml:"components"`
	Offset     int    `yaml:"offset"`
}

type dumpGroup struct {
	Material   string `yaml:"material"`
	MaterialID uint32 `yaml:"material_id"`
	Start      int    `yaml:"start"`
	Count      int    `yaml:"count"`
}

type dumpVertex struct {
	Position    [3]float32  `yaml:"position,flow"`
	Normal      [3]float32  `yaml:"normal,flow"`
	TexCoord    [2]float32  `yaml:"texcoord,flow"`
	Barycentric *[3]float32 `yaml:"barycentric,flow,omitempty"`
	Material    *uint32     `yaml:"material,omitempty"`
}

type dumpDoc struct {
	Source      string       `yaml:"source"`
	Mode        string       `yaml:"mode"`
	Stride      int          `yaml:"stride"`
	Attributes  []dumpAttrib `yaml:"attributes"`
	BoundsMin   [3]float32   `yaml:"bounds_min,flow"`
	BoundsMax   [3]float32   `yaml:"bounds_max,flow"`
	Groups      []dumpGroup  `yaml:"groups"`
	VertexCount int          `yaml:"vertex_count"`
	IndexCount  int          `yaml:"index_count"`
	Vertices    []dumpVertex `yaml:"vertices"`
	Indices     []uint16     `yaml:"indices,flow,omitempty"`
}

// buildDump converts buffers into the YAML listing. limit > 0 truncates
// the vertex and index lists; counts always report the full sizes.
func buildDump(source string, b *model.Buffers, limit int) dumpDoc {
	doc := dumpDoc{
		Source:      source,
		Mode:        b.Mode.String(),
		Stride:      b.Layout.Stride,
		BoundsMin:   b.Bounds.Min,
		BoundsMax:   b.Bounds.Max,
		VertexCount: len(b.Vertices),
		IndexCount:  len(b.Indices),
	}
	for _, a := range b.Layout.Attributes {
		doc.Attributes = append(doc.Attributes, dumpAttrib{
			Name:       a.Name.String(),
			Components: a.Components,
			Offset:     a.Offset,
		})
	}
	for _, g := range b.Groups {
		doc.Groups = append(doc.Groups, dumpGroup(g))
	}

	withBary := b.Layout.Has(model.AttribBarycentric)
	withMat := b.Layout.Has(model.AttribMaterial)

	vertices := truncate(b.Vertices, limit)
	for i := range vertices {
		v := vertices[i]
		dv := dumpVertex{Position: v.Position, Normal: v.Normal, TexCoord: v.TexCoord}
		if withBary {
			dv.Barycentric = &v.Barycentric
		}
		if withMat {
			dv.Material = &v.MaterialID
		}
		doc.Vertices = append(doc.Vertices, dv)
	}
	doc.Indices = truncate(b.Indices, limit)
	return doc
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

func writeDump(w io.Writer, source string, b *model.Buffers, limit int) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildDump(source, b, limit)); err != nil {
		return err
	}
	return enc.Close()
}
