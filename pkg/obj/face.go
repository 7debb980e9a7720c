package obj

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Corner is one vertex reference of a face. Indices are 0-based into the
// mesh Store. Position is mandatory; TexCoord and Normal are only meaningful
// when the matching Has flag is set.
type Corner struct {
	Position    int
	TexCoord    int
	Normal      int
	HasTexCoord bool
	HasNormal   bool
}

// Face is a polygon of 3 or 4 corners in authored winding order.
type Face struct {
	Corners []Corner
	Line    int // source line, 0 for meshes built with FromArrays
	Group   int // index into Mesh.Groups
}

// Arity returns the number of corners.
func (f Face) Arity() int {
	return len(f.Corners)
}

// Group is a contiguous run of faces sharing one usemtl material name.
// Faces before the first usemtl belong to a group with an empty name.
type Group struct {
	Material  string
	FirstFace int
	FaceCount int
}

// parseCorner parses a face token of the form a, a/b, a//c or a/b/c.
// Indices stay 1-based here; conversion happens once all geometry is known.
func parseCorner(tok string) (Corner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return Corner{}, fmt.Errorf("corner %q has more than three indices", tok)
	}

	var c Corner
	pos, err := parseIndex(tok, "position", parts[0])
	if err != nil {
		return Corner{}, err
	}
	c.Position = pos

	if len(parts) > 1 && parts[1] != "" {
		tex, err := parseIndex(tok, "texcoord", parts[1])
		if err != nil {
			return Corner{}, err
		}
		c.TexCoord = tex
		c.HasTexCoord = true
	}

	if len(parts) > 2 && parts[2] != "" {
		norm, err := parseIndex(tok, "normal", parts[2])
		if err != nil {
			return Corner{}, err
		}
		c.Normal = norm
		c.HasNormal = true
	}

	return c, nil
}

// parseIndex parses one index of a corner token. A well-formed index too
// large to represent can never name a declared entry, so it is dangling.
func parseIndex(tok, kind, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: corner %q: %s index %s out of range", ErrDanglingReference, tok, kind, s)
	}
	if err != nil {
		return 0, fmt.Errorf("corner %q: bad %s index", tok, kind)
	}
	return n, nil
}

// zeroBased converts a corner parsed from text to 0-based indices. Index 0
// and negative indices become negative and fail validation.
func (c Corner) zeroBased() Corner {
	c.Position--
	if c.HasTexCoord {
		c.TexCoord--
	}
	if c.HasNormal {
		c.Normal--
	}
	return c
}

// checkCorner verifies every present index resolves in s.
func checkCorner(s *Store, c Corner) error {
	if _, err := s.Position(c.Position); err != nil {
		return err
	}
	if c.HasTexCoord {
		if _, err := s.TexCoord(c.TexCoord); err != nil {
			return err
		}
	}
	if c.HasNormal {
		if _, err := s.Normal(c.Normal); err != nil {
			return err
		}
	}
	return nil
}

func checkArity(n int) error {
	if n < 3 || n > 4 {
		return fmt.Errorf("%w: %d corners (want 3 or 4)", ErrUnsupportedArity, n)
	}
	return nil
}
