package obj

import (
	"fmt"

	"github.com/Faultbox/objmesh/pkg/math"
)

// Store holds raw geometry in declaration order. The order defines the index
// space faces refer to, so entries are only ever appended. A line skipped
// under the Lenient policy still takes its slot; looking it up fails.
type Store struct {
	positions []math.Vec3
	normals   []math.Vec3
	texCoords []math.Vec2

	invalid map[slot]struct{}
}

type slot struct {
	kind  string
	index int
}

func (s *Store) addPosition(v math.Vec3) { s.positions = append(s.positions, v) }
func (s *Store) addNormal(v math.Vec3)   { s.normals = append(s.normals, v) }
func (s *Store) addTexCoord(v math.Vec2) { s.texCoords = append(s.texCoords, v) }

// reserve appends a placeholder for a skipped geometry line of the given tag.
func (s *Store) reserve(tag string) {
	var k slot
	switch tag {
	case TagVertex:
		k = slot{"position", len(s.positions)}
		s.positions = append(s.positions, math.Vec3{})
	case TagNormal:
		k = slot{"normal", len(s.normals)}
		s.normals = append(s.normals, math.Vec3{})
	case TagTexCoord:
		k = slot{"texcoord", len(s.texCoords)}
		s.texCoords = append(s.texCoords, math.Vec2{})
	default:
		return
	}
	if s.invalid == nil {
		s.invalid = make(map[slot]struct{})
	}
	s.invalid[k] = struct{}{}
}

func (s *Store) check(kind string, i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %s index %d out of range [0,%d)", ErrDanglingReference, kind, i, n)
	}
	if _, bad := s.invalid[slot{kind, i}]; bad {
		return fmt.Errorf("%w: %s index %d refers to a skipped line", ErrDanglingReference, kind, i)
	}
	return nil
}

// NumPositions returns the number of declared positions, skipped ones included.
func (s *Store) NumPositions() int { return len(s.positions) }

// NumNormals returns the number of declared normals.
func (s *Store) NumNormals() int { return len(s.normals) }

// NumTexCoords returns the number of declared texture coordinates.
func (s *Store) NumTexCoords() int { return len(s.texCoords) }

// Position returns the position at 0-based index i.
func (s *Store) Position(i int) (math.Vec3, error) {
	if err := s.check("position", i, len(s.positions)); err != nil {
		return math.Vec3{}, err
	}
	return s.positions[i], nil
}

// Normal returns the normal at 0-based index i.
func (s *Store) Normal(i int) (math.Vec3, error) {
	if err := s.check("normal", i, len(s.normals)); err != nil {
		return math.Vec3{}, err
	}
	return s.normals[i], nil
}

// TexCoord returns the texture coordinate at 0-based index i.
func (s *Store) TexCoord(i int) (math.Vec2, error) {
	if err := s.check("texcoord", i, len(s.texCoords)); err != nil {
		return math.Vec2{}, err
	}
	return s.texCoords[i], nil
}
