package math

// Vec2 is a 2D vector. Texture coordinates are stored as Vec2 (X = u, Y = v).
type Vec2 struct {
	X, Y float32
}

// Array returns the components in x, y order.
func (v Vec2) Array() [2]float32 {
	return [2]float32{v.X, v.Y}
}
