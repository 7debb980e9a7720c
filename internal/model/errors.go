package model

import "errors"

// MaxIndexedVertices is the largest vertex count a uint16 index buffer may
// address in Indexed mode.
const MaxIndexedVertices = 65535

// Emission errors.
var (
	ErrCapacityExceeded   = errors.New("index capacity exceeded")
	ErrBarycentricIndexed = errors.New("barycentric weights require expanded mode")
)
