package game

import (
	"github.com/ethaniccc/float32-cube/cube"
)

// AABBFromDimensions returns a bounding box from the given dimensions. The origin of the box is the
// center of its bottom face.
func AABBFromDimensions(width, height float32) cube.BBox {
	h := width / 2
	return cube.Box(
		-h, 0, -h,
		h, height, h,
	)
}
