package scene

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func squaredDistance(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// compareFarthestFirst orders by descending squared distance. Distances
// that are not finite sort after every finite one and tie among themselves,
// which keeps the ordering transitive.
func compareFarthestFirst(da, db float32) int {
	fa, fb := finite(da), finite(db)
	switch {
	case !fa && !fb:
		return 0
	case !fa:
		return 1
	case !fb:
		return -1
	}
	switch {
	case da > db:
		return -1
	case da < db:
		return 1
	}
	return 0
}

// DrawOrder returns sphere indices sorted farthest from eye first. Ties keep
// load order.
func DrawOrder(spheres []Sphere, eye mgl32.Vec3) []int {
	order := make([]int, len(spheres))
	dist := make([]float32, len(spheres))
	for i := range spheres {
		order[i] = i
		dist[i] = squaredDistance(spheres[i].Position, eye)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return compareFarthestFirst(dist[a], dist[b])
	})
	return order
}

// Orderer caches a draw order and recomputes it only when the eye leaves
// the position it was computed from.
type Orderer struct {
	basis mgl32.Vec3
	order []int
	valid bool
}

// Order returns the draw order for eye and whether it was recomputed.
func (o *Orderer) Order(spheres []Sphere, eye mgl32.Vec3) ([]int, bool) {
	if o.valid && eye == o.basis && len(o.order) == len(spheres) {
		return o.order, false
	}
	o.order = DrawOrder(spheres, eye)
	o.basis = eye
	o.valid = true
	return o.order, true
}
