package simulation

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// clipCollide returns the velocity the moving box may travel along before hitting the stationary box.
// If the boxes already overlap, the velocity is altered to push the moving box out along the axis of
// least penetration.
func clipCollide(stationary, moving cube.BBox, velocity mgl32.Vec3) mgl32.Vec3 {
	if stationary.Min() == stationary.Max() {
		return velocity
	}

	var axisPenetrations, axisPenetrationsSigned, normalDirs [3]float32
	separatingAxes, separatingAxis := 0, 0

	for i := range 3 {
		minPenetration := moving.Max()[i] - stationary.Min()[i]
		maxPenetration := stationary.Max()[i] - moving.Min()[i]
		if math32.Abs(minPenetration) <= 1e-7 {
			minPenetration = 0
		}
		if math32.Abs(maxPenetration) <= 1e-7 {
			maxPenetration = 0
		}

		minPositive, maxPositive := math32.Max(0, minPenetration), math32.Max(0, maxPenetration)
		switch {
		case minPositive == 0:
			axisPenetrationsSigned[i] = minPenetration
			normalDirs[i] = -1
			separatingAxes++
			separatingAxis = i
		case maxPositive == 0:
			axisPenetrationsSigned[i] = maxPenetration
			normalDirs[i] = 1
			separatingAxes++
			separatingAxis = i
		case minPositive < maxPositive:
			axisPenetrations[i] = minPositive
			axisPenetrationsSigned[i] = minPositive
			normalDirs[i] = -1
		default:
			axisPenetrations[i] = maxPositive
			axisPenetrationsSigned[i] = maxPositive
			normalDirs[i] = 1
		}

		// Separated on more than one axis: the boxes cannot meet by moving along a single axis.
		if separatingAxes > 1 {
			return velocity
		}
	}

	if separatingAxes == 0 {
		bestAxis := 0
		for i := 1; i < 3; i++ {
			if axisPenetrations[i] < axisPenetrations[bestAxis] {
				bestAxis = i
			}
		}

		desired := axisPenetrations[bestAxis] * normalDirs[bestAxis]
		if desired > 0 {
			velocity[bestAxis] = math32.Max(desired, velocity[bestAxis])
		} else {
			velocity[bestAxis] = math32.Min(desired, velocity[bestAxis])
		}
		return velocity
	}

	swept := axisPenetrationsSigned[separatingAxis] - normalDirs[separatingAxis]*velocity[separatingAxis]
	if swept <= 0 {
		return velocity
	}
	velocity[separatingAxis] = axisPenetrationsSigned[separatingAxis] * normalDirs[separatingAxis]
	return velocity
}

// collide clips the displacement of the box against every collider, resolving the Y axis first and the
// horizontal axes after.
func collide(bb cube.BBox, delta mgl32.Vec3, colliders []cube.BBox) mgl32.Vec3 {
	yVel := mgl32.Vec3{0, delta[1]}
	for _, c := range colliders {
		yVel = clipCollide(c, bb, yVel)
	}
	bb = bb.Translate(yVel)

	xVel := mgl32.Vec3{delta[0]}
	for _, c := range colliders {
		xVel = clipCollide(c, bb, xVel)
	}
	bb = bb.Translate(xVel)

	zVel := mgl32.Vec3{0, 0, delta[2]}
	for _, c := range colliders {
		zVel = clipCollide(c, bb, zVel)
	}
	return yVel.Add(xVel).Add(zVel)
}
