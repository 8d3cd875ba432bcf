package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ClampFloat clamps num between min and max.
func ClampFloat(num, min, max float32) float32 {
	if num < min {
		return min
	}
	if num > max {
		return max
	}
	return num
}

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// RoundVec32 will round a 32-bit vector to a given precision.
func RoundVec32(v mgl32.Vec3, p int) mgl32.Vec3 {
	return mgl32.Vec3{Round32(v.X(), p), Round32(v.Y(), p), Round32(v.Z(), p)}
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b mgl32.Vec3) float32 {
	return a.Sub(b).Len()
}

// ZeroSmall sets every component of v whose magnitude is below 1e-6 to zero.
func ZeroSmall(v mgl32.Vec3) mgl32.Vec3 {
	for i := range 3 {
		if math32.Abs(v[i]) < 1e-6 {
			v[i] = 0
		}
	}
	return v
}
