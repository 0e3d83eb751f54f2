package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	BaseWidth  = 1280
	BaseHeight = 720
	// TPS is the fixed update rate the game loop runs at.
	TPS = 60
)

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// SmoothingFactor returns the blend factor 1 - exp(-sharpness*dt). A
// non-positive dt or sharpness holds the current value.
func SmoothingFactor(sharpness, dt float32) float32 {
	if dt <= 0 || sharpness <= 0 {
		return 0
	}
	return 1 - float32(math.Exp(-float64(sharpness)*float64(dt)))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds half away from zero.
func Round(v float32) float32 {
	return float32(math.Round(float64(v)))
}
