package renderer

import (
	"github.com/Faultbox/midgard-fractal/internal/fractal"
	"github.com/Faultbox/midgard-fractal/pkg/math"
)

// outsideFrustum reports whether every corner of b lies beyond the same clip
// plane of viewProj. It is conservative: boxes straddling planes are kept.
func outsideFrustum(viewProj math.Mat4, b fractal.Bounds) bool {
	var out [6]int
	half := b.Size.Scale(0.5)
	for i := 0; i < 8; i++ {
		corner := b.Center
		corner.X += sign(i&1) * half.X
		corner.Y += sign(i&2) * half.Y
		corner.Z += sign(i&4) * half.Z

		m := viewProj
		x := m[0]*corner.X + m[4]*corner.Y + m[8]*corner.Z + m[12]
		y := m[1]*corner.X + m[5]*corner.Y + m[9]*corner.Z + m[13]
		z := m[2]*corner.X + m[6]*corner.Y + m[10]*corner.Z + m[14]
		w := m[3]*corner.X + m[7]*corner.Y + m[11]*corner.Z + m[15]

		if x < -w {
			out[0]++
		}
		if x > w {
			out[1]++
		}
		if y < -w {
			out[2]++
		}
		if y > w {
			out[3]++
		}
		if z < -w {
			out[4]++
		}
		if z > w {
			out[5]++
		}
	}
	for _, n := range out {
		if n == 8 {
			return true
		}
	}
	return false
}

func sign(bit int) float32 {
	if bit != 0 {
		return 1
	}
	return -1
}
