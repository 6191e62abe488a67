package renderer

import (
	"math"
	"testing"

	"github.com/Faultbox/midgard-fractal/internal/fractal"
	fmath "github.com/Faultbox/midgard-fractal/pkg/math"
)

func TestOutsideFrustum(t *testing.T) {
	proj := fmath.Perspective(float32(math.Pi/3), 1, 0.1, 100)
	view := fmath.LookAt(fmath.Vec3{X: 0, Y: 0, Z: 10}, fmath.Vec3{}, fmath.Vec3Up)
	viewProj := proj.Mul(view)

	tests := []struct {
		name   string
		bounds fractal.Bounds
		want   bool
	}{
		{"at target", fractal.Bounds{Center: fmath.Vec3{}, Size: fmath.Splat(3)}, false},
		{"behind camera", fractal.Bounds{Center: fmath.Vec3{X: 0, Y: 0, Z: 30}, Size: fmath.Splat(3)}, true},
		{"far left", fractal.Bounds{Center: fmath.Vec3{X: -200, Y: 0, Z: 0}, Size: fmath.Splat(3)}, true},
		{"beyond far plane", fractal.Bounds{Center: fmath.Vec3{X: 0, Y: 0, Z: -500}, Size: fmath.Splat(3)}, true},
		{"straddling edge", fractal.Bounds{Center: fmath.Vec3{X: 6, Y: 0, Z: 0}, Size: fmath.Splat(6)}, false},
		{"containing camera", fractal.Bounds{Center: fmath.Vec3{X: 0, Y: 0, Z: 10}, Size: fmath.Splat(50)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outsideFrustum(viewProj, tt.bounds); got != tt.want {
				t.Errorf("outsideFrustum = %v, want %v", got, tt.want)
			}
		})
	}
}
