package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)
	got := m.TransformVec3(Vec3{1, 1, 1})
	if got != (Vec3{6, 11, 16}) {
		t.Errorf("Translate: got %v, want (6, 11, 16)", got)
	}
}

func TestPerspectiveLookAtMatchMathgl(t *testing.T) {
	proj := Perspective(float32(math.Pi/4), 16.0/9.0, 0.1, 100)
	refProj := mgl32.Perspective(float32(math.Pi/4), 16.0/9.0, 0.1, 100)

	eye, center := Vec3{4, 3, 5}, Vec3{0, 1, 0}
	view := LookAt(eye, center, Vec3Up)
	refView := mgl32.LookAtV(toMgl(eye), toMgl(center), mgl32.Vec3{0, 1, 0})

	got := proj.Mul(view)
	want := refProj.Mul4(refView)
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-4 {
			t.Errorf("element %d: got %v, mathgl %v", i, got[i], want[i])
		}
	}
}
