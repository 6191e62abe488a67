package fractal

import (
	gomath "math"

	"github.com/Faultbox/midgard-fractal/pkg/math"
)

var slotDirections = [BranchFactor]math.Vec3{
	math.Vec3Up,
	math.Vec3Right,
	math.Vec3Left,
	math.Vec3Forward,
	math.Vec3Back,
}

// Each slot rotation turns local up onto the slot direction.
var slotRotations = [BranchFactor]math.Quat{
	math.QuatIdentity(),
	math.QuatRotateZ(-0.5 * gomath.Pi),
	math.QuatRotateZ(0.5 * gomath.Pi),
	math.QuatRotateX(0.5 * gomath.Pi),
	math.QuatRotateX(-0.5 * gomath.Pi),
}

// Part is one node of the tree. Direction and Rotation are fixed by the
// node's slot; the world fields are outputs of the frame update.
type Part struct {
	direction math.Vec3
	rotation  math.Quat

	spinAngle     float32
	worldRotation math.Quat
	worldPosition math.Vec3
}

func newPart(slot int) Part {
	return Part{
		direction:     slotDirections[slot],
		rotation:      slotRotations[slot],
		worldRotation: math.QuatIdentity(),
	}
}

// Direction returns the unit offset direction from the parent.
func (p Part) Direction() math.Vec3 { return p.direction }

// LocalRotation returns the fixed rotation offset relative to the parent.
func (p Part) LocalRotation() math.Quat { return p.rotation }

// SpinAngle returns the accumulated spin in radians.
func (p Part) SpinAngle() float32 { return p.spinAngle }

// WorldRotation returns the rotation computed in the last frame.
func (p Part) WorldRotation() math.Quat { return p.worldRotation }

// WorldPosition returns the position computed in the last frame.
func (p Part) WorldPosition() math.Vec3 { return p.worldPosition }
