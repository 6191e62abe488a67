package fractal

import (
	"github.com/Faultbox/midgard-fractal/pkg/math"
)

// levelJob advances one level from its already advanced parent level.
// Each index reads only its parent and writes only itself.
type levelJob struct {
	spinDelta float32
	scale     float32
	offset    float32

	parents  []Part
	parts    []Part
	matrices []math.Mat3x4
}

func (j *levelJob) execute(start, end int) {
	for i := start; i < end; i++ {
		parent := &j.parents[i/BranchFactor]
		part := &j.parts[i]

		part.spinAngle += j.spinDelta
		part.worldRotation = parent.worldRotation.Mul(part.rotation.Mul(math.QuatRotateY(part.spinAngle)))
		part.worldPosition = parent.worldPosition.Add(
			parent.worldRotation.Rotate(part.direction.Scale(j.offset * j.scale)))

		j.matrices[i] = encodeInstance(part, j.scale)
	}
}

// seedRoot places the root at the owner transform with its identity local rotation.
func (s *Store) seedRoot(owner Transform) {
	root := &s.parts[0][0]
	root.rotation = math.QuatIdentity()
	root.worldRotation = owner.Rotation.Mul(root.rotation)
	root.worldPosition = owner.Position
	s.matrices[0][0] = encodeInstance(root, owner.Scale)
}

// updateRoot advances the single level 0 part from the owner transform.
func (s *Store) updateRoot(frame uint64, owner Transform, spinDelta float32) {
	root := &s.parts[0][0]
	root.spinAngle += spinDelta
	root.worldRotation = owner.Rotation.Mul(root.rotation.Mul(math.QuatRotateY(root.spinAngle)))
	root.worldPosition = owner.Position
	s.matrices[0][0] = encodeInstance(root, owner.Scale)
	s.stamps[0] = frame
}

// updateLevel advances level (>= 1) for frame. The parent level must already
// carry the same frame stamp; anything else is an ordering violation.
func (s *Store) updateLevel(sched Scheduler, frame uint64, level int, spinDelta, scale, offset float32) {
	if s.stamps[level-1] != frame || s.stamps[level] == frame {
		panic(ErrOrderingViolation)
	}

	job := levelJob{
		spinDelta: spinDelta,
		scale:     scale,
		offset:    offset,
		parents:   s.parts[level-1],
		parts:     s.parts[level],
		matrices:  s.matrices[level],
	}
	sched.Run(len(job.parts), job.execute)
	s.stamps[level] = frame
}
