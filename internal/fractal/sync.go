package fractal

import (
	"fmt"

	"github.com/Faultbox/midgard-fractal/pkg/math"
)

// MeshHandle identifies a mesh owned by the rendering backend.
type MeshHandle uint32

// MaterialHandle identifies a material (shader program) owned by the rendering backend.
type MaterialHandle uint32

// Bounds is an axis-aligned box given by its center and full size.
type Bounds struct {
	Center math.Vec3
	Size   math.Vec3
}

// InstanceBuffer is a GPU-visible array of per-instance transforms.
type InstanceBuffer interface {
	// SetData overwrites the whole buffer. len(data) equals Count.
	SetData(data []math.Mat3x4)
	Count() int
	Release()
}

// DrawCall describes one instanced draw.
type DrawCall struct {
	Mesh      MeshHandle
	Material  MaterialHandle
	Bounds    Bounds
	Instances int
	Buffer    InstanceBuffer
}

// Device is the rendering backend used by the controller.
type Device interface {
	NewInstanceBuffer(count, stride int) (InstanceBuffer, error)
	Draw(call DrawCall)
}

// encodeInstance packs a part's world transform at the given scale.
func encodeInstance(p *Part, scale float32) math.Mat3x4 {
	return math.TRS(p.worldRotation, p.worldPosition, scale)
}

// InstanceSync owns one instance buffer per level and submits one draw per level.
type InstanceSync struct {
	device  Device
	buffers []InstanceBuffer
}

// NewInstanceSync creates a sync bound to device. No buffers exist until Allocate.
func NewInstanceSync(device Device) *InstanceSync {
	return &InstanceSync{device: device}
}

// Allocate creates a buffer per level of layout. Existing buffers are released
// first. On failure every buffer created so far is released.
func (s *InstanceSync) Allocate(layout Layout) error {
	s.Release()

	buffers := make([]InstanceBuffer, 0, layout.Depth())
	for level := 0; level < layout.Depth(); level++ {
		buf, err := s.device.NewInstanceBuffer(layout.LevelSize(level), math.Mat3x4Stride)
		if err != nil {
			for _, b := range buffers {
				b.Release()
			}
			return fmt.Errorf("creating instance buffer for level %d: %w", level, err)
		}
		buffers = append(buffers, buf)
	}
	s.buffers = buffers
	return nil
}

// Release frees every buffer. Safe to call when nothing is allocated.
func (s *InstanceSync) Release() {
	for _, b := range s.buffers {
		b.Release()
	}
	s.buffers = nil
}

// Levels returns the number of held buffers.
func (s *InstanceSync) Levels() int {
	return len(s.buffers)
}

// Sync uploads every level's matrices and draws each level once.
func (s *InstanceSync) Sync(store *Store, mesh MeshHandle, material MaterialHandle, bounds Bounds) {
	for level, buf := range s.buffers {
		buf.SetData(store.Matrices(level))
		s.device.Draw(DrawCall{
			Mesh:      mesh,
			Material:  material,
			Bounds:    bounds,
			Instances: buf.Count(),
			Buffer:    buf,
		})
	}
}
