package renderer

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/midgard-fractal/internal/fractal"
	"github.com/Faultbox/midgard-fractal/pkg/math"
)

type foreignBuffer struct{}

func (foreignBuffer) SetData([]math.Mat3x4) {}
func (foreignBuffer) Count() int            { return 1 }
func (foreignBuffer) Release()              {}

// Only paths that return before touching GL are exercised here.
func TestDrawRejectsUnknownMeshAndForeignBuffers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := &Renderer{
		log:      zap.New(core),
		viewProj: math.Identity(),
		meshes:   map[fractal.MeshHandle]*mesh{7: {vao: 7, indexCount: 36}},
	}
	own := &instanceBuffer{owner: r, vbo: 3, count: 5}

	tests := []struct {
		name string
		call fractal.DrawCall
	}{
		{"unknown mesh", fractal.DrawCall{Mesh: 8, Instances: 5, Buffer: own}},
		{"foreign buffer", fractal.DrawCall{Mesh: 7, Instances: 1, Buffer: foreignBuffer{}}},
		{"no buffer", fractal.DrawCall{Mesh: 7, Instances: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := r.stats.Rejected
			r.Draw(tt.call)
			if r.stats.Rejected != before+1 {
				t.Errorf("rejected = %d, want %d", r.stats.Rejected, before+1)
			}
			if r.stats.Draws != 0 || r.stats.Instances != 0 {
				t.Errorf("unexpected draw recorded: %+v", r.stats)
			}
		})
	}
	if n := logs.FilterMessage("draw rejected").Len(); n != len(tests) {
		t.Errorf("logged %d rejections, want %d", n, len(tests))
	}
}

func TestDrawSkipsReleasedBuffer(t *testing.T) {
	r := &Renderer{
		log:    zap.NewNop(),
		meshes: map[fractal.MeshHandle]*mesh{7: {vao: 7, indexCount: 36}},
	}
	released := &instanceBuffer{owner: r, count: 5}

	r.Draw(fractal.DrawCall{Mesh: 7, Instances: 5, Buffer: released})
	if r.stats != (Stats{}) {
		t.Errorf("stats = %+v, want none", r.stats)
	}
}
