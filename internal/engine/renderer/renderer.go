// Package renderer provides the OpenGL backend for the fractal: instanced
// cube meshes fed from per-level instance buffers.
package renderer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-fractal/internal/engine/shader"
	"github.com/Faultbox/midgard-fractal/internal/fractal"
	"github.com/Faultbox/midgard-fractal/internal/logger"
	"github.com/Faultbox/midgard-fractal/pkg/math"
)

// ErrBadInstanceLayout is returned when an instance buffer is requested with
// a stride other than math.Mat3x4Stride or a non-positive count.
var ErrBadInstanceLayout = errors.New("renderer: bad instance buffer layout")

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool
}

// Stats counts the work submitted during the current frame.
type Stats struct {
	Draws     int
	Culled    int
	Rejected  int
	Instances int
}

// Renderer handles all OpenGL rendering and implements fractal.Device.
type Renderer struct {
	config Config
	log    *zap.Logger

	program *shader.Program
	cube    *mesh
	meshes  map[fractal.MeshHandle]*mesh

	viewProj math.Mat4
	stats    Stats
	live     map[*instanceBuffer]struct{}
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		viewProj: math.Identity(),
		live:     make(map[*instanceBuffer]struct{}),
		meshes:   make(map[fractal.MeshHandle]*mesh),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(0.08, 0.08, 0.12, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	program, err := shader.Compile(instancedVertexShader, instancedFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = program

	r.cube = newMesh(cubeVertices())
	r.meshes[fractal.MeshHandle(r.cube.vao)] = r.cube
	r.log.Debug("cube mesh created",
		zap.Uint32("vao", r.cube.vao),
		zap.Int32("indices", r.cube.indexCount),
	)

	return r, nil
}

// Mesh returns the handle of the built-in cube mesh.
func (r *Renderer) Mesh() fractal.MeshHandle {
	return fractal.MeshHandle(r.cube.vao)
}

// Material returns the handle of the instanced shader program.
func (r *Renderer) Material() fractal.MaterialHandle {
	return fractal.MaterialHandle(r.program.ID)
}

// Close cleans up renderer resources. Instance buffers are owned by the
// fractal and must be released before Close; leftovers are reported.
func (r *Renderer) Close() {
	if n := len(r.live); n > 0 {
		r.log.Warn("instance buffers still alive at close", zap.Int("count", n))
		for b := range r.live {
			b.Release()
		}
	}
	r.log.Info("closing renderer")
	for handle, m := range r.meshes {
		m.delete()
		delete(r.meshes, handle)
	}
	r.cube = nil
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetViewProjection sets the camera matrix used by subsequent draws.
func (r *Renderer) SetViewProjection(viewProj math.Mat4) {
	r.viewProj = viewProj
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	r.stats = Stats{}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.program.Use()
	gl.UniformMatrix4fv(r.program.Uniform("uViewProj"), 1, false, r.viewProj.Ptr())
	gl.Uniform3f(r.program.Uniform("uBaseColor"), 0.20, 0.35, 0.80)
	gl.Uniform3f(r.program.Uniform("uTipColor"), 0.95, 0.75, 0.25)
	light := math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize()
	gl.Uniform3f(r.program.Uniform("uLightDir"), light.X, light.Y, light.Z)
}

// SetHeightRange sets the world-space height over which the color gradient spans.
func (r *Renderer) SetHeightRange(h float32) {
	r.program.Use()
	gl.Uniform1f(r.program.Uniform("uHeightRange"), h)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// Stats returns the counters of the current frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// NewInstanceBuffer allocates a dynamic GL buffer of count 3x4 matrices.
func (r *Renderer) NewInstanceBuffer(count, stride int) (fractal.InstanceBuffer, error) {
	if count <= 0 || stride != math.Mat3x4Stride {
		return nil, fmt.Errorf("%w: count %d, stride %d", ErrBadInstanceLayout, count, stride)
	}

	b := &instanceBuffer{owner: r, count: count}
	gl.GenBuffers(1, &b.vbo)
	if b.vbo == 0 {
		return nil, fmt.Errorf("glGenBuffers failed for %d instances", count)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, count*stride, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.live[b] = struct{}{}
	return b, nil
}

// Draw issues one instanced draw of the mesh named by call.Mesh. Calls
// naming an unknown mesh or a foreign buffer are rejected. Calls whose bounds
// lie outside the view frustum are skipped.
func (r *Renderer) Draw(call fractal.DrawCall) {
	buf, ok := call.Buffer.(*instanceBuffer)
	m, known := r.meshes[call.Mesh]
	if !ok || !known {
		r.stats.Rejected++
		r.log.Debug("draw rejected",
			zap.Uint32("mesh", uint32(call.Mesh)),
			zap.Bool("known_mesh", known),
			zap.Bool("own_buffer", ok),
		)
		return
	}
	if buf.vbo == 0 || call.Instances == 0 {
		return
	}
	if outsideFrustum(r.viewProj, call.Bounds) {
		r.stats.Culled++
		return
	}

	gl.UseProgram(uint32(call.Material))
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	for col := uint32(0); col < 4; col++ {
		gl.VertexAttribPointer(2+col, 3, gl.FLOAT, false, math.Mat3x4Stride, unsafe.Pointer(uintptr(col*12)))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.DrawElementsInstanced(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil, int32(call.Instances))

	r.stats.Draws++
	r.stats.Instances += call.Instances
}

// instanceBuffer is a GL array buffer of per-instance 3x4 matrices.
type instanceBuffer struct {
	owner *Renderer
	vbo   uint32
	count int
}

func (b *instanceBuffer) SetData(data []math.Mat3x4) {
	if b.vbo == 0 || len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*math.Mat3x4Stride, unsafe.Pointer(&data[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *instanceBuffer) Count() int {
	return b.count
}

func (b *instanceBuffer) Release() {
	if b.vbo == 0 {
		return
	}
	gl.DeleteBuffers(1, &b.vbo)
	b.vbo = 0
	delete(b.owner.live, b)
}
