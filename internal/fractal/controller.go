package fractal

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-fractal/internal/logger"
)

// State is the lifecycle state of a Controller.
type State int

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Controller drives the fractal: it owns the part store and the instance
// buffers and advances them once per Update. All methods must be called
// from the same goroutine.
type Controller struct {
	device Device
	owner  TransformSource
	sched  Scheduler
	log    *zap.Logger

	state      State
	settings   Settings
	store      Store
	sync       *InstanceSync
	frame      uint64
	activation string
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets how level work is split. The default is SerialScheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.sched = s
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// NewController creates an inactive controller drawing through device and
// reading the root transform from owner.
func NewController(device Device, owner TransformSource, opts ...Option) *Controller {
	c := &Controller{
		device: device,
		owner:  owner,
		sched:  SerialScheduler{},
		sync:   NewInstanceSync(device),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("fractal")
	}
	return c
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Active reports whether the tree is allocated.
func (c *Controller) Active() bool { return c.state == Active }

// Settings returns the settings of the current or last activation.
func (c *Controller) Settings() Settings { return c.settings }

// Frame returns the number of frames advanced since activation.
func (c *Controller) Frame() uint64 { return c.frame }

// Store exposes the part store for inspection. Callers must not mutate it.
func (c *Controller) Store() *Store { return &c.store }

// Activate validates settings and allocates the tree and its buffers.
// On error nothing is held and the controller is inactive.
func (c *Controller) Activate(settings Settings) error {
	layout, err := settings.Validate()
	if err != nil {
		c.log.Warn("rejected fractal settings", zap.Int("depth", settings.Depth), zap.Error(err))
		return err
	}
	if c.state == Active {
		c.Deactivate()
	}

	c.store.Allocate(layout)
	if err := c.sync.Allocate(layout); err != nil {
		c.store.Release()
		c.log.Error("fractal activation failed", zap.Error(err))
		return err
	}

	c.settings = settings
	c.frame = 0
	c.store.seedRoot(c.owner.WorldTransform())
	c.state = Active
	c.activation = uuid.NewString()

	c.log.Info("fractal activated",
		zap.String("activation", c.activation),
		zap.Int("depth", layout.Depth()),
		zap.Int("nodes", layout.TotalNodes()),
	)
	return nil
}

// Deactivate releases the buffers and the tree. It is a no-op when inactive.
func (c *Controller) Deactivate() {
	if c.state != Active {
		return
	}
	c.sync.Release()
	c.store.Release()
	c.state = Inactive

	c.log.Info("fractal deactivated",
		zap.String("activation", c.activation),
		zap.Uint64("frames", c.frame),
	)
}

// Rebuild tears the tree down and builds it again with settings. Invalid
// settings are rejected before anything is released, leaving the current
// tree in place.
func (c *Controller) Rebuild(settings Settings) error {
	if _, err := settings.Validate(); err != nil {
		c.log.Warn("rebuild rejected", zap.Int("depth", settings.Depth), zap.Error(err))
		return err
	}
	if c.state != Active {
		return ErrInactive
	}
	c.log.Debug("rebuilding fractal", zap.Int("from", c.settings.Depth), zap.Int("to", settings.Depth))
	c.Deactivate()
	return c.Activate(settings)
}

// Update advances the whole tree by dt seconds and draws every level.
// A frame with a negative or non-finite dt is skipped without changes.
func (c *Controller) Update(dt float32) error {
	if c.state != Active {
		return ErrInactive
	}
	if dt < 0 || math32.IsNaN(dt) || math32.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}

	c.frame++
	owner := c.owner.WorldTransform()
	spinDelta := c.settings.SpinRate * dt

	c.store.updateRoot(c.frame, owner, spinDelta)
	for level := 1; level < c.store.Depth(); level++ {
		scale := c.settings.LevelScale(owner.Scale, level)
		c.store.updateLevel(c.sched, c.frame, level, spinDelta, scale, c.settings.ChildOffset)
	}

	bounds := c.settings.Bounds(c.store.Part(0, 0).worldPosition, owner.Scale)
	c.sync.Sync(&c.store, c.settings.Mesh, c.settings.Material, bounds)
	return nil
}
