package top

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/curve"
	"github.com/san-kum/spintop/internal/logging"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlacing
	PhaseTossed
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlacing:
		return "placing"
	case PhaseTossed:
		return "tossed"
	case PhaseSettling:
		return "settling"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Deps are the collaborators a Controller drives. Body and Physics are
// required; a nil Holder leaves the controller inert.
type Deps struct {
	Body    Body
	Physics Physics
	Holder  Holder
	Curve   curve.Curve
	Rand    *rand.Rand
	Logger  logging.Logger
}

// Controller is the spin-top interaction controller. It is driven from a
// single goroutine: Use from input delivery, FixedUpdate once per physics
// step and Update once per frame.
type Controller struct {
	cfg     Config
	body    Body
	physics Physics
	holder  Holder
	curve   curve.Curve
	rng     *rand.Rand
	log     logging.Logger

	phase    Phase
	spinning bool
	place    placement
	balance  balance
	push     pushState
	clock    float64

	sub    *binding
	closed bool
}

func New(cfg Config, deps Deps) (*Controller, error) {
	if deps.Body == nil {
		return nil, fmt.Errorf("create controller: %w", ErrNoBody)
	}
	if deps.Physics == nil {
		return nil, fmt.Errorf("create controller: %w", ErrNoPhysics)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:     cfg,
		body:    deps.Body,
		physics: deps.Physics,
		holder:  deps.Holder,
		curve:   deps.Curve,
		rng:     deps.Rand,
		log:     logging.OrNop(deps.Logger),
	}

	if c.curve == nil {
		built, err := cfg.Curve.Build()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		c.curve = built
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.holder == nil {
		c.log.Warnf("no holder attached, use events will be ignored")
	}

	return c, nil
}

// Bind subscribes Use to src, replacing any earlier binding. The returned
// handle releases only this subscription; Close releases the current one.
func (c *Controller) Bind(src InputSource) io.Closer {
	if src == nil {
		c.log.Warnf("no input source attached, top will never be used")
		return nopCloser{}
	}
	if c.sub != nil {
		_ = c.sub.Close()
	}
	c.sub = &binding{sub: src.OnUse(c.Use)}
	return c.sub
}

// Close releases the input subscription. Use is a no-op afterwards.
func (c *Controller) Close() error {
	c.closed = true
	if c.sub == nil {
		return nil
	}
	err := c.sub.Close()
	c.sub = nil
	return err
}

// Use handles a use action from the input source.
func (c *Controller) Use() {
	if c.closed || c.holder == nil {
		return
	}
	if c.phase == PhasePlacing {
		c.log.Debugf("use ignored: placement in progress")
		return
	}
	if c.holder.Held() != c.body || !c.holder.PickedUp() {
		c.log.Debugf("use ignored: top not picked up")
		return
	}

	c.stopSpin()
	c.body.SetCenterOfMass(c.cfg.UnstableCenterOfMass)
	c.body.SetKinematic(false)

	origin, forward := c.holder.Eye()
	hit, ok := c.physics.Raycast(origin, forward, c.cfg.PlaceDistance, c.cfg.SurfaceMask)
	c.holder.Release()

	if ok {
		c.beginPlacement(hit)
		return
	}
	c.toss(forward)
}

// FixedUpdate runs once per physics step: spin correction first, then the
// push force layered on top of it.
func (c *Controller) FixedUpdate(dt float64) {
	now := c.clock
	c.clock += dt
	if !c.spinning {
		return
	}
	c.driveSpin()
	c.perturb(now, dt)
}

// Update runs once per frame and advances the timed sequences. A placement
// is dropped as soon as the holder has the top again.
func (c *Controller) Update(dt float64) {
	if c.place.active && c.holder != nil && c.holder.Held() == c.body {
		c.cancelPlacement()
	}
	if c.balance.active {
		offset, done := c.balance.advance(dt)
		c.body.SetCenterOfMass(offset)
		if done {
			c.settle()
		}
	}
	if c.place.active {
		pos, done := c.place.advance(dt)
		c.body.SetPosition(pos)
		c.body.SetRotation(c.place.rotation)
		if done {
			c.finishPlacement()
		}
	}
}

func (c *Controller) setPhase(p Phase) {
	if c.phase == p {
		return
	}
	c.log.Debugf("phase %s -> %s", c.phase, p)
	c.phase = p
}

func (c *Controller) Phase() Phase       { return c.phase }
func (c *Controller) Spinning() bool     { return c.spinning }
func (c *Controller) Config() Config     { return c.cfg }
func (c *Controller) Clock() float64     { return c.clock }
func (c *Controller) Body() Body         { return c.body }
func (c *Controller) PushCount() int     { return c.push.count }
func (c *Controller) Placing() bool      { return c.place.active }
func (c *Controller) Balancing() bool    { return c.balance.active }
func (c *Controller) Target() mgl64.Vec3 { return c.place.target }

// Status is a read-only view of the controller for telemetry.
type Status struct {
	Phase           Phase
	Spinning        bool
	PushActive      bool
	PushFraction    float64
	PushForce       mgl64.Vec3
	BalanceProgress float64
	BalanceDuration float64
}

func (c *Controller) Status() Status {
	return Status{
		Phase:           c.phase,
		Spinning:        c.spinning,
		PushActive:      c.push.active,
		PushFraction:    c.push.fraction,
		PushForce:       c.push.applied,
		BalanceProgress: c.balance.progress(),
		BalanceDuration: c.balance.duration,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// binding owns one input subscription and releases it at most once.
type binding struct {
	sub Subscription
}

func (b *binding) Close() error {
	if b.sub == nil {
		return nil
	}
	err := b.sub.Close()
	b.sub = nil
	return err
}
