package experiment

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/holder"
	"github.com/san-kum/spintop/internal/input"
	"github.com/san-kum/spintop/internal/logging"
	"github.com/san-kum/spintop/internal/physics"
	"github.com/san-kum/spintop/internal/sim"
	"github.com/san-kum/spintop/internal/top"
)

// Experiment wires a scene, a top, a hand and a scripted input stream
// around one controller. It implements sim.Scene.
type Experiment struct {
	cfg *config.Config
	log logging.Logger

	world   *physics.World
	body    *physics.RigidBody
	hand    *holder.Hand
	hub     *input.Hub
	script  *input.Script
	ctrl    *top.Controller
	binding io.Closer

	loop *sim.Loop
}

func New(cfg *config.Config, reg *Registry, log logging.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = logging.OrNop(log)

	world := physics.NewWorld()
	if err := reg.Build(cfg.Scene.Name, world); err != nil {
		return nil, err
	}

	body := physics.NewRigidBody(cfg.Scene.Mass)
	body.SetPosition(cfg.Scene.Start)
	world.AddBody(body)

	script, err := input.NewScript(cfg.Scene.Events()...)
	if err != nil {
		return nil, fmt.Errorf("scene script: %w", err)
	}

	hand := holder.NewHand(cfg.Scene.Eye, cfg.Scene.Forward)
	ctrl, err := top.New(cfg.Top, top.Deps{
		Body:    body,
		Physics: world,
		Holder:  hand,
		Rand:    rand.New(rand.NewSource(cfg.Sim.Seed)),
		Logger:  log.Named("top"),
	})
	if err != nil {
		return nil, err
	}

	hub := input.NewHub()
	e := &Experiment{
		cfg:     cfg,
		log:     log,
		world:   world,
		body:    body,
		hand:    hand,
		hub:     hub,
		script:  script,
		ctrl:    ctrl,
		binding: ctrl.Bind(hub),
		loop:    sim.New(),
	}
	for _, m := range reg.DefaultMetrics(body.Inertia) {
		e.loop.AddMetric(m)
	}

	log.Debugf("experiment ready: scene=%s seed=%d events=%d", cfg.Scene.Name, cfg.Sim.Seed, len(script.Events()))
	return e, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.loop.Run(ctx, e, e.cfg.Loop())
}

func (e *Experiment) Fixed(dt float64) {
	e.ctrl.FixedUpdate(dt)
	e.world.Step(dt)
}

func (e *Experiment) Frame(t, dt float64) {
	for _, ev := range e.script.Due(t) {
		switch ev.Action {
		case input.ActionGrab:
			e.Grab()
		case input.ActionUse:
			e.Use()
		}
	}
	e.hand.Update(dt)
	e.ctrl.Update(dt)
}

func (e *Experiment) Sample(t float64) sim.Sample {
	st := e.ctrl.Status()
	return sim.Sample{
		Time:         t,
		Position:     e.body.Position(),
		Tilt:         physics.Tilt(e.body),
		AngularSpeed: e.body.AngularVelocity().Len(),
		CenterOfMass: e.body.CenterOfMass(),
		Phase:        st.Phase.String(),
		Spinning:     st.Spinning,
		PushActive:   st.PushActive,
		PushForce:    st.PushForce.Len(),
	}
}

// Use fires a use action through the input hub.
func (e *Experiment) Use() {
	e.log.Debugf("use at t=%.3f", e.ctrl.Clock())
	e.hub.Fire()
}

// Grab puts the top back into the hand.
func (e *Experiment) Grab() {
	e.log.Debugf("grab at t=%.3f", e.ctrl.Clock())
	e.hand.Grab(e.body)
}

func (e *Experiment) Close() error {
	if err := e.binding.Close(); err != nil {
		return err
	}
	return e.ctrl.Close()
}

func (e *Experiment) Config() *config.Config      { return e.cfg }
func (e *Experiment) Controller() *top.Controller { return e.ctrl }
func (e *Experiment) Body() *physics.RigidBody    { return e.body }
func (e *Experiment) World() *physics.World       { return e.world }
func (e *Experiment) Hand() *holder.Hand          { return e.hand }
func (e *Experiment) Loop() *sim.Loop             { return e.loop }
