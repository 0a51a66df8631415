package top_test

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spintop/internal/holder"
	"github.com/san-kum/spintop/internal/input"
	"github.com/san-kum/spintop/internal/physics"
	"github.com/san-kum/spintop/internal/top"
)

const (
	frame = 1.0 / 64
	fixed = 1.0 / 128
)

var _ = Describe("Controller in a physics world", func() {
	var (
		world  *physics.World
		body   *physics.RigidBody
		hand   *holder.Hand
		hub    *input.Hub
		ctrl   *top.Controller
		cfg    top.Config
		closer interface{ Close() error }
	)

	tick := func() {
		ctrl.FixedUpdate(fixed)
		world.Step(fixed)
		ctrl.FixedUpdate(fixed)
		world.Step(fixed)
		hand.Update(frame)
		ctrl.Update(frame)
	}
	runFor := func(seconds float64) {
		for i := 0; i < int(seconds/frame); i++ {
			tick()
		}
	}

	BeforeEach(func() {
		world = physics.NewWorld()
		world.AddCollider(physics.NewGround(0))
		body = physics.NewRigidBody(0.1)
		world.AddBody(body)
		hand = holder.NewHand(mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{0, -1.5, -1})
		hub = input.NewHub()

		cfg = top.DefaultConfig()
		cfg.MinFallTime, cfg.MaxFallTime = 2, 3

		var err error
		ctrl, err = top.New(cfg, top.Deps{Body: body, Physics: world, Holder: hand, Rand: rand.New(rand.NewSource(3))})
		Expect(err).NotTo(HaveOccurred())
		closer = ctrl.Bind(hub)

		hand.Grab(body)
		runFor(0.25)
		Expect(hand.PickedUp()).To(BeTrue())
	})

	AfterEach(func() {
		Expect(closer.Close()).To(Succeed())
	})

	Context("when the gaze hits the floor", func() {
		BeforeEach(func() {
			hub.Fire()
		})

		It("eases the top onto the floor and starts it spinning", func() {
			Expect(ctrl.Phase()).To(Equal(top.PhasePlacing))
			Expect(hand.Held()).To(BeNil())
			target := ctrl.Target()
			Expect(target.Y()).To(BeNumerically("~", cfg.PlacementHeight, 1e-9))

			runFor(cfg.PlacementDuration)

			Expect(body.Position()).To(Equal(target))
			Expect(body.Kinematic()).To(BeFalse())
			Expect(ctrl.Spinning()).To(BeTrue())
			Expect(body.AngularVelocity().Len()).To(BeNumerically("~", cfg.SpinVelocity, 1e-9))
		})

		It("ignores use while placing", func() {
			hand.GrabDelay = 0
			hand.Grab(body)
			Expect(hand.PickedUp()).To(BeTrue())
			hub.Fire()
			Expect(ctrl.Phase()).To(Equal(top.PhasePlacing))
		})

		It("leaves the top in the hand when grabbed mid-placement", func() {
			runFor(cfg.PlacementDuration / 4)
			hand.Grab(body)
			runFor(2 * cfg.PlacementDuration)

			Expect(ctrl.Placing()).To(BeFalse())
			Expect(ctrl.Spinning()).To(BeFalse())
			Expect(ctrl.Phase()).To(Equal(top.PhaseIdle))
			Expect(body.Kinematic()).To(BeTrue())
			Expect(body.Velocity()).To(Equal(mgl64.Vec3{}))
			Expect(body.Position()).To(Equal(hand.HoldPoint()))
		})

		It("settles within the fall time and keeps the stable offset", func() {
			runFor(cfg.PlacementDuration + frame)
			Expect(ctrl.Spinning()).To(BeTrue())

			runFor(cfg.MaxFallTime + 2*frame)
			Expect(ctrl.Spinning()).To(BeFalse())
			Expect(ctrl.Phase()).To(Equal(top.PhaseIdle))
			Expect(body.CenterOfMass()).To(Equal(cfg.StableCenterOfMass))
			Expect(body.Resting()).To(BeTrue())
		})

		It("pushes the spinning top sideways", func() {
			runFor(cfg.PlacementDuration + 0.25)
			Expect(ctrl.PushCount()).To(BeNumerically(">=", 1))
			drift := body.Position().Sub(ctrl.Target())
			Expect(mgl64.Vec2{drift.X(), drift.Z()}.Len()).To(BeNumerically(">", 1e-6))
		})
	})

	Context("when nothing is in reach", func() {
		BeforeEach(func() {
			hand.Look(mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{0, 1, -1})
			hub.Fire()
		})

		It("tosses the top forward and spins it immediately", func() {
			Expect(ctrl.Phase()).To(Equal(top.PhaseSettling))
			Expect(ctrl.Spinning()).To(BeTrue())
			Expect(body.Velocity().Z()).To(BeNumerically("<", 0))
			Expect(body.Velocity().Y()).To(BeNumerically(">", 0))
		})
	})

	Context("after the input is unbound", func() {
		It("stops reacting to use", func() {
			Expect(closer.Close()).To(Succeed())
			hub.Fire()
			Expect(ctrl.Phase()).To(Equal(top.PhaseIdle))
			Expect(hub.Subscribers()).To(BeZero())
		})
	})
})
