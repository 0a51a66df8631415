// Package physics is a small rigid-body world for driving a spin top
// outside a game engine.
//
// [World] implements [top.Physics] over static colliders ([Plane], [Box],
// [Sphere]) and steps [RigidBody] values, which implement [top.Body]:
//
//	world := physics.NewWorld()
//	world.AddCollider(physics.NewGround(0))
//	body := physics.NewRigidBody(0.1)
//	world.AddBody(body)
//	for range steps {
//	    world.Step(dt)
//	}
//
// # Contacts
//
// Each body touches the world through a sphere of [RigidBody.Radius] at its
// position. While resting on an upward-facing surface, gravity and any
// applied force act on the center of mass around that contact point, so a
// raised center of mass tips the body over and a lowered one rights it.
package physics
